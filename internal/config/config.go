package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenAddr            string
	DBPath                string
	UpstreamBaseURL       string
	MediaOrigin           string
	UpstreamTimeout       time.Duration
	SessionSecret         string
	SessionMaxAge         int
	CookieSecure          bool
	MediaBackend          string
	MediaLocalPath        string
	CloudinaryURL         string
	ActivityRetentionDays int
	PageSize              int
	LogLevel              string
	LogFile               string
}

func Load() *Config {
	return &Config{
		ListenAddr:            getEnv("LISTEN_ADDR", ":8080"),
		DBPath:                getEnv("DB_PATH", "/data/roboadmin.db"),
		UpstreamBaseURL:       getEnv("UPSTREAM_BASE_URL", "https://lunarsenterprises.com:7001/robotics"),
		MediaOrigin:           getEnv("MEDIA_ORIGIN", "https://lunarsenterprises.com:7001"),
		UpstreamTimeout:       getDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		SessionSecret:         getEnv("SESSION_SECRET", ""),
		SessionMaxAge:         getInt("SESSION_MAX_AGE", 7*24*60*60),
		CookieSecure:          getBool("COOKIE_SECURE", false),
		MediaBackend:          getEnv("MEDIA_BACKEND", "none"),
		MediaLocalPath:        getEnv("MEDIA_LOCAL_PATH", "/data/media"),
		CloudinaryURL:         getEnv("CLOUDINARY_URL", ""),
		ActivityRetentionDays: getInt("ACTIVITY_RETENTION_DAYS", 90),
		PageSize:              getInt("PAGE_SIZE", 20),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFile:               getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

// getInt returns defaultVal when the variable is unset, malformed or not positive.
func getInt(key string, defaultVal int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func getBool(key string, defaultVal bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultVal
	}
	return b
}
