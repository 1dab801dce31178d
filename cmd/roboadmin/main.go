package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/vbonduro/roboadmin/internal/config"
	"github.com/vbonduro/roboadmin/internal/db"
	"github.com/vbonduro/roboadmin/internal/jobs"
	"github.com/vbonduro/roboadmin/internal/logging"
	"github.com/vbonduro/roboadmin/internal/media"
	"github.com/vbonduro/roboadmin/internal/media/cloudinary"
	"github.com/vbonduro/roboadmin/internal/media/local"
	"github.com/vbonduro/roboadmin/internal/robotics"
	"github.com/vbonduro/roboadmin/internal/service"
	"github.com/vbonduro/roboadmin/internal/session"
	"github.com/vbonduro/roboadmin/internal/store"
	"github.com/vbonduro/roboadmin/internal/web"
	"github.com/vbonduro/roboadmin/internal/web/templates"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	activityStore := store.NewActivityStore(database)
	recorder := service.NewRecorder(activityStore, logger)

	api := robotics.NewClient(cfg.UpstreamBaseURL, cfg.MediaOrigin, cfg.UpstreamTimeout, logger)

	if cfg.SessionSecret == "" {
		logger.Warn("SESSION_SECRET is not set; sessions will not survive a restart")
	}
	keys, err := session.DeriveKeys(cfg.SessionSecret)
	if err != nil {
		logger.Error("failed to derive session keys", "error", err)
		return
	}
	sessions := session.NewManager(keys, cfg.SessionMaxAge, cfg.CookieSecure, logger)

	mediaStore, err := newMediaStore(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize media store", "error", err)
		return
	}
	cache := media.NewCache(mediaStore, api, logger)

	svc := web.Services{
		Auth:         service.NewAuthService(api, logger),
		Dashboard:    service.NewDashboardService(api, recorder, cfg.PageSize, logger),
		Robots:       service.NewRobotService(api, recorder, logger),
		Posts:        service.NewPostService(api, recorder, logger),
		Banners:      service.NewBannerService(api, recorder, logger),
		Testimonials: service.NewTestimonialService(api, recorder, logger),
		Leads:        service.NewLeadService(api, recorder, cfg.PageSize, logger),
		Orders:       service.NewOrderService(api, recorder, cfg.PageSize, logger),
		Projects:     service.NewProjectService(api, recorder, logger),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := jobs.NewScheduler(logger)
	retention := time.Duration(cfg.ActivityRetentionDays) * 24 * time.Hour
	if err := scheduler.PruneActivity(ctx, activityStore, retention); err != nil {
		logger.Error("failed to schedule activity pruning", "error", err)
		return
	}
	scheduler.Start()

	server := web.NewServer(svc, sessions, cache, templates.FS, web.Options{
		CSRFKey:      keys.CSRF,
		SecureCookie: cfg.CookieSecure,
		MediaOrigin:  cfg.MediaOrigin,
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe(cfg.ListenAddr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	scheduler.Stop(shutdownCtx)
}

// newMediaStore returns nil when caching is disabled; uploads and media then
// go straight to the upstream.
func newMediaStore(cfg *config.Config, logger *slog.Logger) (media.Store, error) {
	switch cfg.MediaBackend {
	case "local":
		logger.Info("using local media cache", "path", cfg.MediaLocalPath)
		return local.NewStore(cfg.MediaLocalPath)
	case "cloudinary":
		logger.Info("using Cloudinary media cache")
		return cloudinary.New(cfg.CloudinaryURL, "roboadmin")
	default:
		logger.Info("media cache disabled")
		return nil, nil
	}
}
