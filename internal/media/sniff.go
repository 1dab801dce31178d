package media

import (
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// MaxUploadBytes caps uploads and cached assets.
const MaxUploadBytes = 50 * 1024 * 1024

// Kind is the class of file a form field accepts.
type Kind int

const (
	KindImage Kind = iota
	KindVideo
	KindDocument
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindDocument:
		return "document"
	default:
		return "image"
	}
}

// allowed is keyed by the sniffed MIME type. http.DetectContentType covers
// every entry except WebP, which is checked separately.
var allowed = map[Kind]map[string]bool{
	KindImage: {
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	},
	KindVideo: {
		"video/mp4":  true,
		"video/webm": true,
	},
	KindDocument: {
		"application/pdf": true,
	},
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// Detect sniffs data and returns its MIME type if it is acceptable for kind.
func Detect(kind Kind, data []byte) (string, error) {
	mimeType := http.DetectContentType(data)
	if isWebP(data) {
		mimeType = "image/webp"
	}
	if !allowed[kind][mimeType] {
		return "", fmt.Errorf("unsupported %s format %q", kind, mimeType)
	}
	return mimeType, nil
}

// ServableType returns mimeType stripped of parameters when it is one of the
// accepted upload types, and application/octet-stream otherwise.
func ServableType(mimeType string) string {
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return "application/octet-stream"
	}
	mt = strings.ToLower(mt)
	for _, types := range allowed {
		if types[mt] {
			return mt
		}
	}
	return "application/octet-stream"
}

// ExtFor returns the file extension conventionally used for mimeType.
func ExtFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "application/pdf":
		return ".pdf"
	default:
		return ".jpg"
	}
}
