package web

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/roboadmin/internal/media"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.svc.Dashboard.Load(r.Context())
	if err != nil {
		s.fail(w, r, "failed to load dashboard", err)
		return
	}

	if err := s.renderPage(w,
		s.page(w, r, "dashboard", map[string]any{"Dashboard": dash, "Orders": dash.RecentOrders}),
		"base.html", "pages/dashboard.html", "partials/order_rows.html",
	); err != nil {
		s.logger.Error("render page error", "error", err)
	}
}

// handleMedia proxies an upstream media path, through the cache when one is
// configured.
func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	p := strings.TrimSpace(chi.URLParam(r, "*"))
	if p == "" || s.media == nil {
		http.NotFound(w, r)
		return
	}

	body, mimeType, err := s.media.Open(r.Context(), p)
	if err != nil {
		s.logger.Warn("media unavailable", "path", p, "error", err)
		http.NotFound(w, r)
		return
	}
	defer closeWithLog(body, "media body", s.logger)

	w.Header().Set("Content-Type", media.ServableType(mimeType))
	w.Header().Set("Cache-Control", "private, max-age=86400")
	if _, err := io.Copy(w, body); err != nil {
		s.logger.Error("write media failed", "path", p, "error", err)
	}
}
