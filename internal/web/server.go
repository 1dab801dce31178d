package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/vbonduro/roboadmin/internal/media"
	"github.com/vbonduro/roboadmin/internal/service"
	"github.com/vbonduro/roboadmin/internal/session"
)

// Services are the domain services the handlers call.
type Services struct {
	Auth         *service.AuthService
	Dashboard    *service.DashboardService
	Robots       *service.RobotService
	Posts        *service.PostService
	Banners      *service.BannerService
	Testimonials *service.TestimonialService
	Leads        *service.LeadService
	Orders       *service.OrderService
	Projects     *service.ProjectService
}

type Options struct {
	// CSRFKey enables CSRF protection on every unsafe request. Nil disables it.
	CSRFKey      []byte
	SecureCookie bool
	// MediaOrigin is where upstream media lives; it is allowed by the CSP
	// and rewritten to /media/ when the cache is enabled.
	MediaOrigin string
}

type Server struct {
	svc       Services
	sessions  *session.Manager
	media     *media.Cache
	templates embed.FS
	opts      Options
	router    chi.Router
	handler   http.Handler
	markdown  goldmark.Markdown
	tmplFuncs template.FuncMap
	logger    *slog.Logger
	http      *http.Server
}

func NewServer(svc Services, sessions *session.Manager, cache *media.Cache, tmpl embed.FS, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		svc:       svc,
		sessions:  sessions,
		media:     cache,
		templates: tmpl,
		opts:      opts,
		router:    chi.NewRouter(),
		// Without html.WithUnsafe goldmark omits raw HTML from post bodies.
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger:   logger,
	}
	s.tmplFuncs = template.FuncMap{
		"inc":        func(i int) int { return i + 1 },
		"sub":        func(a, b int) int { return a - b },
		"markdown":   s.renderMarkdown,
		"mediaSrc":   s.mediaSrc,
		"money":      formatMoney,
		"rating":     formatRating,
		"datetime":   formatTime,
		"statusTone": statusTone,
		"fieldError": fieldError,
		"join":       strings.Join,
		"pageURL":    pageURL,
		"queryURL":   queryURL,
	}
	s.registerRoutes()

	var h http.Handler = s.router
	if opts.CSRFKey != nil {
		h = s.csrfProtect(h)
	}
	s.handler = middleware.RequestID(requestLogger(s.logger, middleware.Recoverer(securityHeaders(opts.MediaOrigin, h))))
	s.http = &http.Server{
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	r := s.router

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/media/*", s.handleMedia)

	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Get("/forgot-password", s.handleForgotPage)
	r.Post("/forgot-password", s.handleForgot)

	r.Group(func(r chi.Router) {
		r.Use(s.sessions.RequireUser, withActor)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		})
		r.Post("/logout", s.handleLogout)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/account/password", s.handlePasswordPage)
		r.Post("/account/password", s.handleChangePassword)

		r.Route("/robots", func(r chi.Router) {
			r.Get("/", s.handleListRobots)
			r.Post("/", s.handleCreateRobot)
			r.Get("/new", s.handleNewRobot)
			r.Get("/{id}/edit", s.handleEditRobot)
			r.Post("/{id}", s.handleUpdateRobot)
			r.Post("/{id}/delete", s.handleDeleteRobot)
		})

		for _, kind := range postKinds {
			r.Route(postBase(kind), func(r chi.Router) {
				h := postHandlers{s: s, kind: kind}
				r.Get("/", h.list)
				r.Post("/", h.create)
				r.Get("/new", h.new)
				r.Get("/{id}", h.detail)
				r.Get("/{id}/edit", h.edit)
				r.Post("/{id}", h.update)
				r.Post("/{id}/delete", h.delete)
			})
		}

		r.Route("/banners", func(r chi.Router) {
			r.Get("/", s.handleListBanners)
			r.Post("/", s.handleCreateBanner)
			r.Get("/new", s.handleNewBanner)
			r.Post("/{id}/delete", s.handleDeleteBanner)
		})

		r.Route("/testimonials", func(r chi.Router) {
			r.Get("/", s.handleListTestimonials)
			r.Post("/", s.handleCreateTestimonial)
			r.Get("/new", s.handleNewTestimonial)
			r.Get("/{id}/edit", s.handleEditTestimonial)
			r.Post("/{id}", s.handleUpdateTestimonial)
			r.Post("/{id}/delete", s.handleDeleteTestimonial)
		})

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", s.handleListLeads)
			r.Get("/{id}", s.handleGetLead)
			r.Post("/{id}/delete", s.handleDeleteLead)
		})

		r.Route("/rent-quotes", func(r chi.Router) {
			r.Get("/", s.handleListRentQuotes)
			r.Get("/{id}", s.handleGetRentQuote)
			r.Post("/{id}/delete", s.handleDeleteRentQuote)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", s.handleListOrders)
			r.Get("/export.csv", s.handleExportOrders)
			r.Get("/{id}", s.handleGetOrder)
			r.Post("/{id}/status", s.handleUpdateOrderStatus)
			r.Post("/{id}/delete", s.handleDeleteOrder)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.handleListProjects)
			r.Post("/", s.handleCreateProject)
			r.Get("/new", s.handleNewProject)
			r.Get("/{id}/edit", s.handleEditProject)
			r.Post("/{id}", s.handleUpdateProject)
			r.Post("/{id}/delete", s.handleDeleteProject)
		})
	})
}

// csrfProtect rejects unsafe requests without a valid token. Over plain HTTP
// the origin check is skipped so cookies without Secure still work.
func (s *Server) csrfProtect(next http.Handler) http.Handler {
	protect := csrf.Protect(s.opts.CSRFKey,
		csrf.Secure(s.opts.SecureCookie),
		csrf.Path("/"),
		csrf.FieldName("csrf_token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Warn("csrf check failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
			http.Error(w, "invalid or missing CSRF token", http.StatusForbidden)
		})),
	)(next)
	if s.opts.SecureCookie {
		return protect
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protect.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

// withActor tags the context with the signed-in admin so mutations are
// attributed in the activity log.
func withActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := session.UserFromContext(r.Context()); user != nil {
			r = r.WithContext(service.WithActor(r.Context(), user.Email))
		}
		next.ServeHTTP(w, r)
	})
}

// securityHeaders sets CSP and hardening headers on every response.
func securityHeaders(mediaOrigin string, next http.Handler) http.Handler {
	csp := cspFor(mediaOrigin)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", csp)
		next.ServeHTTP(w, r)
	})
}

// cspFor builds the content security policy; upstream media may be embedded
// directly when it is not proxied.
func cspFor(mediaOrigin string) string {
	mediaSrc := "'self' data:"
	if mediaOrigin != "" {
		mediaSrc += " " + mediaOrigin
	}
	return "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline' https://unpkg.com; " +
		"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; " +
		"font-src https://fonts.gstatic.com; " +
		"img-src " + mediaSrc + "; " +
		"media-src " + mediaSrc + "; " +
		"connect-src 'self'"
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	s.http.Addr = addr
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// page builds template data with the fields base.html expects.
func (s *Server) page(w http.ResponseWriter, r *http.Request, nav string, data map[string]any) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	data["ActiveNav"] = nav
	data["User"] = session.UserFromContext(r.Context())
	data["Flashes"] = s.sessions.Flashes(w, r)
	data["CSRFField"] = csrf.TemplateField(r)
	data["CSRFToken"] = csrf.Token(r)
	return data
}

// renderPage parses and executes a full-page template set.
func (s *Server) renderPage(w http.ResponseWriter, data any, files ...string) error {
	return s.renderPageStatus(w, http.StatusOK, data, files...)
}

// renderPageStatus is renderPage with an explicit status, used to redisplay
// rejected forms.
func (s *Server) renderPageStatus(w http.ResponseWriter, status int, data any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// renderPartial parses and executes a single named partial template.
// The file must contain exactly one {{define "name"}}...{{end}} block.
func (s *Server) renderPartial(w http.ResponseWriter, file string, data any) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, file)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	basename := file
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		basename = file[idx+1:]
	}
	for _, t := range tmpl.Templates() {
		if n := t.Name(); n != "" && n != basename {
			return t.Execute(w, data)
		}
	}
	return tmpl.ExecuteTemplate(w, basename, data)
}

// list renders a list page, or only its rows for HTMX search requests.
func (s *Server) list(w http.ResponseWriter, r *http.Request, nav string, data map[string]any, pageFile, rowsFile string) {
	params := r.URL.Query()
	params.Del("page")
	data["Params"] = params.Encode()

	var err error
	if isHTMX(r) {
		data["CSRFField"] = csrf.TemplateField(r)
		err = s.renderPartial(w, rowsFile, data)
	} else {
		err = s.renderPage(w, s.page(w, r, nav, data), "base.html", pageFile, rowsFile, "partials/pagination.html")
	}
	if err != nil {
		s.logger.Error("render list failed", "path", r.URL.Path, "error", err)
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// redirect sends the browser to target, using HX-Redirect for HTMX requests.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// fail logs err and answers with a status derived from it.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, service.ErrNotFound) {
		status = http.StatusNotFound
	}
	s.logger.Error(msg, "path", r.URL.Path, "error", err, "request_id", middleware.GetReqID(r.Context()))
	http.Error(w, msg, status)
}

// afterDelete flashes the outcome of a delete and returns to the list.
func (s *Server) afterDelete(w http.ResponseWriter, r *http.Request, what, target string, err error) {
	if err != nil {
		s.logger.Error("delete failed", "entity", what, "path", r.URL.Path, "error", err)
		s.sessions.AddFlash(w, r, session.FlashError, fmt.Sprintf("Failed to delete the %s.", what))
	} else {
		s.sessions.AddFlash(w, r, session.FlashSuccess, fmt.Sprintf("The %s was deleted.", what))
	}
	redirect(w, r, target)
}

// evict drops cached copies of the media URLs a delete form carried.
func (s *Server) evict(r *http.Request) {
	if s.media == nil {
		return
	}
	for _, ref := range r.PostForm["media"] {
		s.media.Evict(r.Context(), ref)
	}
}

func (s *Server) renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(src), &buf); err != nil {
		s.logger.Warn("markdown render failed", "error", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// mediaSrc routes upstream media through the local proxy when the cache is on.
func (s *Server) mediaSrc(ref string) string {
	if ref == "" || s.media == nil || !s.media.Enabled() {
		return ref
	}
	if strings.Contains(ref, "://") {
		if s.opts.MediaOrigin == "" || !strings.HasPrefix(ref, s.opts.MediaOrigin) {
			return ref
		}
	}
	key, err := media.Key(ref)
	if err != nil {
		return ref
	}
	return "/media/" + (&url.URL{Path: key}).EscapedPath()
}
