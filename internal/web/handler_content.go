package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/roboadmin/internal/domain"
	"github.com/vbonduro/roboadmin/internal/media"
	"github.com/vbonduro/roboadmin/internal/service"
	"github.com/vbonduro/roboadmin/internal/session"
)

var bannerPages = []string{service.BannerPageHome, service.BannerPageProductsService}

func (s *Server) handleListBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := s.svc.Banners.List(r.Context())
	if err != nil {
		s.fail(w, r, "failed to list banners", err)
		return
	}
	s.list(w, r, "banners", map[string]any{"Banners": banners},
		"pages/banners.html", "partials/banner_rows.html")
}

func (s *Server) handleNewBanner(w http.ResponseWriter, r *http.Request) {
	s.renderBannerForm(w, r, http.StatusOK, service.BannerInput{Page: service.BannerPageHome}, nil)
}

func (s *Server) handleCreateBanner(w http.ResponseWriter, r *http.Request) {
	var in service.BannerInput
	if err := decodeForm(r, &in); err != nil {
		s.logger.Warn("bad banner form", "error", err)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	image, err := s.formFile(r, "image", media.KindImage)
	if err == nil {
		in.Image = image
		in.Video, err = s.formFile(r, "video", media.KindVideo)
	}
	if err == nil {
		err = s.svc.Banners.Create(r.Context(), in)
	}
	if err != nil {
		errs, ok := formErrors(err, "media")
		status := http.StatusUnprocessableEntity
		if !ok {
			s.logger.Error("save banner failed", "error", err)
			errs = service.ValidationErrors{service.FormField: "Failed to add the banner. Please try again."}
			status = http.StatusBadGateway
		}
		s.renderBannerForm(w, r, status, in, errs)
		return
	}

	s.sessions.AddFlash(w, r, session.FlashSuccess, "Banner added.")
	redirect(w, r, "/banners")
}

func (s *Server) handleDeleteBanner(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	err := s.svc.Banners.Delete(r.Context(), chi.URLParam(r, "id"))
	if err == nil {
		s.evict(r)
	}
	s.afterDelete(w, r, "banner", "/banners", err)
}

func (s *Server) renderBannerForm(w http.ResponseWriter, r *http.Request, status int, in service.BannerInput, errs service.ValidationErrors) {
	data := s.page(w, r, "banners", map[string]any{
		"Input":  in,
		"Pages":  bannerPages,
		"Errors": errs,
	})
	if err := s.renderPageStatus(w, status, data, "base.html", "pages/banner_form.html"); err != nil {
		s.logger.Error("render page error", "error", err)
	}
}

func (s *Server) handleListTestimonials(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	items, err := s.svc.Testimonials.List(r.Context(), q)
	if err != nil {
		s.fail(w, r, "failed to list testimonials", err)
		return
	}
	s.list(w, r, "testimonials", map[string]any{"Testimonials": items, "Query": q},
		"pages/testimonials.html", "partials/testimonial_rows.html")
}

func (s *Server) handleNewTestimonial(w http.ResponseWriter, r *http.Request) {
	s.renderTestimonialForm(w, r, http.StatusOK, nil, service.TestimonialInput{}, nil)
}

func (s *Server) handleEditTestimonial(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Testimonials.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "failed to load testimonial", err)
		return
	}
	s.renderTestimonialForm(w, r, http.StatusOK, t, service.TestimonialInputFrom(t), nil)
}

func (s *Server) handleCreateTestimonial(w http.ResponseWriter, r *http.Request) {
	s.saveTestimonial(w, r, nil)
}

func (s *Server) handleUpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Testimonials.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "failed to load testimonial", err)
		return
	}
	s.saveTestimonial(w, r, t)
}

// saveTestimonial creates a testimonial, or updates current when it is set.
func (s *Server) saveTestimonial(w http.ResponseWriter, r *http.Request, current *domain.Testimonial) {
	var in service.TestimonialInput
	if err := decodeForm(r, &in); err != nil {
		s.logger.Warn("bad testimonial form", "error", err)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	image, err := s.formFile(r, "image", media.KindImage)
	if err == nil {
		in.Image = image
		if current == nil {
			err = s.svc.Testimonials.Create(r.Context(), in)
		} else {
			err = s.svc.Testimonials.Update(r.Context(), current.ID, in)
		}
	}
	if err != nil {
		errs, ok := formErrors(err, "image")
		status := http.StatusUnprocessableEntity
		if !ok {
			s.logger.Error("save testimonial failed", "error", err)
			errs = service.ValidationErrors{service.FormField: "Failed to save the testimonial. Please try again."}
			status = http.StatusBadGateway
		}
		s.renderTestimonialForm(w, r, status, current, in, errs)
		return
	}

	s.sessions.AddFlash(w, r, session.FlashSuccess, "Testimonial saved.")
	redirect(w, r, "/testimonials")
}

func (s *Server) handleDeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	err := s.svc.Testimonials.Delete(r.Context(), chi.URLParam(r, "id"))
	if err == nil {
		s.evict(r)
	}
	s.afterDelete(w, r, "testimonial", "/testimonials", err)
}

func (s *Server) renderTestimonialForm(w http.ResponseWriter, r *http.Request, status int, t *domain.Testimonial, in service.TestimonialInput, errs service.ValidationErrors) {
	data := s.page(w, r, "testimonials", map[string]any{
		"Testimonial": t,
		"Input":       in,
		"Errors":      errs,
	})
	if err := s.renderPageStatus(w, status, data, "base.html", "pages/testimonial_form.html"); err != nil {
		s.logger.Error("render page error", "error", err)
	}
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	projects, err := s.svc.Projects.List(r.Context(), q)
	if err != nil {
		s.fail(w, r, "failed to list projects", err)
		return
	}
	s.list(w, r, "projects", map[string]any{"Projects": projects, "Query": q},
		"pages/projects.html", "partials/project_rows.html")
}

func (s *Server) handleNewProject(w http.ResponseWriter, r *http.Request) {
	s.renderProjectForm(w, r, http.StatusOK, nil, service.ProjectInput{}, nil)
}

func (s *Server) handleEditProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "failed to load project", err)
		return
	}
	s.renderProjectForm(w, r, http.StatusOK, p, service.ProjectInputFrom(p), nil)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	s.saveProject(w, r, nil)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "failed to load project", err)
		return
	}
	s.saveProject(w, r, p)
}

func (s *Server) saveProject(w http.ResponseWriter, r *http.Request, current *domain.Project) {
	var in service.ProjectInput
	if err := decodeForm(r, &in); err != nil {
		s.logger.Warn("bad project form", "error", err)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	image, err := s.formFile(r, "image", media.KindImage)
	if err == nil {
		in.Image = image
		if current == nil {
			err = s.svc.Projects.Create(r.Context(), in)
		} else {
			err = s.svc.Projects.Update(r.Context(), current.ID, in)
		}
	}
	if err != nil {
		errs, ok := formErrors(err, "image")
		status := http.StatusUnprocessableEntity
		if !ok {
			s.logger.Error("save project failed", "error", err)
			errs = service.ValidationErrors{service.FormField: "Failed to save the project. Please try again."}
			status = http.StatusBadGateway
		}
		s.renderProjectForm(w, r, status, current, in, errs)
		return
	}

	s.sessions.AddFlash(w, r, session.FlashSuccess, "Project saved.")
	redirect(w, r, "/projects")
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	err := s.svc.Projects.Delete(r.Context(), chi.URLParam(r, "id"))
	if err == nil {
		s.evict(r)
	}
	s.afterDelete(w, r, "project", "/projects", err)
}

func (s *Server) renderProjectForm(w http.ResponseWriter, r *http.Request, status int, p *domain.Project, in service.ProjectInput, errs service.ValidationErrors) {
	data := s.page(w, r, "projects", map[string]any{
		"Project": p,
		"Input":   in,
		"Errors":  errs,
	})
	if err := s.renderPageStatus(w, status, data, "base.html", "pages/project_form.html"); err != nil {
		s.logger.Error("render page error", "error", err)
	}
}
