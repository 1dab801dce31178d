package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/roboadmin/internal/domain"
	"github.com/vbonduro/roboadmin/internal/media"
	"github.com/vbonduro/roboadmin/internal/service"
	"github.com/vbonduro/roboadmin/internal/session"
)

func (s *Server) handleListRobots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	if category == "" {
		category = service.CategoryAll
	}

	robots, err := s.svc.Robots.List(r.Context(), q, category)
	if err != nil {
		s.fail(w, r, "failed to list robots", err)
		return
	}

	s.list(w, r, "robots", map[string]any{
		"Robots":     robots,
		"Query":      q,
		"Category":   category,
		"Categories": []string{service.CategoryAll, service.CategoryBuy, service.CategoryRent},
	}, "pages/robots.html", "partials/robot_rows.html")
}

func (s *Server) handleNewRobot(w http.ResponseWriter, r *http.Request) {
	s.renderRobotForm(w, r, http.StatusOK, nil, service.RobotInput{Category: service.CategoryBuy}, nil)
}

func (s *Server) handleEditRobot(w http.ResponseWriter, r *http.Request) {
	robot, err := s.svc.Robots.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "failed to load robot", err)
		return
	}
	s.renderRobotForm(w, r, http.StatusOK, robot, service.RobotInputFrom(robot), nil)
}

func (s *Server) handleCreateRobot(w http.ResponseWriter, r *http.Request) {
	in, ok := s.robotInput(w, r, nil)
	if !ok {
		return
	}
	if err := s.svc.Robots.Create(r.Context(), in); err != nil {
		s.robotFailed(w, r, nil, in, err, "images")
		return
	}
	s.sessions.AddFlash(w, r, session.FlashSuccess, "Robot added.")
	redirect(w, r, "/robots")
}

func (s *Server) handleUpdateRobot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	robot, err := s.svc.Robots.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, "failed to load robot", err)
		return
	}

	in, ok := s.robotInput(w, r, robot)
	if !ok {
		return
	}
	if err := s.svc.Robots.Update(r.Context(), id, in); err != nil {
		s.robotFailed(w, r, robot, in, err, "images")
		return
	}
	s.sessions.AddFlash(w, r, session.FlashSuccess, "Robot updated.")
	redirect(w, r, "/robots")
}

func (s *Server) handleDeleteRobot(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	err := s.svc.Robots.Delete(r.Context(), chi.URLParam(r, "id"))
	if err == nil {
		s.evict(r)
	}
	s.afterDelete(w, r, "robot", "/robots", err)
}

// robotInput decodes the robot form and its uploads. On failure the response
// has been written and ok is false.
func (s *Server) robotInput(w http.ResponseWriter, r *http.Request, robot *domain.Robot) (service.RobotInput, bool) {
	var in service.RobotInput
	if err := decodeForm(r, &in); err != nil {
		s.logger.Warn("bad robot form", "error", err)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return in, false
	}

	images, err := s.formFiles(r, "image", media.KindImage)
	if err != nil {
		s.robotFailed(w, r, robot, in, err, "images")
		return in, false
	}
	in.Images = images

	brochure, err := s.formFile(r, "brochure", media.KindDocument)
	if err != nil {
		s.robotFailed(w, r, robot, in, err, "brochure")
		return in, false
	}
	in.Brochure = brochure
	return in, true
}

func (s *Server) robotFailed(w http.ResponseWriter, r *http.Request, robot *domain.Robot, in service.RobotInput, err error, uploadField string) {
	errs, ok := formErrors(err, uploadField)
	status := http.StatusUnprocessableEntity
	if !ok {
		s.logger.Error("save robot failed", "error", err)
		errs = service.ValidationErrors{service.FormField: "Failed to save the robot. Please try again."}
		status = http.StatusBadGateway
	}
	s.renderRobotForm(w, r, status, robot, in, errs)
}

func (s *Server) renderRobotForm(w http.ResponseWriter, r *http.Request, status int, robot *domain.Robot, in service.RobotInput, errs service.ValidationErrors) {
	data := s.page(w, r, "robots", map[string]any{
		"Robot":  robot,
		"Input":  in,
		"Errors": errs,
	})
	if err := s.renderPageStatus(w, status, data, "base.html", "pages/robot_form.html"); err != nil {
		s.logger.Error("render page error", "error", err)
	}
}
