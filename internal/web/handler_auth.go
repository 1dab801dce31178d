package web

import (
	"errors"
	"net/http"

	"github.com/vbonduro/roboadmin/internal/domain"
	"github.com/vbonduro/roboadmin/internal/service"
	"github.com/vbonduro/roboadmin/internal/session"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.CurrentUser(r); err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.renderLogin(w, r, http.StatusOK, "", nil)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")

	user, err := s.svc.Auth.Login(r.Context(), email, r.PostFormValue("password"))
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		s.renderLogin(w, r, http.StatusUnauthorized, email,
			service.ValidationErrors{service.FormField: "Invalid email or password."})
		return
	case service.AsValidation(err) != nil:
		s.renderLogin(w, r, http.StatusUnprocessableEntity, email, service.AsValidation(err))
		return
	case err != nil:
		s.logger.Error("login failed", "error", err)
		s.renderLogin(w, r, http.StatusBadGateway, email,
			service.ValidationErrors{service.FormField: "An error occurred. Please try again."})
		return
	}

	if err := s.sessions.SignIn(w, r, user); err != nil {
		s.fail(w, r, "failed to start session", err)
		return
	}
	s.sessions.AddFlash(w, r, session.FlashSuccess, "Welcome back, "+user.Name+".")
	redirect(w, r, "/dashboard")
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, email string, errs service.ValidationErrors) {
	data := s.page(w, r, "", map[string]any{"Email": email, "Errors": errs})
	if err := s.renderPageStatus(w, status, data, "base.html", "pages/login.html"); err != nil {
		s.logger.Error("render page error", "error", err)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.SignOut(w, r); err != nil {
		s.logger.Error("failed to end session", "error", err)
	}
	redirect(w, r, "/login")
}

// stepDone is shown once after a successful reset; it is not stored.
const stepDone domain.ResetStep = "done"

func (s *Server) handleForgotPage(w http.ResponseWriter, r *http.Request) {
	state := s.sessions.ResetState(r)
	s.renderForgot(w, r, http.StatusOK, state, state.Step(), nil)
}

func (s *Server) handleForgot(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if r.PostFormValue("action") == "restart" {
		if err := s.sessions.ClearResetState(w, r); err != nil {
			s.logger.Error("failed to clear reset state", "error", err)
		}
		redirect(w, r, "/forgot-password")
		return
	}

	ctx := r.Context()
	state := s.sessions.ResetState(r)
	step := state.Step()

	var err error
	switch step {
	case domain.ResetStepEmail:
		state, err = s.svc.Auth.RequestReset(ctx, r.PostFormValue("email"))
	case domain.ResetStepOTP:
		state, err = s.svc.Auth.VerifyOTP(ctx, state, r.PostFormValue("otp"))
	case domain.ResetStepReset:
		err = s.svc.Auth.ResetPassword(ctx, state, r.PostFormValue("password"), r.PostFormValue("confirm_password"))
		if err == nil {
			if clearErr := s.sessions.ClearResetState(w, r); clearErr != nil {
				s.logger.Error("failed to clear reset state", "error", clearErr)
			}
			s.renderForgot(w, r, http.StatusOK, domain.PasswordReset{}, stepDone, nil)
			return
		}
	}

	if errors.Is(err, service.ErrResetOutOfOrder) {
		if clearErr := s.sessions.ClearResetState(w, r); clearErr != nil {
			s.logger.Error("failed to clear reset state", "error", clearErr)
		}
		redirect(w, r, "/forgot-password")
		return
	}
	if err != nil {
		errs := service.AsValidation(err)
		if errs == nil {
			s.logger.Error("password reset step failed", "step", step, "error", err)
			errs = service.ValidationErrors{service.FormField: "An error occurred. Please try again."}
		}
		if step == domain.ResetStepEmail {
			state.Email = r.PostFormValue("email")
		}
		s.renderForgot(w, r, http.StatusUnprocessableEntity, state, step, errs)
		return
	}

	if err := s.sessions.SetResetState(w, r, state); err != nil {
		s.fail(w, r, "failed to save reset progress", err)
		return
	}
	redirect(w, r, "/forgot-password")
}

func (s *Server) renderForgot(w http.ResponseWriter, r *http.Request, status int, state domain.PasswordReset, step domain.ResetStep, errs service.ValidationErrors) {
	data := s.page(w, r, "", map[string]any{
		"Email":  state.Email,
		"Step":   string(step),
		"Errors": errs,
	})
	if err := s.renderPageStatus(w, status, data, "base.html", "pages/forgot_password.html"); err != nil {
		s.logger.Error("render page error", "error", err)
	}
}

func (s *Server) handlePasswordPage(w http.ResponseWriter, r *http.Request) {
	s.renderPassword(w, r, http.StatusOK, nil)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	user := session.UserFromContext(r.Context())

	err := s.svc.Auth.ChangePassword(r.Context(), user,
		r.PostFormValue("old_password"), r.PostFormValue("password"), r.PostFormValue("confirm_password"))
	if err != nil {
		errs := service.AsValidation(err)
		if errs == nil {
			s.logger.Error("change password failed", "error", err)
			errs = service.ValidationErrors{service.FormField: "An error occurred. Please try again."}
		}
		s.renderPassword(w, r, http.StatusUnprocessableEntity, errs)
		return
	}

	s.sessions.AddFlash(w, r, session.FlashSuccess, "Password changed.")
	redirect(w, r, "/dashboard")
}

func (s *Server) renderPassword(w http.ResponseWriter, r *http.Request, status int, errs service.ValidationErrors) {
	data := s.page(w, r, "account", map[string]any{"Errors": errs})
	if err := s.renderPageStatus(w, status, data, "base.html", "pages/password.html"); err != nil {
		s.logger.Error("render page error", "error", err)
	}
}
