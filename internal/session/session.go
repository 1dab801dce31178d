// Package session keeps the signed-in admin, the password-reset wizard state and
// flash messages in a signed, encrypted cookie.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/hkdf"

	"github.com/vbonduro/roboadmin/internal/domain"
)

const cookieName = "roboadmin"

const (
	keyUserID        = "user_id"
	keyUserEmail     = "user_email"
	keyUserName      = "user_name"
	keyResetEmail    = "reset_email"
	keyResetOTPSent  = "reset_otp_sent"
	keyResetVerified = "reset_otp_verified"
)

var (
	// ErrNotSignedIn is returned when the request carries no admin session.
	ErrNotSignedIn = errors.New("not signed in")
)

// Keys holds the secrets derived from the root session secret.
type Keys struct {
	Hash  []byte
	Block []byte
	CSRF  []byte
}

// DeriveKeys expands secret into independent cookie and CSRF keys. An empty
// secret yields random keys, so sessions do not survive a restart.
func DeriveKeys(secret string) (Keys, error) {
	root := []byte(secret)
	if len(root) == 0 {
		root = make([]byte, 32)
		if _, err := rand.Read(root); err != nil {
			return Keys{}, fmt.Errorf("failed to generate session secret: %w", err)
		}
	}

	derive := func(info string, size int) ([]byte, error) {
		key := make([]byte, size)
		if _, err := io.ReadFull(hkdf.New(sha256.New, root, nil, []byte(info)), key); err != nil {
			return nil, fmt.Errorf("failed to derive %s key: %w", info, err)
		}
		return key, nil
	}

	var keys Keys
	var err error
	if keys.Hash, err = derive("roboadmin session hash", 64); err != nil {
		return Keys{}, err
	}
	if keys.Block, err = derive("roboadmin session block", 32); err != nil {
		return Keys{}, err
	}
	if keys.CSRF, err = derive("roboadmin csrf", 32); err != nil {
		return Keys{}, err
	}
	return keys, nil
}

type Manager struct {
	store  *sessions.CookieStore
	logger *slog.Logger
}

func NewManager(keys Keys, maxAge int, secure bool, logger *slog.Logger) *Manager {
	store := sessions.NewCookieStore(keys.Hash, keys.Block)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(maxAge)

	return &Manager{store: store, logger: logger}
}

// get returns the session, starting a fresh one when the cookie cannot be
// decoded (expired, tampered with or signed with an older secret).
func (m *Manager) get(r *http.Request) *sessions.Session {
	s, err := m.store.Get(r, cookieName)
	if err != nil {
		m.logger.Debug("discarding unreadable session", "error", err)
	}
	return s
}

func (m *Manager) save(w http.ResponseWriter, r *http.Request, s *sessions.Session) error {
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (m *Manager) CurrentUser(r *http.Request) (*domain.User, error) {
	s := m.get(r)
	id, _ := s.Values[keyUserID].(string)
	if id == "" {
		return nil, ErrNotSignedIn
	}
	email, _ := s.Values[keyUserEmail].(string)
	name, _ := s.Values[keyUserName].(string)
	return &domain.User{ID: id, Email: email, Name: name}, nil
}

func (m *Manager) SignIn(w http.ResponseWriter, r *http.Request, user *domain.User) error {
	s := m.get(r)
	s.Values[keyUserID] = user.ID
	s.Values[keyUserEmail] = user.Email
	s.Values[keyUserName] = user.Name
	clearReset(s)
	return m.save(w, r, s)
}

// SignOut drops the whole session, flashes included.
func (m *Manager) SignOut(w http.ResponseWriter, r *http.Request) error {
	s := m.get(r)
	for k := range s.Values {
		delete(s.Values, k)
	}
	s.Options.MaxAge = -1
	return m.save(w, r, s)
}

func (m *Manager) ResetState(r *http.Request) domain.PasswordReset {
	s := m.get(r)
	email, _ := s.Values[keyResetEmail].(string)
	sent, _ := s.Values[keyResetOTPSent].(bool)
	verified, _ := s.Values[keyResetVerified].(bool)
	return domain.PasswordReset{Email: email, OTPSent: sent, OTPVerified: verified}
}

func (m *Manager) SetResetState(w http.ResponseWriter, r *http.Request, state domain.PasswordReset) error {
	s := m.get(r)
	s.Values[keyResetEmail] = state.Email
	s.Values[keyResetOTPSent] = state.OTPSent
	s.Values[keyResetVerified] = state.OTPVerified
	return m.save(w, r, s)
}

func (m *Manager) ClearResetState(w http.ResponseWriter, r *http.Request) error {
	s := m.get(r)
	clearReset(s)
	return m.save(w, r, s)
}

func clearReset(s *sessions.Session) {
	delete(s.Values, keyResetEmail)
	delete(s.Values, keyResetOTPSent)
	delete(s.Values, keyResetVerified)
}

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

type Flash struct {
	Kind    string
	Message string
}

func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	s := m.get(r)
	s.AddFlash(message, "_flash_"+kind)
	if err := m.save(w, r, s); err != nil {
		m.logger.Error("failed to save flash", "error", err)
	}
}

// Flashes pops all pending flash messages.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	s := m.get(r)
	var out []Flash
	for _, kind := range []string{FlashSuccess, FlashError} {
		for _, v := range s.Flashes("_flash_" + kind) {
			if msg, ok := v.(string); ok {
				out = append(out, Flash{Kind: kind, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		if err := m.save(w, r, s); err != nil {
			m.logger.Error("failed to save session after reading flashes", "error", err)
		}
	}
	return out
}

type contextKey struct{}

// RequireUser redirects requests without an admin session to /login. HTMX
// requests get an HX-Redirect header instead of a 303.
func (m *Manager) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.CurrentUser(r)
		if err != nil {
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/login")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, user)))
	})
}

// UserFromContext returns the admin placed on the context by RequireUser.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(contextKey{}).(*domain.User)
	return user
}
