package service

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vbonduro/roboadmin/internal/db"
	"github.com/vbonduro/roboadmin/internal/domain"
	"github.com/vbonduro/roboadmin/internal/logging"
	"github.com/vbonduro/roboadmin/internal/robotics"
	"github.com/vbonduro/roboadmin/internal/store"
)

// stubAPI is an in-memory stand-in for robotics.Client. err, when set, is
// returned by every call.
type stubAPI struct {
	robots       []domain.Robot
	posts        map[domain.PostKind][]domain.Post
	banners      []domain.Banner
	testimonials []domain.Testimonial
	contacts     []domain.Contact
	rents        []domain.RentQuote
	quotes       []domain.Quote
	projects     []domain.Project
	media        map[string]string

	err      error
	calls    []string
	robot    *domain.Robot
	post     *domain.Post
	project  *domain.Project
	testim   *domain.Testimonial
	files    []robotics.File
	page     string
	statusTo string
}

func (s *stubAPI) record(call string) error {
	s.calls = append(s.calls, call)
	return s.err
}

func (s *stubAPI) Login(_ context.Context, email, _ string) (*domain.User, error) {
	if err := s.record("login"); err != nil {
		return nil, err
	}
	return &domain.User{ID: "1", Email: email, Name: "Admin"}, nil
}

func (s *stubAPI) ForgotPassword(context.Context, string) error { return s.record("forgot") }
func (s *stubAPI) VerifyOTP(context.Context, string, string) error {
	return s.record("verify")
}
func (s *stubAPI) ResetPassword(context.Context, string, string) error {
	return s.record("reset")
}
func (s *stubAPI) ChangePassword(context.Context, string, string, string) error {
	return s.record("change")
}

func (s *stubAPI) ListProducts(context.Context) ([]domain.Robot, error) {
	return s.robots, s.record("list products")
}

func (s *stubAPI) AddProduct(_ context.Context, r *domain.Robot, files []robotics.File) error {
	s.robot, s.files = r, files
	return s.record("add product")
}

func (s *stubAPI) EditProduct(_ context.Context, r *domain.Robot, files []robotics.File) error {
	s.robot, s.files = r, files
	return s.record("edit product")
}

func (s *stubAPI) DeleteProduct(_ context.Context, id string) error {
	return s.record("delete product " + id)
}

func (s *stubAPI) FetchMedia(_ context.Context, path string) (io.ReadCloser, string, error) {
	if err := s.record("fetch " + path); err != nil {
		return nil, "", err
	}
	return io.NopCloser(bytes.NewReader([]byte(s.media[path]))), "image/png", nil
}

func (s *stubAPI) ListPosts(_ context.Context, kind domain.PostKind) ([]domain.Post, error) {
	return s.posts[kind], s.record("list posts " + string(kind))
}

func (s *stubAPI) AddPost(_ context.Context, p *domain.Post, files []robotics.File) error {
	s.post, s.files = p, files
	return s.record("add post")
}

func (s *stubAPI) EditPost(_ context.Context, p *domain.Post, files []robotics.File) error {
	s.post, s.files = p, files
	return s.record("edit post")
}

func (s *stubAPI) DeletePost(_ context.Context, id string) error {
	return s.record("delete post " + id)
}

func (s *stubAPI) ListBanners(context.Context) ([]domain.Banner, error) {
	return s.banners, s.record("list banners")
}

func (s *stubAPI) AddBanner(_ context.Context, page string, files []robotics.File) error {
	s.page, s.files = page, files
	return s.record("add banner")
}

func (s *stubAPI) DeleteBanner(_ context.Context, id string) error {
	return s.record("delete banner " + id)
}

func (s *stubAPI) ListTestimonials(context.Context) ([]domain.Testimonial, error) {
	return s.testimonials, s.record("list testimonials")
}

func (s *stubAPI) AddTestimonial(_ context.Context, t *domain.Testimonial, files []robotics.File) error {
	s.testim, s.files = t, files
	return s.record("add testimonial")
}

func (s *stubAPI) EditTestimonial(_ context.Context, t *domain.Testimonial, files []robotics.File) error {
	s.testim, s.files = t, files
	return s.record("edit testimonial")
}

func (s *stubAPI) DeleteTestimonial(_ context.Context, id string) error {
	return s.record("delete testimonial " + id)
}

func (s *stubAPI) ListContacts(context.Context) ([]domain.Contact, error) {
	return s.contacts, s.record("list contacts")
}

func (s *stubAPI) DeleteContact(_ context.Context, id string) error {
	return s.record("delete contact " + id)
}

func (s *stubAPI) ListRentQuotes(context.Context) ([]domain.RentQuote, error) {
	return s.rents, s.record("list rents")
}

func (s *stubAPI) DeleteRentQuote(_ context.Context, id string) error {
	return s.record("delete rent " + id)
}

func (s *stubAPI) ListQuotes(context.Context) ([]domain.Quote, error) {
	return s.quotes, s.record("list quotes")
}

func (s *stubAPI) DeleteQuote(_ context.Context, id string) error {
	return s.record("delete quote " + id)
}

func (s *stubAPI) UpdateOrderStatus(_ context.Context, id, status string) error {
	s.statusTo = status
	return s.record("status " + id)
}

func (s *stubAPI) ListProjects(context.Context) ([]domain.Project, error) {
	return s.projects, s.record("list projects")
}

func (s *stubAPI) AddProject(_ context.Context, p *domain.Project, files []robotics.File) error {
	s.project, s.files = p, files
	return s.record("add project")
}

func (s *stubAPI) EditProject(_ context.Context, p *domain.Project, files []robotics.File) error {
	s.project, s.files = p, files
	return s.record("edit project")
}

func (s *stubAPI) DeleteProject(_ context.Context, id string) error {
	return s.record("delete project " + id)
}

// newTestRecorder returns a Recorder over an in-memory activity store.
func newTestRecorder(t *testing.T) (*Recorder, *store.ActivityStore) {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	activity := store.NewActivityStore(d)
	return NewRecorder(activity, logging.Discard()), activity
}

func actorCtx() context.Context {
	return WithActor(context.Background(), "admin@fortune.ae")
}

func upload(name string) *robotics.File {
	return &robotics.File{Name: name, ContentType: "image/png", Data: []byte("png")}
}
