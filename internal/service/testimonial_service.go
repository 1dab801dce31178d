package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/roboadmin/internal/domain"
	"github.com/vbonduro/roboadmin/internal/robotics"
)

// testimonialAPI is the subset of robotics.Client that TestimonialService requires.
type testimonialAPI interface {
	ListTestimonials(ctx context.Context) ([]domain.Testimonial, error)
	AddTestimonial(ctx context.Context, t *domain.Testimonial, files []robotics.File) error
	EditTestimonial(ctx context.Context, t *domain.Testimonial, files []robotics.File) error
	DeleteTestimonial(ctx context.Context, id string) error
}

type TestimonialInput struct {
	Name        string `schema:"name"`
	Company     string `schema:"company"`
	Rating      string `schema:"rating"`
	Description string `schema:"description"`

	Image *robotics.File `schema:"-"`
}

func TestimonialInputFrom(t *domain.Testimonial) TestimonialInput {
	return TestimonialInput{
		Name:        t.Name,
		Company:     t.Company,
		Rating:      formatNumber(t.Rating),
		Description: t.Description,
	}
}

type TestimonialService struct {
	api      testimonialAPI
	activity *Recorder
	logger   *slog.Logger
}

func NewTestimonialService(api testimonialAPI, activity *Recorder, logger *slog.Logger) *TestimonialService {
	return &TestimonialService{api: api, activity: activity, logger: logger}
}

// List matches query against "name company".
func (s *TestimonialService) List(ctx context.Context, query string) ([]domain.Testimonial, error) {
	all, err := s.api.ListTestimonials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	return filter(all, func(t *domain.Testimonial) bool {
		return matchesAny(query, t.Name+" "+t.Company)
	}), nil
}

func (s *TestimonialService) Get(ctx context.Context, id string) (*domain.Testimonial, error) {
	all, err := s.api.ListTestimonials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	return find(all, id, func(t *domain.Testimonial) string { return t.ID })
}

func (s *TestimonialService) Create(ctx context.Context, in TestimonialInput) error {
	t, err := buildTestimonial(in)
	if err != nil {
		return err
	}

	if err := s.api.AddTestimonial(ctx, t, imageFile(in.Image)); err != nil {
		return fmt.Errorf("failed to add testimonial: %w", err)
	}

	s.logger.Info("testimonial created", "name", t.Name)
	s.activity.Record(ctx, "testimonial", "create", t.Name)
	return nil
}

func (s *TestimonialService) Update(ctx context.Context, id string, in TestimonialInput) error {
	t, err := buildTestimonial(in)
	if err != nil {
		return err
	}
	t.ID = id

	if err := s.api.EditTestimonial(ctx, t, imageFile(in.Image)); err != nil {
		return fmt.Errorf("failed to edit testimonial: %w", err)
	}

	s.logger.Info("testimonial updated", "id", id)
	s.activity.Record(ctx, "testimonial", "update", t.Name)
	return nil
}

func (s *TestimonialService) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteTestimonial(ctx, id); err != nil {
		return fmt.Errorf("failed to delete testimonial: %w", err)
	}

	s.logger.Info("testimonial deleted", "id", id)
	s.activity.Record(ctx, "testimonial", "delete", "#"+id)
	return nil
}

func buildTestimonial(in TestimonialInput) (*domain.Testimonial, error) {
	errs := ValidationErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "Name is required."
	}
	if strings.TrimSpace(in.Company) == "" {
		errs["company"] = "Company is required."
	}
	rating, err := parseNumber(in.Rating)
	if err != nil || rating < 0 || rating > 5 {
		errs["rating"] = "Rating must be between 0 and 5."
	}
	if err := errs.orNil(); err != nil {
		return nil, err
	}

	return &domain.Testimonial{
		Name:        strings.TrimSpace(in.Name),
		Company:     strings.TrimSpace(in.Company),
		Rating:      rating,
		Description: in.Description,
	}, nil
}

// imageFile sends an optional upload under the "image" field.
func imageFile(f *robotics.File) []robotics.File {
	if f == nil {
		return nil
	}
	out := *f
	out.Field = "image"
	return []robotics.File{out}
}
