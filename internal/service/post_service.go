package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/roboadmin/internal/domain"
	"github.com/vbonduro/roboadmin/internal/robotics"
)

// postAPI is the subset of robotics.Client that PostService requires.
type postAPI interface {
	ListPosts(ctx context.Context, kind domain.PostKind) ([]domain.Post, error)
	AddPost(ctx context.Context, p *domain.Post, files []robotics.File) error
	EditPost(ctx context.Context, p *domain.Post, files []robotics.File) error
	DeletePost(ctx context.Context, id string) error
}

type PostInput struct {
	Title          string `schema:"title"`
	Description    string `schema:"description"`
	ClientName     string `schema:"client_name"`
	ClientLocation string `schema:"client_location"`
	CategoryTags   string `schema:"category_tags"`

	Media *robotics.File `schema:"-"`
}

func PostInputFrom(p *domain.Post) PostInput {
	return PostInput{
		Title:          p.Title,
		Description:    p.Description,
		ClientName:     p.ClientName,
		ClientLocation: p.ClientLocation,
		CategoryTags:   p.CategoryTags,
	}
}

// PostService manages blog posts and behind-the-scenes posts, which share
// one upstream resource keyed by kind.
type PostService struct {
	api      postAPI
	activity *Recorder
	logger   *slog.Logger
}

func NewPostService(api postAPI, activity *Recorder, logger *slog.Logger) *PostService {
	return &PostService{api: api, activity: activity, logger: logger}
}

func (s *PostService) List(ctx context.Context, kind domain.PostKind, query string) ([]domain.Post, error) {
	posts, err := s.api.ListPosts(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s posts: %w", kind, err)
	}
	return filter(posts, func(p *domain.Post) bool { return matchesAny(query, p.Title) }), nil
}

func (s *PostService) Get(ctx context.Context, kind domain.PostKind, id string) (*domain.Post, error) {
	posts, err := s.api.ListPosts(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s posts: %w", kind, err)
	}
	return find(posts, id, func(p *domain.Post) string { return p.ID })
}

func (s *PostService) Create(ctx context.Context, kind domain.PostKind, in PostInput) error {
	post, err := buildPost(kind, in)
	if err != nil {
		return err
	}

	if err := s.api.AddPost(ctx, post, imageFile(in.Media)); err != nil {
		return fmt.Errorf("failed to add post: %w", err)
	}

	s.logger.Info("post created", "kind", kind, "title", post.Title)
	s.activity.Record(ctx, string(kind), "create", post.Title)
	return nil
}

func (s *PostService) Update(ctx context.Context, kind domain.PostKind, id string, in PostInput) error {
	post, err := buildPost(kind, in)
	if err != nil {
		return err
	}
	post.ID = id

	if err := s.api.EditPost(ctx, post, imageFile(in.Media)); err != nil {
		return fmt.Errorf("failed to edit post: %w", err)
	}

	s.logger.Info("post updated", "kind", kind, "id", id)
	s.activity.Record(ctx, string(kind), "update", post.Title)
	return nil
}

func (s *PostService) Delete(ctx context.Context, kind domain.PostKind, id string) error {
	if err := s.api.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.logger.Info("post deleted", "kind", kind, "id", id)
	s.activity.Record(ctx, string(kind), "delete", "#"+id)
	return nil
}

func buildPost(kind domain.PostKind, in PostInput) (*domain.Post, error) {
	errs := ValidationErrors{}
	if strings.TrimSpace(in.Title) == "" {
		errs["title"] = "Title is required."
	}
	if kind == domain.PostKindBlog && strings.TrimSpace(in.ClientName) == "" {
		errs["client_name"] = "Client name is required."
	}
	if err := errs.orNil(); err != nil {
		return nil, err
	}

	return &domain.Post{
		Kind:           kind,
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		ClientName:     strings.TrimSpace(in.ClientName),
		ClientLocation: strings.TrimSpace(in.ClientLocation),
		CategoryTags:   strings.TrimSpace(in.CategoryTags),
	}, nil
}
