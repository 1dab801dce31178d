package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/roboadmin/internal/domain"
	"github.com/vbonduro/roboadmin/internal/robotics"
)

// bannerAPI is the subset of robotics.Client that BannerService requires.
type bannerAPI interface {
	ListBanners(ctx context.Context) ([]domain.Banner, error)
	AddBanner(ctx context.Context, page string, files []robotics.File) error
	DeleteBanner(ctx context.Context, id string) error
}

// Pages a banner can be shown on.
const (
	BannerPageHome            = "home"
	BannerPageProductsService = "ProductandServiceBanner"
)

type BannerInput struct {
	Page string `schema:"page_name"`

	Image *robotics.File `schema:"-"`
	Video *robotics.File `schema:"-"`
}

type BannerService struct {
	api      bannerAPI
	activity *Recorder
	logger   *slog.Logger
}

func NewBannerService(api bannerAPI, activity *Recorder, logger *slog.Logger) *BannerService {
	return &BannerService{api: api, activity: activity, logger: logger}
}

func (s *BannerService) List(ctx context.Context) ([]domain.Banner, error) {
	banners, err := s.api.ListBanners(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	return banners, nil
}

func (s *BannerService) Create(ctx context.Context, in BannerInput) error {
	errs := ValidationErrors{}
	page := strings.TrimSpace(in.Page)
	if page != BannerPageHome && page != BannerPageProductsService {
		errs["page_name"] = "Choose the page for this banner."
	}
	if in.Image == nil && in.Video == nil {
		errs["media"] = "Upload an image or a video."
	}
	if err := errs.orNil(); err != nil {
		return err
	}

	var files []robotics.File
	if in.Image != nil {
		f := *in.Image
		f.Field = "image"
		files = append(files, f)
	}
	if in.Video != nil {
		f := *in.Video
		f.Field = "video"
		files = append(files, f)
	}

	if err := s.api.AddBanner(ctx, page, files); err != nil {
		return fmt.Errorf("failed to add banner: %w", err)
	}

	s.logger.Info("banner created", "page", page)
	s.activity.Record(ctx, "banner", "create", page)
	return nil
}

func (s *BannerService) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteBanner(ctx, id); err != nil {
		return fmt.Errorf("failed to delete banner: %w", err)
	}

	s.logger.Info("banner deleted", "id", id)
	s.activity.Record(ctx, "banner", "delete", "#"+id)
	return nil
}
