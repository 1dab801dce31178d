package robotics

import (
	"context"

	"github.com/vbonduro/roboadmin/internal/domain"
)

type bannerRecord struct {
	ID   text `json:"b_id"`
	Type text `json:"b_type"`
	File text `json:"b_file"`
	Page text `json:"b_page_name"`
}

func (c *Client) ListBanners(ctx context.Context) ([]domain.Banner, error) {
	var recs []bannerRecord
	if err := c.list(ctx, "list/banner", nil, &recs); err != nil {
		return nil, err
	}

	banners := make([]domain.Banner, 0, len(recs))
	for _, rec := range recs {
		banners = append(banners, domain.Banner{
			ID:        rec.ID.String(),
			Page:      rec.Page.String(),
			MediaType: rec.Type.String(),
			URL:       c.MediaURL(rec.File.String()),
		})
	}
	return banners, nil
}

// AddBanner uploads a banner for page. files carries an "image" or a "video".
func (c *Client) AddBanner(ctx context.Context, page string, files []File) error {
	return c.send(ctx, "add/banner", map[string]string{"page_name": page}, files)
}

func (c *Client) DeleteBanner(ctx context.Context, id string) error {
	_, err := c.call(ctx, "delete/banner", map[string]string{"banner_id": id})
	return err
}
