package robotics

import (
	"context"

	"github.com/vbonduro/roboadmin/internal/domain"
)

type testimonialRecord struct {
	ID          text   `json:"t_id"`
	Name        text   `json:"t_name"`
	Company     text   `json:"t_company"`
	Rating      number `json:"t_rating"`
	Description text   `json:"t_description"`
	Image       text   `json:"t_image"`
}

func (c *Client) ListTestimonials(ctx context.Context) ([]domain.Testimonial, error) {
	var recs []testimonialRecord
	if err := c.list(ctx, "list/testimonial", nil, &recs); err != nil {
		return nil, err
	}

	out := make([]domain.Testimonial, 0, len(recs))
	for _, rec := range recs {
		out = append(out, domain.Testimonial{
			ID:          rec.ID.String(),
			Name:        rec.Name.String(),
			Company:     rec.Company.String(),
			Rating:      float64(rec.Rating),
			Description: rec.Description.String(),
			ImageURL:    c.MediaURL(rec.Image.String()),
		})
	}
	return out, nil
}

func testimonialFields(t *domain.Testimonial) map[string]string {
	return map[string]string{
		"name":        t.Name,
		"company":     t.Company,
		"rating":      formatFloat(t.Rating),
		"description": t.Description,
	}
}

func (c *Client) AddTestimonial(ctx context.Context, t *domain.Testimonial, files []File) error {
	return c.send(ctx, "add/testimonial", testimonialFields(t), files)
}

func (c *Client) EditTestimonial(ctx context.Context, t *domain.Testimonial, files []File) error {
	fields := testimonialFields(t)
	fields["t_id"] = t.ID
	return c.send(ctx, "edit/testimonial", fields, files)
}

func (c *Client) DeleteTestimonial(ctx context.Context, id string) error {
	_, err := c.call(ctx, "delete/testimonial", map[string]string{"testimonial_id": id})
	return err
}
