package robotics

import (
	"context"

	"github.com/vbonduro/roboadmin/internal/domain"
)

type postRecord struct {
	ID             text `json:"bl_id"`
	Title          text `json:"bl_title"`
	Description    text `json:"bl_description"`
	ClientName     text `json:"bl_client_name"`
	ClientLocation text `json:"bl_client_location"`
	CategoryTags   text `json:"bl_category_tags"`
	Image          text `json:"bl_image"`
	FileType       text `json:"bl_file_type"`
	Date           text `json:"bl_date"`
	Status         text `json:"bl_status"`
}

// ListPosts returns the posts of one kind.
func (c *Client) ListPosts(ctx context.Context, kind domain.PostKind) ([]domain.Post, error) {
	var recs []postRecord
	if err := c.list(ctx, "list/blog", map[string]string{"type": string(kind)}, &recs); err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(recs))
	for _, rec := range recs {
		posts = append(posts, domain.Post{
			ID:             rec.ID.String(),
			Kind:           kind,
			Title:          rec.Title.String(),
			Description:    rec.Description.String(),
			ClientName:     rec.ClientName.String(),
			ClientLocation: rec.ClientLocation.String(),
			CategoryTags:   rec.CategoryTags.String(),
			ImageURL:       c.MediaURL(rec.Image.String()),
			FileType:       rec.FileType.String(),
			Date:           rec.Date.String(),
			Status:         rec.Status.String(),
		})
	}
	return posts, nil
}

func postFields(p *domain.Post) map[string]string {
	fields := map[string]string{
		"type":        string(p.Kind),
		"title":       p.Title,
		"description": p.Description,
	}
	if p.Kind == domain.PostKindBehindTheScenes {
		fields["category_tags"] = p.CategoryTags
	} else {
		fields["client_name"] = p.ClientName
		fields["client_location"] = p.ClientLocation
	}
	return fields
}

// AddPost creates a post. An optional image or video goes under "image".
func (c *Client) AddPost(ctx context.Context, p *domain.Post, files []File) error {
	return c.send(ctx, "add/blog", postFields(p), files)
}

func (c *Client) EditPost(ctx context.Context, p *domain.Post, files []File) error {
	fields := postFields(p)
	fields["bl_id"] = p.ID
	return c.send(ctx, "edit/blog", fields, files)
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	_, err := c.call(ctx, "delete/blog", map[string]string{"bl_id": id})
	return err
}
