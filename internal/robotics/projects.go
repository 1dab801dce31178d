package robotics

import (
	"context"

	"github.com/vbonduro/roboadmin/internal/domain"
)

type projectRecord struct {
	ID               text `json:"cp_id"`
	Name             text `json:"name"`
	Intro            text `json:"intro"`
	PreVersion       text `json:"pre_version"`
	PreDimension     text `json:"pre_dimension"`
	PreFunctionality text `json:"pre_functionality"`
	NewVersion       text `json:"new_version"`
	NewDimension     text `json:"new_dimension"`
	NewFunctionality text `json:"new_functionality"`
	CurrentProgress  text `json:"current_progress"`
	ProjectProcess   text `json:"project_process"`
	Service          text `json:"service"`
	OurRobotInclude  text `json:"our_robot_include"`
	Requirement      text `json:"requirement"`
	Feature          text `json:"feature"`
	Image            text `json:"image"`
}

func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var recs []projectRecord
	if err := c.list(ctx, "list/current_project", nil, &recs); err != nil {
		return nil, err
	}

	out := make([]domain.Project, 0, len(recs))
	for _, rec := range recs {
		out = append(out, domain.Project{
			ID:               rec.ID.String(),
			Name:             rec.Name.String(),
			Intro:            rec.Intro.String(),
			PreVersion:       rec.PreVersion.String(),
			PreDimension:     rec.PreDimension.String(),
			PreFunctionality: rec.PreFunctionality.String(),
			NewVersion:       rec.NewVersion.String(),
			NewDimension:     rec.NewDimension.String(),
			NewFunctionality: rec.NewFunctionality.String(),
			CurrentProgress:  rec.CurrentProgress.String(),
			ProjectProcess:   rec.ProjectProcess.String(),
			Service:          rec.Service.String(),
			OurRobotInclude:  rec.OurRobotInclude.String(),
			Requirement:      rec.Requirement.String(),
			Feature:          rec.Feature.String(),
			ImageURL:         c.MediaURL(rec.Image.String()),
		})
	}
	return out, nil
}

func projectFields(p *domain.Project) map[string]string {
	return map[string]string{
		"name":              p.Name,
		"intro":             p.Intro,
		"pre_version":       p.PreVersion,
		"pre_dimension":     p.PreDimension,
		"pre_functionality": p.PreFunctionality,
		"new_version":       p.NewVersion,
		"new_dimension":     p.NewDimension,
		"new_functionality": p.NewFunctionality,
		"current_progress":  p.CurrentProgress,
		"project_process":   p.ProjectProcess,
		"service":           p.Service,
		"our_robot_include": p.OurRobotInclude,
		"requirement":       p.Requirement,
		"feature":           p.Feature,
	}
}

func (c *Client) AddProject(ctx context.Context, p *domain.Project, files []File) error {
	return c.send(ctx, "add/current_project", projectFields(p), files)
}

func (c *Client) EditProject(ctx context.Context, p *domain.Project, files []File) error {
	fields := projectFields(p)
	fields["cp_id"] = p.ID
	return c.send(ctx, "edit/current_project", fields, files)
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	_, err := c.call(ctx, "delete/current_project", map[string]string{"cp_id": id})
	return err
}
