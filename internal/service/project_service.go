package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/roboadmin/internal/domain"
	"github.com/vbonduro/roboadmin/internal/robotics"
)

// projectAPI is the subset of robotics.Client that ProjectService requires.
type projectAPI interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	AddProject(ctx context.Context, p *domain.Project, files []robotics.File) error
	EditProject(ctx context.Context, p *domain.Project, files []robotics.File) error
	DeleteProject(ctx context.Context, id string) error
}

type ProjectInput struct {
	Name             string `schema:"name"`
	Intro            string `schema:"intro"`
	PreVersion       string `schema:"pre_version"`
	PreDimension     string `schema:"pre_dimension"`
	PreFunctionality string `schema:"pre_functionality"`
	NewVersion       string `schema:"new_version"`
	NewDimension     string `schema:"new_dimension"`
	NewFunctionality string `schema:"new_functionality"`
	CurrentProgress  string `schema:"current_progress"`
	ProjectProcess   string `schema:"project_process"`
	Service          string `schema:"service"`
	OurRobotInclude  string `schema:"our_robot_include"`
	Requirement      string `schema:"requirement"`
	Feature          string `schema:"feature"`

	Image *robotics.File `schema:"-"`
}

func ProjectInputFrom(p *domain.Project) ProjectInput {
	return ProjectInput{
		Name:             p.Name,
		Intro:            p.Intro,
		PreVersion:       p.PreVersion,
		PreDimension:     p.PreDimension,
		PreFunctionality: p.PreFunctionality,
		NewVersion:       p.NewVersion,
		NewDimension:     p.NewDimension,
		NewFunctionality: p.NewFunctionality,
		CurrentProgress:  p.CurrentProgress,
		ProjectProcess:   p.ProjectProcess,
		Service:          p.Service,
		OurRobotInclude:  p.OurRobotInclude,
		Requirement:      p.Requirement,
		Feature:          p.Feature,
	}
}

type ProjectService struct {
	api      projectAPI
	activity *Recorder
	logger   *slog.Logger
}

func NewProjectService(api projectAPI, activity *Recorder, logger *slog.Logger) *ProjectService {
	return &ProjectService{api: api, activity: activity, logger: logger}
}

func (s *ProjectService) List(ctx context.Context, query string) ([]domain.Project, error) {
	all, err := s.api.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return filter(all, func(p *domain.Project) bool { return matchesAny(query, p.Name, p.Intro) }), nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	all, err := s.api.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return find(all, id, func(p *domain.Project) string { return p.ID })
}

func (s *ProjectService) Create(ctx context.Context, in ProjectInput) error {
	p, err := buildProject(in)
	if err != nil {
		return err
	}

	if err := s.api.AddProject(ctx, p, imageFile(in.Image)); err != nil {
		return fmt.Errorf("failed to add project: %w", err)
	}

	s.logger.Info("project created", "name", p.Name)
	s.activity.Record(ctx, "project", "create", p.Name)
	return nil
}

func (s *ProjectService) Update(ctx context.Context, id string, in ProjectInput) error {
	p, err := buildProject(in)
	if err != nil {
		return err
	}
	p.ID = id

	if err := s.api.EditProject(ctx, p, imageFile(in.Image)); err != nil {
		return fmt.Errorf("failed to edit project: %w", err)
	}

	s.logger.Info("project updated", "id", id)
	s.activity.Record(ctx, "project", "update", p.Name)
	return nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.logger.Info("project deleted", "id", id)
	s.activity.Record(ctx, "project", "delete", "#"+id)
	return nil
}

func buildProject(in ProjectInput) (*domain.Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ValidationErrors{"name": "Name is required."}
	}
	return &domain.Project{
		Name:             strings.TrimSpace(in.Name),
		Intro:            in.Intro,
		PreVersion:       in.PreVersion,
		PreDimension:     in.PreDimension,
		PreFunctionality: in.PreFunctionality,
		NewVersion:       in.NewVersion,
		NewDimension:     in.NewDimension,
		NewFunctionality: in.NewFunctionality,
		CurrentProgress:  in.CurrentProgress,
		ProjectProcess:   in.ProjectProcess,
		Service:          in.Service,
		OurRobotInclude:  in.OurRobotInclude,
		Requirement:      in.Requirement,
		Feature:          in.Feature,
	}, nil
}
