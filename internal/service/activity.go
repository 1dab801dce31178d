package service

import (
	"context"
	"log/slog"

	"github.com/vbonduro/roboadmin/internal/domain"
)

// activityRepository is the subset of store.ActivityStore the services require.
type activityRepository interface {
	Create(ctx context.Context, actor, entity, action, subject string) (*domain.Activity, error)
	Recent(ctx context.Context, limit int) ([]*domain.Activity, error)
}

type actorKey struct{}

// WithActor tags ctx with the email of the admin performing changes.
func WithActor(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, actorKey{}, email)
}

func actorFrom(ctx context.Context) string {
	if email, ok := ctx.Value(actorKey{}).(string); ok && email != "" {
		return email
	}
	return "unknown"
}

// Recorder appends to the activity log. Failures are logged and swallowed so
// a change that reached the upstream is never reported as failed.
type Recorder struct {
	repo   activityRepository
	logger *slog.Logger
}

func NewRecorder(repo activityRepository, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

func (r *Recorder) Record(ctx context.Context, entity, action, subject string) {
	if r == nil || r.repo == nil {
		return
	}
	if _, err := r.repo.Create(ctx, actorFrom(ctx), entity, action, subject); err != nil {
		r.logger.Error("failed to record activity", "entity", entity, "action", action, "error", err)
	}
}

// Recent returns the newest entries. A nil Recorder has none.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]*domain.Activity, error) {
	if r == nil || r.repo == nil {
		return nil, nil
	}
	return r.repo.Recent(ctx, limit)
}
