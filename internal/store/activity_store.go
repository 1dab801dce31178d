package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/roboadmin/internal/domain"
)

type ActivityStore struct {
	db *sql.DB
}

func NewActivityStore(db *sql.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

func (s *ActivityStore) Create(ctx context.Context, actor, entity, action, subject string) (*domain.Activity, error) {
	a := &domain.Activity{
		ID:        uuid.NewString(),
		Actor:     actor,
		Entity:    entity,
		Action:    action,
		Subject:   subject,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity (id, actor, entity, action, subject, created_at) VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.Actor, a.Entity, a.Action, a.Subject, a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	return a, nil
}

// Recent returns up to limit entries, newest first.
func (s *ActivityStore) Recent(ctx context.Context, limit int) ([]*domain.Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor, entity, action, subject, created_at FROM activity
		ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var entries []*domain.Activity
	for rows.Next() {
		a := &domain.Activity{}
		if err := rows.Scan(&a.ID, &a.Actor, &a.Entity, &a.Action, &a.Subject, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		entries = append(entries, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity: %w", err)
	}

	return entries, nil
}

// PruneBefore deletes entries created before cutoff and returns how many went.
func (s *ActivityStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM activity WHERE created_at < ?
	`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune activity: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
