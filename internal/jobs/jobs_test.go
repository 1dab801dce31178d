package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/roboadmin/internal/db"
	"github.com/vbonduro/roboadmin/internal/logging"
	"github.com/vbonduro/roboadmin/internal/store"
)

type stubPruner struct {
	cutoff time.Time
	err    error
}

func (s *stubPruner) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return 3, s.err
}

func TestPruneActivityJobCutoff(t *testing.T) {
	now := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)
	pruner := &stubPruner{}

	PruneActivityJob(context.Background(), pruner, 90*24*time.Hour, func() time.Time { return now }, logging.Discard())()

	assert.Equal(t, time.Date(2026, 1, 31, 3, 0, 0, 0, time.UTC), pruner.cutoff)
}

func TestPruneActivityJobErrorDoesNotPanic(t *testing.T) {
	pruner := &stubPruner{err: errors.New("locked")}

	assert.NotPanics(t, PruneActivityJob(context.Background(), pruner, time.Hour, time.Now, logging.Discard()))
}

func TestPruneActivityJobAgainstStore(t *testing.T) {
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	defer func() { _ = d.Close() }()

	activity := store.NewActivityStore(d)
	ctx := context.Background()
	_, err = d.Exec(`INSERT INTO activity (id, actor, entity, action, subject, created_at) VALUES ('old', 'a', 'robot', 'delete', '', ?)`,
		time.Now().UTC().AddDate(0, 0, -200))
	require.NoError(t, err)
	_, err = activity.Create(ctx, "a", "robot", "create", "D2")
	require.NoError(t, err)

	PruneActivityJob(ctx, activity, 90*24*time.Hour, time.Now, logging.Discard())()

	entries, err := activity.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "D2", entries[0].Subject)
}

func TestSchedulerLifecycle(t *testing.T) {
	s := NewScheduler(logging.Discard())
	require.NoError(t, s.PruneActivity(context.Background(), &stubPruner{}, time.Hour))
	assert.Len(t, s.cron.Entries(), 1)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
