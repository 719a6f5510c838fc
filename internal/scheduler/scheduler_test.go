package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/clever-tips/internal/logger"
	"github.com/yourusername/clever-tips/internal/service"
)

type fakeRunner struct {
	mu   sync.Mutex
	days []string
	fail map[string]error
}

func (r *fakeRunner) Run(_ context.Context, day time.Time) (*service.RunResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := day.Format("2006-01-02")
	r.days = append(r.days, d)
	if err := r.fail[d]; err != nil {
		return nil, err
	}
	return &service.RunResult{Day: d}, nil
}

func (r *fakeRunner) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.days)
}

func TestRunOnceCoversLookAheadDays(t *testing.T) {
	runner := &fakeRunner{fail: map[string]error{"2024-03-10": errors.New("provider down")}}
	s := NewScheduler(runner, time.UTC, logger.NewNopLogger())
	s.now = func() time.Time { return time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC) }

	results, err := s.RunOnce(context.Background(), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")

	assert.Equal(t, []string{"2024-03-09", "2024-03-10", "2024-03-11"}, runner.days)
	require.Len(t, results, 2)
	assert.Equal(t, "2024-03-11", results[1].Day)
}

func TestRunOnceUsesScheduleLocation(t *testing.T) {
	runner := &fakeRunner{}
	s := NewScheduler(runner, time.FixedZone("UTC+3", 3*3600), logger.NewNopLogger())
	s.now = func() time.Time { return time.Date(2024, 3, 9, 22, 0, 0, 0, time.UTC) }

	_, err := s.RunOnce(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-10"}, runner.days)
}

func TestRunOnceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &fakeRunner{}
	_, err := NewScheduler(runner, nil, logger.NewNopLogger()).RunOnce(ctx, 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, runner.calls())
}

func TestSchedulerLifecycle(t *testing.T) {
	s := NewScheduler(&fakeRunner{}, time.UTC, logger.NewNopLogger())

	assert.Error(t, s.Start(), "no jobs scheduled")
	assert.Error(t, s.ScheduleDailyRun("not a cron", 0, time.Minute))

	require.NoError(t, s.ScheduleDailyRun("0 9 * * *", 1, time.Minute))
	require.Len(t, s.Entries(), 1)
	assert.True(t, s.GetNextRun().IsZero())

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.Error(t, s.ScheduleDailyRun("0 10 * * *", 0, time.Minute))

	next := s.GetNextRun()
	require.False(t, next.IsZero())
	assert.Equal(t, 9, next.UTC().Hour())

	require.NoError(t, s.Stop(context.Background()))
	assert.False(t, s.IsRunning())
	require.NoError(t, s.Stop(context.Background()))
}

func TestScheduledJobRuns(t *testing.T) {
	runner := &fakeRunner{}
	s := NewScheduler(runner, time.UTC, logger.NewNopLogger())

	require.NoError(t, s.ScheduleDailyRun("@every 1s", 0, time.Second))
	require.NoError(t, s.Start())
	defer func() { _ = s.Stop(context.Background()) }()

	assert.Eventually(t, func() bool { return runner.calls() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestScheduleTask(t *testing.T) {
	s := NewScheduler(&fakeRunner{}, time.UTC, logger.NewNopLogger())

	ran := make(chan struct{}, 1)
	require.NoError(t, s.ScheduleTask("@every 1s", "purge", time.Second, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return errors.New("ignored")
	}))
	assert.Error(t, s.ScheduleTask("not a cron", "broken", time.Second, func(context.Context) error { return nil }))
	assert.Len(t, s.Entries(), 1)

	require.NoError(t, s.Start())
	defer func() { _ = s.Stop(context.Background()) }()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("task did not run")
	}
}
