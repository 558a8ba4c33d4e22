package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDailyAtNext(t *testing.T) {
	at := DailyAt{Hour: 8, Minute: 0}

	before := time.Date(2024, 5, 10, 7, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC), at.Next(before))

	exactly := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 11, 8, 0, 0, 0, time.UTC), at.Next(exactly))

	after := time.Date(2024, 12, 31, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC), at.Next(after))
}

func TestEveryNext(t *testing.T) {
	now := time.Date(2024, 5, 10, 7, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(time.Hour), Every(time.Hour).Next(now))
}

func TestSchedulerRunsIntervalJob(t *testing.T) {
	var calls atomic.Int32
	s := New()
	s.Register(Job{
		Name:     "tick",
		Schedule: Every(10 * time.Millisecond),
		Fn: func(ctx context.Context) error {
			calls.Add(1)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	s.Wait()

	task, err := s.GetTask("tick")
	require.NoError(t, err)
	assert.Equal(t, StatusFulfill, task.Status)
}

func TestManualRunRecordsFailureAndPanic(t *testing.T) {
	s := New()
	s.Register(Job{
		Name:     "fails",
		Schedule: Every(time.Hour),
		Fn:       func(ctx context.Context) error { return errors.New("smtp down") },
	})
	s.Register(Job{
		Name:     "panics",
		Schedule: Every(time.Hour),
		Fn:       func(ctx context.Context) error { panic("boom") },
	})

	require.NoError(t, s.Run(context.Background(), "fails"))
	require.NoError(t, s.Run(context.Background(), "panics"))
	s.Wait()

	task, err := s.GetTask("fails")
	require.NoError(t, err)
	assert.Equal(t, StatusReject, task.Status)
	assert.Equal(t, "smtp down", task.Message)

	task, err = s.GetTask("panics")
	require.NoError(t, err)
	assert.Equal(t, StatusReject, task.Status)
	assert.Contains(t, task.Message, "boom")

	assert.Error(t, s.Run(context.Background(), "missing"))
	_, err = s.GetTask("missing")
	assert.Error(t, err)
}

func TestListSortedByName(t *testing.T) {
	s := New()
	noop := func(ctx context.Context) error { return nil }
	s.Register(Job{Name: "b", Schedule: Every(time.Hour), Fn: noop})
	s.Register(Job{Name: "a", Schedule: DailyAt{Hour: 8}, Fn: noop})

	items := s.List()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Name)
	assert.Equal(t, StatusIdle, items[1].Status)
	assert.NotNil(t, items[0].NextDate)
}
