package ingest

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_InvalidSpec(t *testing.T) {
	s := NewScheduler(context.Background(), nil)

	err := s.Schedule("orders", "every tuesday", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid schedule "every tuesday"`)
	assert.Equal(t, 0, s.Jobs())
}

func TestScheduler_ReplacesByName(t *testing.T) {
	s := NewScheduler(context.Background(), nil)
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.Schedule("orders", "@hourly", noop))
	require.NoError(t, s.Schedule("orders", "*/5 * * * *", noop))
	require.NoError(t, s.Schedule("customers", "@daily", noop))
	assert.Equal(t, 2, s.Jobs())
}

func TestScheduler_RunsJobs(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "run")
	s := NewScheduler(ctx, nil)

	var runs atomic.Int32
	var sawCtx atomic.Bool
	require.NoError(t, s.Schedule("orders", "@every 1s", func(ctx context.Context) error {
		runs.Add(1)
		sawCtx.Store(ctx.Value(ctxKey{}) == "run")
		return errors.New("metastore unavailable")
	}))

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	assert.True(t, sawCtx.Load())
}
