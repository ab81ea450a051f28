package similarity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRetrainScheduler(t *testing.T) {
	noop := TrainerFunc(func(context.Context) error { return nil })

	_, err := NewRetrainScheduler("not a cron", noop)
	assert.Error(t, err)

	disabled, err := NewRetrainScheduler("", noop)
	require.NoError(t, err)
	assert.False(t, disabled.Enabled())
	disabled.Start(context.Background())
	disabled.Stop()

	daily, err := NewRetrainScheduler("0 3 * * *", noop)
	require.NoError(t, err)
	assert.True(t, daily.Enabled())

	next, err := daily.NextRun(time.Date(2026, 5, 1, 12, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 2, 3, 0, 0, 0, time.UTC), next.UTC())
}

func TestRetrainScheduler_StartStop(t *testing.T) {
	s, err := NewRetrainScheduler("0 3 * * *", TrainerFunc(func(context.Context) error { return nil }))
	require.NoError(t, err)

	s.Start(context.Background())
	s.Start(context.Background())

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop 未返回")
	}
	s.Stop()
}
