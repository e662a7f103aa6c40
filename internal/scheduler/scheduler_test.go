package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	ran := make(chan struct{}, 1)

	s := New(time.Hour, func(ctx context.Context) error {
		calls.Add(1)
		select {
		case ran <- struct{}{}:
		default:
		}
		return errors.New("job errors are logged only")
	}, nil)

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run at start")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestScheduler_DropsTicksDuringLongRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls, running, overlap atomic.Int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})

	s := New(50*time.Millisecond, func(ctx context.Context) error {
		if running.Add(1) > 1 {
			overlap.Add(1)
		}
		defer running.Add(-1)

		if calls.Add(1) == 1 {
			started <- struct{}{}
			select {
			case <-release:
			case <-ctx.Done():
			}
		}
		return nil
	}, nil)

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run at start")
	}

	// about ten ticks fire while the first run blocks
	time.Sleep(500 * time.Millisecond)
	close(release)
	time.Sleep(60 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}

	assert.Equal(t, int32(0), overlap.Load())
	// queued ticks would replay back to back once the first run returns
	assert.LessOrEqual(t, calls.Load(), int32(4))
}

func TestScheduler_RejectsNonPositiveInterval(t *testing.T) {
	s := New(0, func(ctx context.Context) error { return nil }, nil)
	assert.Error(t, s.Run(context.Background()))
}
