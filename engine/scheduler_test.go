package engine

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopSchedulerRunsUntilStopped(t *testing.T) {
	s := NewLoopScheduler(WithFrameLimit(500))
	var frames atomic.Int64

	require.NoError(t, s.Start(func(dt float32) error {
		frames.Add(1)
		return nil
	}))
	assert.True(t, s.Running())
	assert.ErrorIs(t, s.Start(func(float32) error { return nil }), ErrSchedulerRunning)

	assert.Eventually(t, func() bool { return frames.Load() >= 3 }, time.Second, time.Millisecond)

	s.Stop()
	s.Stop()
	s.Wait()
	assert.False(t, s.Running())

	stopped := frames.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, frames.Load())
}

func TestLoopSchedulerCanRestart(t *testing.T) {
	s := NewLoopScheduler()
	noop := func(float32) error { return nil }

	require.NoError(t, s.Start(noop))
	s.Stop()
	s.Wait()
	require.NoError(t, s.Start(noop))
	s.Stop()
	s.Wait()
}

func TestLoopSchedulerRestartDoesNotOverlapFrames(t *testing.T) {
	s := NewLoopScheduler()
	var active, overlaps atomic.Int64
	entered := make(chan struct{})
	release := make(chan struct{})

	require.NoError(t, s.Start(func(float32) error {
		active.Add(1)
		defer active.Add(-1)
		select {
		case entered <- struct{}{}:
			<-release
		default:
		}
		return nil
	}))
	<-entered
	s.Stop()

	started := make(chan error, 1)
	go func() {
		started <- s.Start(func(float32) error {
			if active.Load() > 0 {
				overlaps.Add(1)
			}
			return nil
		})
	}()

	// The restart waits for the first loop, which is still inside its frame.
	time.Sleep(20 * time.Millisecond)
	select {
	case <-started:
		t.Fatal("Start returned while the previous frame was still running")
	default:
	}

	close(release)
	require.NoError(t, <-started)
	time.Sleep(10 * time.Millisecond)
	s.Stop()
	s.Wait()
	assert.Zero(t, overlaps.Load())
}

func TestLoopSchedulerRecoversFromPanic(t *testing.T) {
	s := NewLoopScheduler()
	require.NoError(t, s.Start(func(float32) error {
		panic("lost device")
	}))

	s.Wait()
	assert.False(t, s.Running())
}

func TestLoopSchedulerKeepsRunningOnFrameError(t *testing.T) {
	s := NewLoopScheduler(WithFrameLimit(1000))
	var frames atomic.Int64
	require.NoError(t, s.Start(func(float32) error {
		frames.Add(1)
		return errors.New("surface lost")
	}))

	assert.Eventually(t, func() bool { return frames.Load() >= 2 }, time.Second, time.Millisecond)
	assert.True(t, s.Running())
	s.Stop()
	s.Wait()
}

func TestLoopSchedulerProfiler(t *testing.T) {
	assert.Nil(t, NewLoopScheduler().Profiler())

	s := NewLoopScheduler(WithProfiling(true), WithProfileInterval(time.Hour))
	require.NotNil(t, s.Profiler())
	require.NoError(t, s.Start(func(float32) error { return nil }))
	assert.Eventually(t, func() bool { return s.Profiler().TotalFrames() > 0 }, time.Second, time.Millisecond)
	s.Stop()
	s.Wait()
}

func TestStartRejectsNilFrame(t *testing.T) {
	assert.ErrorIs(t, NewLoopScheduler().Start(nil), ErrNilFrame)
	assert.ErrorIs(t, NewManualScheduler(60).Start(nil), ErrNilFrame)
}

func TestManualScheduler(t *testing.T) {
	m := NewManualScheduler(0)
	assert.ErrorIs(t, m.Step(), ErrSchedulerStopped)

	var deltas []float32
	require.NoError(t, m.Start(func(dt float32) error {
		deltas = append(deltas, dt)
		return nil
	}))
	assert.ErrorIs(t, m.Start(func(float32) error { return nil }), ErrSchedulerRunning)

	require.NoError(t, m.Step())
	require.NoError(t, m.Step())
	assert.Equal(t, uint64(2), m.Steps())
	assert.InDelta(t, 1.0/60, deltas[0], 1e-6)

	m.Stop()
	m.Stop()
	assert.False(t, m.Running())
	assert.ErrorIs(t, m.Step(), ErrSchedulerStopped)
}
