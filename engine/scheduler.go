package engine

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-sword/engine/profiler"
)

var (
	// ErrSchedulerRunning is returned by Start when the scheduler is already running.
	ErrSchedulerRunning = errors.New("scheduler already running")
	// ErrSchedulerStopped is returned by ManualScheduler.Step when no frame function is running.
	ErrSchedulerStopped = errors.New("scheduler not running")
	// ErrNilFrame is returned by Start when given a nil frame function.
	ErrNilFrame = errors.New("frame function is nil")
)

// FrameFunc is invoked once per scheduled frame with the seconds elapsed since the previous frame.
// A returned error is logged; it does not stop the scheduler.
type FrameFunc func(deltaTime float32) error

// Scheduler drives a frame function repeatedly until stopped.
type Scheduler interface {
	// Start begins invoking frame. It returns without waiting for the first frame.
	//
	// Parameters:
	//   - frame: the function to call each frame
	//
	// Returns:
	//   - error: ErrSchedulerRunning if already started, ErrNilFrame if frame is nil
	Start(frame FrameFunc) error

	// Stop halts scheduling. A frame already in progress completes. Safe to call multiple times.
	Stop()

	// Running reports whether frames are being scheduled.
	//
	// Returns:
	//   - bool: true between a successful Start and Stop
	Running() bool
}

// loopScheduler runs the frame function on its own goroutine, as fast as possible or capped.
type loopScheduler struct {
	mu *sync.Mutex

	running  bool
	quit     chan struct{}
	quitOnce *sync.Once
	done     chan struct{}

	profiler         *profiler.Profiler
	profilingEnabled bool
	profileInterval  time.Duration

	frameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// LoopScheduler is a Scheduler backed by a goroutine loop.
type LoopScheduler interface {
	Scheduler

	// Wait blocks until the loop goroutine started by the last Start has exited.
	// Returns immediately if the scheduler was never started.
	Wait()

	// SetFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default). Takes effect on the next Start.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetFrameLimit(fps float64)

	// Profiler returns the profiler ticked once per frame, or nil when profiling is disabled.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler or nil
	Profiler() *profiler.Profiler
}

var _ LoopScheduler = &loopScheduler{}

// NewLoopScheduler creates a LoopScheduler.
//
// Parameters:
//   - options: functional options for frame cap and profiling
//
// Returns:
//   - LoopScheduler: the newly created scheduler, not yet started
func NewLoopScheduler(options ...SchedulerBuilderOption) LoopScheduler {
	s := &loopScheduler{
		mu:              &sync.Mutex{},
		profileInterval: profiler.DefaultInterval,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.profilingEnabled {
		s.profiler = profiler.NewProfiler(s.profileInterval, true)
	}
	return s
}

func (s *loopScheduler) Start(frame FrameFunc) error {
	if frame == nil {
		return ErrNilFrame
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrSchedulerRunning
	}
	prev := s.done
	s.mu.Unlock()

	// A loop stopped just before this call may still be inside a frame.
	if prev != nil {
		<-prev
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrSchedulerRunning
	}

	s.running = true
	s.quit = make(chan struct{})
	s.quitOnce = &sync.Once{}
	s.done = make(chan struct{})

	go s.loop(frame, s.quit, s.done, s.frameLimit)
	return nil
}

func (s *loopScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signalQuit()
}

func (s *loopScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *loopScheduler) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (s *loopScheduler) SetFrameLimit(fps float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frameLimit = frameDuration(fps)
}

func (s *loopScheduler) Profiler() *profiler.Profiler {
	return s.profiler
}

// signalQuit closes the quit channel once. Caller holds s.mu.
func (s *loopScheduler) signalQuit() {
	if !s.running {
		return
	}
	s.running = false
	s.quitOnce.Do(func() {
		close(s.quit)
	})
}

// loop runs frames until quit is closed. A panic inside frame is logged and stops the scheduler.
func (s *loopScheduler) loop(frame FrameFunc, quit, done chan struct{}, frameLimit time.Duration) {
	defer close(done)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Scheduler] frame loop recovered from panic: %v", r)
			s.mu.Lock()
			if s.quit == quit {
				s.signalQuit()
			}
			s.mu.Unlock()
		}
	}()

	lastFrame := time.Now()
	for {
		select {
		case <-quit:
			return
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(lastFrame).Seconds())
		lastFrame = now

		if err := frame(dt); err != nil {
			log.Printf("[Scheduler] frame error: %v", err)
		}

		if s.profiler != nil {
			s.profiler.Tick()
		}

		if frameLimit > 0 {
			if remaining := frameLimit - time.Since(now); remaining > 0 {
				select {
				case <-quit:
					return
				case <-time.After(remaining):
				}
			}
		}
	}
}

// ManualScheduler is a Scheduler whose frames are advanced explicitly with Step.
// Used for tests and headless runs.
type ManualScheduler struct {
	mu      *sync.Mutex
	frame   FrameFunc
	delta   float32
	steps   uint64
	running bool
}

var _ Scheduler = &ManualScheduler{}

// NewManualScheduler creates a ManualScheduler that reports a fixed delta time per step.
//
// Parameters:
//   - fps: the simulated frame rate; values <= 0 default to 60
//
// Returns:
//   - *ManualScheduler: the newly created scheduler
func NewManualScheduler(fps float64) *ManualScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &ManualScheduler{
		mu:    &sync.Mutex{},
		delta: float32(1 / fps),
	}
}

func (m *ManualScheduler) Start(frame FrameFunc) error {
	if frame == nil {
		return ErrNilFrame
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return ErrSchedulerRunning
	}
	m.frame = frame
	m.running = true
	return nil
}

func (m *ManualScheduler) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
	m.frame = nil
}

func (m *ManualScheduler) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Step runs exactly one frame.
//
// Returns:
//   - error: ErrSchedulerStopped if not running, otherwise the frame's own error
func (m *ManualScheduler) Step() error {
	m.mu.Lock()
	frame, running, dt := m.frame, m.running, m.delta
	if running {
		m.steps++
	}
	m.mu.Unlock()

	if !running {
		return ErrSchedulerStopped
	}
	return frame(dt)
}

// Steps returns the number of frames run by Step.
func (m *ManualScheduler) Steps() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.steps
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
