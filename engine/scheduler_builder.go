package engine

import "time"

// SchedulerBuilderOption is a functional option for configuring a LoopScheduler.
// Use the With* functions to create options that are applied directly to the scheduler instance.
type SchedulerBuilderOption func(*loopScheduler)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, the profiler is ticked each frame and logs periodically
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithProfiling(enabled bool) SchedulerBuilderOption {
	return func(s *loopScheduler) {
		s.profilingEnabled = enabled
	}
}

// WithProfileInterval sets how often the profiler reports.
//
// Parameters:
//   - interval: the reporting interval (defaults to one second)
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithProfileInterval(interval time.Duration) SchedulerBuilderOption {
	return func(s *loopScheduler) {
		if interval > 0 {
			s.profileInterval = interval
		}
	}
}

// WithFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithFrameLimit(fps float64) SchedulerBuilderOption {
	return func(s *loopScheduler) {
		s.frameLimit = frameDuration(fps)
	}
}
