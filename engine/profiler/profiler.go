package profiler

import (
	"log"
	"runtime"
	"sync"
	"time"
)

// DefaultInterval is the reporting interval used when none is given.
const DefaultInterval = time.Second

// FrameStats is one reporting window of frame timing and memory figures.
type FrameStats struct {
	FPS         float64
	Frames      int
	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	mu *sync.Mutex

	frameCount     int
	totalFrames    uint64
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           FrameStats
	logging        bool
}

// NewProfiler creates a new Profiler that reports every interval.
// Non-positive intervals fall back to DefaultInterval.
//
// Parameters:
//   - interval: how often stats are computed and logged
//   - logging: true to write each report to the log
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration, logging bool) *Profiler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Profiler{
		mu:             &sync.Mutex{},
		lastTime:       time.Now(),
		updateInterval: interval,
		logging:        logging,
	}
}

// Tick should be called once per frame to track frame timing.
// Computes a FrameStats report when the update interval has elapsed.
//
// Returns:
//   - bool: true if a report was produced this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	p.totalFrames++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc is live heap, TotalAlloc only grows, Sys is the process footprint.
	stats := FrameStats{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		Frames:      p.frameCount,
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
	}

	if gcCount := stats.GCCount; gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		stats.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > stats.MaxPauseUs {
				stats.MaxPauseUs = pause
			}
		}
	}

	if p.logging {
		log.Printf("[Profiler] FPS: %.2f | Frames: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
			stats.FPS, p.totalFrames, stats.HeapMB, stats.AllocRateMB, stats.GCCount, stats.LastPauseUs, stats.MaxPauseUs, stats.SysMB)
	}

	p.last = stats
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = stats.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Stats returns the most recent report, or the zero value before the first one.
func (p *Profiler) Stats() FrameStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// TotalFrames returns the number of ticks since creation.
func (p *Profiler) TotalFrames() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalFrames
}
