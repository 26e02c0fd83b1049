package live

import (
	"sync"
	"time"
)

// PlaybackScheduler assigns gapless start offsets to incoming audio frames.
// Each frame starts at the later of "now" and "end of the previously
// scheduled frame", so frames never overlap and never leave gaps while the
// model is ahead of real time. Flush discards the queue and resets the
// playback clock to zero.
type PlaybackScheduler struct {
	mu      sync.Mutex
	now     func() time.Time
	epoch   time.Time
	nextEnd time.Duration
}

func NewPlaybackScheduler() *PlaybackScheduler {
	return &PlaybackScheduler{now: time.Now}
}

// NewPlaybackSchedulerWithClock allows tests to control time.
func NewPlaybackSchedulerWithClock(now func() time.Time) *PlaybackScheduler {
	return &PlaybackScheduler{now: now}
}

// elapsed is the playback-clock reading. Zero until the first frame after
// creation or a flush.
func (s *PlaybackScheduler) elapsed() time.Duration {
	if s.epoch.IsZero() {
		return 0
	}
	return s.now().Sub(s.epoch)
}

// Schedule returns the start offset for a frame of the given duration.
func (s *PlaybackScheduler) Schedule(frameDuration time.Duration) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.epoch.IsZero() {
		s.epoch = now
	}

	start := now.Sub(s.epoch)
	if s.nextEnd > start {
		start = s.nextEnd
	}
	s.nextEnd = start + frameDuration
	return start
}

// Flush drops everything scheduled and resets the clock to zero. Called on
// barge-in so the assistant stops talking immediately.
func (s *PlaybackScheduler) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch = time.Time{}
	s.nextEnd = 0
}

// Pending reports how much scheduled audio has not started playing yet.
func (s *PlaybackScheduler) Pending() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := s.nextEnd - s.elapsed()
	if pending < 0 {
		return 0
	}
	return pending
}
