package live

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time        { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestScheduleGapless(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := NewPlaybackSchedulerWithClock(clock.now)

	// Three frames arriving faster than they play back stack end to end.
	if got := s.Schedule(100 * time.Millisecond); got != 0 {
		t.Errorf("first frame start = %v, want 0", got)
	}
	if got := s.Schedule(100 * time.Millisecond); got != 100*time.Millisecond {
		t.Errorf("second frame start = %v, want 100ms", got)
	}
	if got := s.Schedule(50 * time.Millisecond); got != 200*time.Millisecond {
		t.Errorf("third frame start = %v, want 200ms", got)
	}
}

func TestScheduleAfterDrain(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := NewPlaybackSchedulerWithClock(clock.now)

	s.Schedule(100 * time.Millisecond)

	// The queue drained long ago, the next frame starts "now" on the
	// playback clock instead of back to back.
	clock.advance(500 * time.Millisecond)
	if got := s.Schedule(100 * time.Millisecond); got != 500*time.Millisecond {
		t.Errorf("start = %v, want 500ms", got)
	}
}

func TestFlushResetsClock(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := NewPlaybackSchedulerWithClock(clock.now)

	s.Schedule(200 * time.Millisecond)
	clock.advance(50 * time.Millisecond)
	s.Flush()

	// After a barge-in the next frame starts at zero, not where the old
	// queue left off.
	if got := s.Schedule(100 * time.Millisecond); got != 0 {
		t.Errorf("start after flush = %v, want 0", got)
	}
	if got := s.Pending(); got != 100*time.Millisecond {
		t.Errorf("pending after flush = %v, want 100ms", got)
	}
}

func TestPending(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := NewPlaybackSchedulerWithClock(clock.now)

	if got := s.Pending(); got != 0 {
		t.Errorf("pending on fresh scheduler = %v, want 0", got)
	}

	s.Schedule(300 * time.Millisecond)
	clock.advance(100 * time.Millisecond)
	if got := s.Pending(); got != 200*time.Millisecond {
		t.Errorf("pending = %v, want 200ms", got)
	}

	clock.advance(time.Second)
	if got := s.Pending(); got != 0 {
		t.Errorf("pending after drain = %v, want 0", got)
	}
}

func TestPCMDuration(t *testing.T) {
	tests := []struct {
		byteLen    int
		sampleRate int
		want       time.Duration
	}{
		{48000, OutputSampleRate, time.Second},
		{24000, OutputSampleRate, 500 * time.Millisecond},
		{32000, InputSampleRate, time.Second},
		{0, OutputSampleRate, 0},
	}

	for _, tt := range tests {
		if got := PCMDuration(tt.byteLen, tt.sampleRate); got != tt.want {
			t.Errorf("PCMDuration(%d, %d) = %v, want %v", tt.byteLen, tt.sampleRate, got, tt.want)
		}
	}
}
