package live

import (
	"context"
	"errors"
	"sync"
	"time"

	"aia-campus-be/pkg/genai"
)

type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateActive     State = "active"
)

var (
	ErrAlreadyStarted = errors.New("live: session already started")
	ErrNotActive      = errors.New("live: session not active")
)

type EventType string

const (
	EventAudio       EventType = "audio"
	EventTranscript  EventType = "transcript"
	EventInterrupted EventType = "interrupted"
	EventError       EventType = "error"
)

type Event struct {
	Type EventType
	// Audio is base64 PCM16 at OutputSampleRate, StartAt its playback
	// offset on the gapless clock.
	Audio   string
	StartAt time.Duration
	Text    string
	Role    string // "user" or "model" for transcript events
	Err     error
}

type TranscriptEntry struct {
	Role string
	Text string
}

// Adapter drives one duplex audio session: idle -> connecting -> active,
// back to idle on stop or failure. Stop is safe to call from any state,
// any number of times.
type Adapter struct {
	dialer genai.LiveDialer
	model  string

	mu         sync.Mutex
	state      State
	conn       genai.LiveConn
	events     chan Event
	transcript []TranscriptEntry

	scheduler *PlaybackScheduler
}

func NewAdapter(dialer genai.LiveDialer, model string) *Adapter {
	return &Adapter{
		dialer:    dialer,
		model:     model,
		state:     StateIdle,
		scheduler: NewPlaybackScheduler(),
	}
}

func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Adapter) Transcript() []TranscriptEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]TranscriptEntry, len(a.transcript))
	copy(out, a.transcript)
	return out
}

// Start connects the duplex session and begins pumping events. On any
// failure it tears the session fully down before returning, no zombie
// sessions survive a failed start.
func (a *Adapter) Start(ctx context.Context, systemInstruction string) (<-chan Event, error) {
	a.mu.Lock()
	if a.state != StateIdle {
		a.mu.Unlock()
		return nil, ErrAlreadyStarted
	}
	a.state = StateConnecting
	a.mu.Unlock()

	setup := &genai.LiveSetup{
		Model: a.model,
		GenerationConfig: &genai.LiveGenerationConfig{
			ResponseModalities: []string{"AUDIO"},
		},
		InputAudioTranscription:  &struct{}{},
		OutputAudioTranscription: &struct{}{},
	}
	if systemInstruction != "" {
		setup.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		}
	}

	conn, err := a.dialer.DialLive(ctx, setup)
	if err != nil {
		a.Stop()
		return nil, err
	}

	a.mu.Lock()
	if a.state != StateConnecting {
		// Stopped while the dial was in flight.
		a.mu.Unlock()
		conn.Close()
		return nil, ErrNotActive
	}
	a.conn = conn
	a.state = StateActive
	a.transcript = nil
	a.scheduler.Flush()
	a.events = make(chan Event, 64)
	events := a.events
	a.mu.Unlock()

	go a.readLoop(conn, events)
	return events, nil
}

// SendAudio forwards one base64 PCM16 microphone frame at InputSampleRate.
func (a *Adapter) SendAudio(data string) error {
	a.mu.Lock()
	conn := a.conn
	active := a.state == StateActive
	a.mu.Unlock()
	if !active || conn == nil {
		return ErrNotActive
	}

	return conn.Send(&genai.LiveClientMessage{
		RealtimeInput: &genai.LiveRealtimeInput{
			Audio: &genai.Blob{
				MimeType: inputMimeType(),
				Data:     data,
			},
		},
	})
}

// Stop tears the session down. Every release step runs regardless of the
// others, and calling Stop again is a no-op.
func (a *Adapter) Stop() {
	a.mu.Lock()
	if a.state == StateIdle {
		a.mu.Unlock()
		return
	}
	conn := a.conn
	a.conn = nil
	a.state = StateIdle
	a.mu.Unlock()

	a.scheduler.Flush()
	if conn != nil {
		conn.Close()
	}
}

func (a *Adapter) readLoop(conn genai.LiveConn, events chan Event) {
	defer close(events)

	for {
		message, err := conn.Recv()
		if err != nil {
			a.mu.Lock()
			wasActive := a.state == StateActive && a.conn == conn
			a.mu.Unlock()
			if wasActive {
				events <- Event{Type: EventError, Err: err}
				a.Stop()
			}
			return
		}
		if message.ServerContent == nil {
			continue
		}
		a.handleContent(message.ServerContent, events)
	}
}

func (a *Adapter) handleContent(content *genai.LiveServerContent, events chan Event) {
	if content.Interrupted {
		// Barge-in: drop everything queued, reset the playback clock.
		a.scheduler.Flush()
		events <- Event{Type: EventInterrupted}
	}

	if content.InputTranscription != nil && content.InputTranscription.Text != "" {
		a.appendTranscript("user", content.InputTranscription.Text, events)
	}
	if content.OutputTranscription != nil && content.OutputTranscription.Text != "" {
		a.appendTranscript("model", content.OutputTranscription.Text, events)
	}

	if content.ModelTurn == nil {
		return
	}
	for _, part := range content.ModelTurn.Parts {
		if part.InlineData == nil || part.InlineData.Data == "" {
			continue
		}
		raw, err := DecodePCM(part.InlineData.Data)
		if err != nil {
			events <- Event{Type: EventError, Err: err}
			continue
		}
		startAt := a.scheduler.Schedule(PCMDuration(len(raw), OutputSampleRate))
		events <- Event{
			Type:    EventAudio,
			Audio:   part.InlineData.Data,
			StartAt: startAt,
		}
	}
}

func (a *Adapter) appendTranscript(role, text string, events chan Event) {
	a.mu.Lock()
	a.transcript = append(a.transcript, TranscriptEntry{Role: role, Text: text})
	a.mu.Unlock()
	events <- Event{Type: EventTranscript, Role: role, Text: text}
}
