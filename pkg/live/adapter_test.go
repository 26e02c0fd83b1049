package live

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"aia-campus-be/pkg/genai"
)

// fakeLiveConn scripts the server side of a session. Recv blocks on the
// inbound channel, closing it ends the read loop.
type fakeLiveConn struct {
	sent    []*genai.LiveClientMessage
	inbound chan *genai.LiveServerMessage
	closed  chan struct{}
}

func newFakeLiveConn() *fakeLiveConn {
	return &fakeLiveConn{
		inbound: make(chan *genai.LiveServerMessage, 16),
		closed:  make(chan struct{}),
	}
}

func (c *fakeLiveConn) Send(message *genai.LiveClientMessage) error {
	c.sent = append(c.sent, message)
	return nil
}

func (c *fakeLiveConn) Recv() (*genai.LiveServerMessage, error) {
	select {
	case message, ok := <-c.inbound:
		if !ok {
			return nil, errors.New("connection closed")
		}
		return message, nil
	case <-c.closed:
		return nil, errors.New("connection closed")
	}
}

func (c *fakeLiveConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return nil
}

type fakeDialer struct {
	conn      *fakeLiveConn
	err       error
	lastSetup *genai.LiveSetup
	dials     int
}

func (d *fakeDialer) DialLive(ctx context.Context, setup *genai.LiveSetup) (genai.LiveConn, error) {
	d.dials++
	d.lastSetup = setup
	if d.err != nil {
		return nil, d.err
	}
	return d.conn, nil
}

func audioMessage(raw []byte) *genai.LiveServerMessage {
	return &genai.LiveServerMessage{
		ServerContent: &genai.LiveServerContent{
			ModelTurn: &genai.Content{
				Parts: []*genai.Part{{InlineData: &genai.Blob{
					MimeType: "audio/pcm;rate=24000",
					Data:     base64.StdEncoding.EncodeToString(raw),
				}}},
			},
		},
	}
}

func collect(t *testing.T, events <-chan Event, n int) []Event {
	t.Helper()
	out := make([]Event, 0, n)
	timeout := time.After(time.Second)
	for len(out) < n {
		select {
		case event, ok := <-events:
			if !ok {
				t.Fatalf("events closed after %d of %d", len(out), n)
			}
			out = append(out, event)
		case <-timeout:
			t.Fatalf("timed out after %d of %d events", len(out), n)
		}
	}
	return out
}

func TestStartLifecycle(t *testing.T) {
	dialer := &fakeDialer{conn: newFakeLiveConn()}
	adapter := NewAdapter(dialer, "models/live-test")

	if adapter.State() != StateIdle {
		t.Fatalf("initial state = %v", adapter.State())
	}

	events, err := adapter.Start(context.Background(), "teach kindly")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if adapter.State() != StateActive {
		t.Errorf("state after start = %v, want active", adapter.State())
	}

	setup := dialer.lastSetup
	if setup.Model != "models/live-test" {
		t.Errorf("setup model = %q", setup.Model)
	}
	if setup.SystemInstruction == nil || setup.SystemInstruction.Parts[0].Text != "teach kindly" {
		t.Error("system instruction not forwarded")
	}
	if setup.InputAudioTranscription == nil || setup.OutputAudioTranscription == nil {
		t.Error("both transcription directions must be enabled")
	}

	// A second start while active is rejected.
	if _, err := adapter.Start(context.Background(), ""); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() err = %v, want ErrAlreadyStarted", err)
	}

	adapter.Stop()
	if adapter.State() != StateIdle {
		t.Errorf("state after stop = %v, want idle", adapter.State())
	}

	// The event channel drains and closes once the connection dies.
	for range events {
	}
}

func TestStartFailureTearsDown(t *testing.T) {
	dialer := &fakeDialer{err: errors.New("dial refused")}
	adapter := NewAdapter(dialer, "m")

	_, err := adapter.Start(context.Background(), "")
	if err == nil {
		t.Fatal("expected dial error")
	}
	if adapter.State() != StateIdle {
		t.Errorf("state after failed start = %v, want idle", adapter.State())
	}

	// A failed start leaves the adapter restartable.
	dialer.err = nil
	dialer.conn = newFakeLiveConn()
	if _, err := adapter.Start(context.Background(), ""); err != nil {
		t.Fatalf("restart after failure error = %v", err)
	}
	adapter.Stop()
}

func TestStopIdempotent(t *testing.T) {
	dialer := &fakeDialer{conn: newFakeLiveConn()}
	adapter := NewAdapter(dialer, "m")

	adapter.Stop() // stop while idle is a no-op

	if _, err := adapter.Start(context.Background(), ""); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	adapter.Stop()
	adapter.Stop()
	adapter.Stop()
	if adapter.State() != StateIdle {
		t.Errorf("state = %v, want idle", adapter.State())
	}
}

func TestSendAudio(t *testing.T) {
	conn := newFakeLiveConn()
	dialer := &fakeDialer{conn: conn}
	adapter := NewAdapter(dialer, "m")

	if err := adapter.SendAudio("AAAA"); !errors.Is(err, ErrNotActive) {
		t.Errorf("SendAudio while idle err = %v, want ErrNotActive", err)
	}

	if _, err := adapter.Start(context.Background(), ""); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := adapter.SendAudio("AAAA"); err != nil {
		t.Fatalf("SendAudio() error = %v", err)
	}

	last := conn.sent[len(conn.sent)-1]
	if last.RealtimeInput == nil || last.RealtimeInput.Audio == nil {
		t.Fatal("audio frame not sent as realtime input")
	}
	if last.RealtimeInput.Audio.MimeType != "audio/pcm;rate=16000" {
		t.Errorf("input mime = %q", last.RealtimeInput.Audio.MimeType)
	}
	adapter.Stop()
}

func TestAudioEventsAreScheduledGapless(t *testing.T) {
	conn := newFakeLiveConn()
	dialer := &fakeDialer{conn: conn}
	adapter := NewAdapter(dialer, "m")

	events, err := adapter.Start(context.Background(), "")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Two 500ms frames at 24kHz PCM16.
	frame := make([]byte, 24000)
	conn.inbound <- audioMessage(frame)
	conn.inbound <- audioMessage(frame)

	got := collect(t, events, 2)
	if got[0].Type != EventAudio || got[1].Type != EventAudio {
		t.Fatalf("event types = %v, %v", got[0].Type, got[1].Type)
	}
	if got[0].StartAt != 0 {
		t.Errorf("first StartAt = %v, want 0", got[0].StartAt)
	}
	if got[1].StartAt != 500*time.Millisecond {
		t.Errorf("second StartAt = %v, want 500ms", got[1].StartAt)
	}
	adapter.Stop()
}

func TestInterruptedFlushesSchedule(t *testing.T) {
	conn := newFakeLiveConn()
	dialer := &fakeDialer{conn: conn}
	adapter := NewAdapter(dialer, "m")

	events, err := adapter.Start(context.Background(), "")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	frame := make([]byte, 24000)
	conn.inbound <- audioMessage(frame)
	conn.inbound <- audioMessage(frame)
	collect(t, events, 2)

	conn.inbound <- &genai.LiveServerMessage{
		ServerContent: &genai.LiveServerContent{Interrupted: true},
	}
	if got := collect(t, events, 1); got[0].Type != EventInterrupted {
		t.Fatalf("event = %v, want interrupted", got[0].Type)
	}

	// After barge-in the playback clock restarts at zero.
	conn.inbound <- audioMessage(frame)
	if got := collect(t, events, 1); got[0].StartAt != 0 {
		t.Errorf("StartAt after interrupt = %v, want 0", got[0].StartAt)
	}
	adapter.Stop()
}

func TestTranscriptAccumulates(t *testing.T) {
	conn := newFakeLiveConn()
	dialer := &fakeDialer{conn: conn}
	adapter := NewAdapter(dialer, "m")

	events, err := adapter.Start(context.Background(), "")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	conn.inbound <- &genai.LiveServerMessage{
		ServerContent: &genai.LiveServerContent{
			InputTranscription: &genai.LiveTranscription{Text: "what is overfitting"},
		},
	}
	conn.inbound <- &genai.LiveServerMessage{
		ServerContent: &genai.LiveServerContent{
			OutputTranscription: &genai.LiveTranscription{Text: "overfitting is"},
		},
	}

	got := collect(t, events, 2)
	if got[0].Role != "user" || got[0].Text != "what is overfitting" {
		t.Errorf("first transcript event = %+v", got[0])
	}
	if got[1].Role != "model" {
		t.Errorf("second transcript role = %q", got[1].Role)
	}

	transcript := adapter.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(transcript))
	}
	if transcript[0].Role != "user" || transcript[1].Role != "model" {
		t.Errorf("transcript = %+v", transcript)
	}
	adapter.Stop()
}

func TestConnectionErrorStopsSession(t *testing.T) {
	conn := newFakeLiveConn()
	dialer := &fakeDialer{conn: conn}
	adapter := NewAdapter(dialer, "m")

	events, err := adapter.Start(context.Background(), "")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	close(conn.inbound) // server side drops

	got := collect(t, events, 1)
	if got[0].Type != EventError {
		t.Fatalf("event = %v, want error", got[0].Type)
	}

	// The channel closes and the adapter is idle again.
	for range events {
	}
	if adapter.State() != StateIdle {
		t.Errorf("state = %v, want idle", adapter.State())
	}
}
