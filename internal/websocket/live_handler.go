package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"aia-campus-be/internal/dto"
	"aia-campus-be/internal/pkg/logger"
	"aia-campus-be/internal/service"
	"aia-campus-be/pkg/live"

	"github.com/gofiber/websocket/v2"
)

// LiveHandler bridges one browser websocket to one duplex audio session.
// The connection owns its adapter, stop/start cycles reuse it.
type LiveHandler struct {
	liveService service.ILiveService
	logger      logger.ILogger
}

func NewLiveHandler(liveService service.ILiveService, log logger.ILogger) *LiveHandler {
	return &LiveHandler{
		liveService: liveService,
		logger:      log,
	}
}

type liveConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *liveConn) write(frame dto.LiveServerFrame) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteJSON(frame)
}

func (c *liveConn) writeState(state live.State) {
	c.write(dto.LiveServerFrame{Type: "state", State: string(state)})
}

// Handle runs the frame loop for one connection. It returns when the
// client disconnects, tearing down any active session.
func (h *LiveHandler) Handle(conn *websocket.Conn) {
	adapter := h.liveService.NewSession()
	out := &liveConn{conn: conn}
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		adapter.Stop()
		conn.Close()
	}()

	out.writeState(live.StateIdle)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var frame dto.LiveClientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			out.write(dto.LiveServerFrame{Type: "error", Error: "invalid frame"})
			continue
		}

		switch frame.Type {
		case "start":
			h.handleStart(ctx, adapter, out, frame)

		case "audio":
			if err := adapter.SendAudio(frame.Audio); err != nil {
				out.write(dto.LiveServerFrame{Type: "error", Error: err.Error()})
			}

		case "stop":
			adapter.Stop()
			out.writeState(live.StateIdle)

		default:
			out.write(dto.LiveServerFrame{Type: "error", Error: "unknown frame type"})
		}
	}
}

func (h *LiveHandler) handleStart(ctx context.Context, adapter *live.Adapter, out *liveConn, frame dto.LiveClientFrame) {
	instruction, err := h.liveService.InstructionFor(ctx, frame.CourseCode, frame.LessonId)
	if err != nil {
		h.logger.Warn("LiveHandler", "Failed to build instruction", map[string]interface{}{"error": err.Error()})
		instruction = ""
	}

	out.writeState(live.StateConnecting)

	events, err := adapter.Start(ctx, instruction)
	if err != nil {
		h.logger.Error("LiveHandler", "Failed to start live session", map[string]interface{}{"error": err.Error()})
		out.write(dto.LiveServerFrame{Type: "error", Error: "failed to start live session"})
		out.writeState(live.StateIdle)
		return
	}

	out.writeState(live.StateActive)
	go h.pumpEvents(adapter, out, events)
}

// pumpEvents forwards adapter events until the session ends, then reports
// the idle state. It runs once per successful start.
func (h *LiveHandler) pumpEvents(adapter *live.Adapter, out *liveConn, events <-chan live.Event) {
	for event := range events {
		switch event.Type {
		case live.EventAudio:
			out.write(dto.LiveServerFrame{
				Type:      "audio",
				Audio:     event.Audio,
				StartAtMs: event.StartAt.Milliseconds(),
			})
		case live.EventTranscript:
			out.write(dto.LiveServerFrame{
				Type: "transcript",
				Role: event.Role,
				Text: event.Text,
			})
		case live.EventInterrupted:
			out.write(dto.LiveServerFrame{Type: "interrupted"})
		case live.EventError:
			out.write(dto.LiveServerFrame{Type: "error", Error: event.Err.Error()})
		}
	}
	adapter.Stop()
	out.writeState(live.StateIdle)
}
