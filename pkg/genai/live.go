package genai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// Live message frames for the bidiGenerateContent websocket API.

type LiveSetup struct {
	Model                    string                `json:"model"`
	GenerationConfig         *LiveGenerationConfig `json:"generationConfig,omitempty"`
	SystemInstruction        *Content              `json:"systemInstruction,omitempty"`
	InputAudioTranscription  *struct{}             `json:"inputAudioTranscription,omitempty"`
	OutputAudioTranscription *struct{}             `json:"outputAudioTranscription,omitempty"`
}

type LiveGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
	SpeechConfig       *struct {
		VoiceConfig *struct {
			PrebuiltVoiceConfig *struct {
				VoiceName string `json:"voiceName"`
			} `json:"prebuiltVoiceConfig,omitempty"`
		} `json:"voiceConfig,omitempty"`
	} `json:"speechConfig,omitempty"`
}

type LiveRealtimeInput struct {
	Audio *Blob `json:"audio,omitempty"`
}

type LiveClientMessage struct {
	Setup         *LiveSetup         `json:"setup,omitempty"`
	RealtimeInput *LiveRealtimeInput `json:"realtimeInput,omitempty"`
}

type LiveTranscription struct {
	Text string `json:"text"`
}

type LiveServerContent struct {
	ModelTurn           *Content           `json:"modelTurn,omitempty"`
	InputTranscription  *LiveTranscription `json:"inputTranscription,omitempty"`
	OutputTranscription *LiveTranscription `json:"outputTranscription,omitempty"`
	Interrupted         bool               `json:"interrupted,omitempty"`
	TurnComplete        bool               `json:"turnComplete,omitempty"`
}

type LiveServerMessage struct {
	SetupComplete *struct{}          `json:"setupComplete,omitempty"`
	ServerContent *LiveServerContent `json:"serverContent,omitempty"`
}

// LiveConn is a bidirectional live session transport. Implementations must
// allow one concurrent reader and one concurrent writer.
type LiveConn interface {
	Send(message *LiveClientMessage) error
	Recv() (*LiveServerMessage, error)
	Close() error
}

// LiveDialer opens live connections. Swappable in tests.
type LiveDialer interface {
	DialLive(ctx context.Context, setup *LiveSetup) (LiveConn, error)
}

const liveEndpointPath = "/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

type wsLiveDialer struct {
	apiKey  string
	baseURL string
}

func NewLiveDialer(apiKey string, opts ...Option) LiveDialer {
	c := NewClient(apiKey, opts...)
	return &wsLiveDialer{apiKey: apiKey, baseURL: c.baseURL}
}

func (d *wsLiveDialer) DialLive(ctx context.Context, setup *LiveSetup) (LiveConn, error) {
	wsURL := strings.Replace(d.baseURL, "https://", "wss://", 1)
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)
	endpoint := fmt.Sprintf("%s%s?key=%s", wsURL, liveEndpointPath, url.QueryEscape(d.apiKey))

	conn, res, err := websocket.DefaultDialer.DialContext(ctx, endpoint, http.Header{})
	if err != nil {
		return nil, err
	}
	if res != nil && res.Body != nil {
		res.Body.Close()
	}

	lc := &wsLiveConn{conn: conn}
	if err := lc.Send(&LiveClientMessage{Setup: setup}); err != nil {
		conn.Close()
		return nil, err
	}

	// The server acknowledges setup before streaming content.
	first, err := lc.Recv()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if first.SetupComplete == nil {
		conn.Close()
		return nil, fmt.Errorf("live setup not acknowledged")
	}
	return lc, nil
}

type wsLiveConn struct {
	conn *websocket.Conn
}

func (c *wsLiveConn) Send(message *LiveClientMessage) error {
	return c.conn.WriteJSON(message)
}

func (c *wsLiveConn) Recv() (*LiveServerMessage, error) {
	var message LiveServerMessage
	if err := c.conn.ReadJSON(&message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (c *wsLiveConn) Close() error {
	return c.conn.Close()
}
