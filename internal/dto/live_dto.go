package dto

// Live session frames exchanged over the websocket bridge. Direction is
// client to server unless noted.

type LiveClientFrame struct {
	// Type is one of "start", "audio", "stop".
	Type       string `json:"type"`
	CourseCode string `json:"course_code,omitempty"`
	LessonId   string `json:"lesson_id,omitempty"`
	// Audio carries base64 PCM16 at 16kHz for type "audio".
	Audio string `json:"audio,omitempty"`
}

type LiveServerFrame struct {
	// Type is one of "state", "audio", "transcript", "interrupted", "error".
	Type  string `json:"type"`
	State string `json:"state,omitempty"`
	// Audio carries base64 PCM16 at 24kHz for type "audio". StartAtMs is
	// its offset on the session playback clock, so clients can schedule
	// chunks back to back without gaps.
	Audio     string `json:"audio,omitempty"`
	StartAtMs int64  `json:"start_at_ms,omitempty"`
	Role      string `json:"role,omitempty"`
	Text      string `json:"text,omitempty"`
	Error     string `json:"error,omitempty"`
}
