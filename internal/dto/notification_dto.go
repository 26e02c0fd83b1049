package dto

import "time"

// NoticePayload is the JSON frame pushed to websocket clients when a bus
// event concerns them.
type NoticePayload struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}
