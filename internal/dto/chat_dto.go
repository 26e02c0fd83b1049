package dto

import (
	"time"

	"github.com/google/uuid"
)

type ResolveSessionRequest struct {
	ContextType string     `json:"context_type" validate:"required,oneof=program_assistant course_tutor media_assistant"`
	CourseCode  string     `json:"course_code"`
	LessonId    string     `json:"lesson_id"`
	ResourceId  *uuid.UUID `json:"resource_id"`
}

type ResolveSessionResponse struct {
	SessionId   uuid.UUID `json:"session_id"`
	ContextType string    `json:"context_type"`
	CreatedAt   time.Time `json:"created_at"`
}

type GroundingSourcePayload struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

type SendChatRequest struct {
	SessionId uuid.UUID
	Message   string `json:"message" validate:"required"`
}

type SendChatResponse struct {
	MessageId uuid.UUID                `json:"message_id"`
	Content   string                   `json:"content"`
	Sources   []GroundingSourcePayload `json:"sources"`
	IsError   bool                     `json:"is_error"`
}

type ChatMessagePayload struct {
	Id        uuid.UUID                `json:"id"`
	Sender    string                   `json:"sender"`
	Content   string                   `json:"content"`
	Sources   []GroundingSourcePayload `json:"sources"`
	IsError   bool                     `json:"is_error"`
	CreatedAt time.Time                `json:"created_at"`
}

type ChatHistoryResponse struct {
	SessionId uuid.UUID            `json:"session_id"`
	Messages  []ChatMessagePayload `json:"messages"`
}
