package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatContextType string

const (
	ContextProgramAssistant ChatContextType = "program_assistant"
	ContextCourseTutor      ChatContextType = "course_tutor"
	ContextMediaAssistant   ChatContextType = "media_assistant"
)

type ChatSender string

const (
	SenderUser   ChatSender = "user"
	SenderModel  ChatSender = "model"
	SenderSystem ChatSender = "system"
)

// ChatSession is resolved (found-or-created) per distinct
// (user, context type, course, lesson, resource) tuple.
type ChatSession struct {
	Id          uuid.UUID
	UserId      string
	ContextType ChatContextType
	CourseCode  string
	LessonId    string
	ResourceId  *uuid.UUID
	CreatedAt   time.Time
}

// ChatMessage is append-only; there are no edits or deletes.
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Sender        ChatSender
	Content       string
	Sources       []GroundingSource
	IsError       bool
	CreatedAt     time.Time
}

// GroundingSource is a normalized citation attached to a model message.
// File-backed sources are not externally addressable and carry uri "#".
type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}
