package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession rows are unique per scoping tuple; the composite unique index
// lets session resolution be an insert-on-conflict rather than read-then-write.
// ResourceId stores the zero UUID for sessions without a resource: a nullable
// column would break the index, Postgres treats NULLs as distinct so every
// no-resource insert would slip past the conflict clause.
type ChatSession struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      string    `gorm:"type:text;not null;uniqueIndex:idx_chat_sessions_scope"`
	ContextType string    `gorm:"type:text;not null;uniqueIndex:idx_chat_sessions_scope"`
	CourseCode  string    `gorm:"type:text;uniqueIndex:idx_chat_sessions_scope"`
	LessonId    string    `gorm:"type:text;uniqueIndex:idx_chat_sessions_scope"`
	ResourceId  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chat_sessions_scope"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
