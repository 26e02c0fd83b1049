package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByUserId struct {
	UserId string
}

func (s ByUserId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}

type BySessionId struct {
	SessionId uuid.UUID
}

func (s BySessionId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.SessionId)
}

type ByContextType struct {
	ContextType string
}

func (s ByContextType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("context_type = ?", s.ContextType)
}
