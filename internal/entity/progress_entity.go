package entity

import (
	"time"

	"github.com/google/uuid"
)

// CourseProgress is a first-class persisted aggregate per (user, course).
type CourseProgress struct {
	Id            uuid.UUID
	UserId        string
	CourseCode    string
	Started       bool
	ViewedLessons []string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// HasViewed reports whether the lesson id is already recorded.
func (p *CourseProgress) HasViewed(lessonId string) bool {
	for _, id := range p.ViewedLessons {
		if id == lessonId {
			return true
		}
	}
	return false
}
