package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CourseProgress struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        string         `gorm:"type:text;not null;uniqueIndex:idx_course_progress_user_course"`
	CourseCode    string         `gorm:"type:text;not null;uniqueIndex:idx_course_progress_user_course"`
	Started       bool           `gorm:"not null;default:false"`
	ViewedLessons datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
}

func (CourseProgress) TableName() string {
	return "course_progress"
}
