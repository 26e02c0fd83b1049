package model

import (
	"time"

	"github.com/google/uuid"
)

type LessonResource struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseCode    string    `gorm:"type:text;not null;index"`
	LessonId      string    `gorm:"type:text;not null;index"`
	Title         string    `gorm:"type:text;not null"`
	Description   string    `gorm:"type:text"`
	Kind          string    `gorm:"type:text;not null"`
	MimeType      string    `gorm:"type:text"`
	StoragePath   string    `gorm:"type:text"`
	PublicURL     string    `gorm:"type:text"`
	Status        string    `gorm:"type:text;not null;index"`
	GeminiFileId  string    `gorm:"type:text"`
	GeminiStoreId string    `gorm:"type:text"`
	Summary       string    `gorm:"type:text"`
	Transcript    string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (LessonResource) TableName() string {
	return "lesson_resources"
}
