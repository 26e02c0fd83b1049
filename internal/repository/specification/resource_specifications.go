package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByCourseCode struct {
	CourseCode string
}

func (s ByCourseCode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("course_code = ?", s.CourseCode)
}

type ByLessonId struct {
	LessonId string
}

func (s ByLessonId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("lesson_id = ?", s.LessonId)
}

type ByResourceId struct {
	ResourceId uuid.UUID
}

func (s ByResourceId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("resource_id = ?", s.ResourceId)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
