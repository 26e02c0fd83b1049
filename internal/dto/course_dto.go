package dto

import (
	"time"

	"aia-campus-be/internal/entity"
)

type CreateCourseRequest struct {
	Code          string                `json:"code" validate:"required"`
	Title         string                `json:"title" validate:"required"`
	Description   string                `json:"description"`
	Credits       int                   `json:"credits"`
	Term          int                   `json:"term"`
	Prerequisites []string              `json:"prerequisites"`
	Modules       []entity.CourseModule `json:"modules"`
}

type CreateCourseResponse struct {
	Code string `json:"code"`
}

type CourseSummaryResponse struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Credits     int    `json:"credits"`
	Term        int    `json:"term"`
	LessonCount int    `json:"lesson_count"`
}

type ShowCourseResponse struct {
	Code          string                `json:"code"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Credits       int                   `json:"credits"`
	Term          int                   `json:"term"`
	Prerequisites []string              `json:"prerequisites"`
	Modules       []entity.CourseModule `json:"modules"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     *time.Time            `json:"updated_at"`
}

type UpdateCourseRequest struct {
	Code          string
	Title         string                `json:"title" validate:"required"`
	Description   string                `json:"description"`
	Credits       int                   `json:"credits"`
	Term          int                   `json:"term"`
	Prerequisites []string              `json:"prerequisites"`
	Modules       []entity.CourseModule `json:"modules"`
}

type UpdateCourseResponse struct {
	Code string `json:"code"`
}

type ToggleTaskResponse struct {
	LessonId  string `json:"lesson_id"`
	TaskId    string `json:"task_id"`
	Completed bool   `json:"completed"`
}
