package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateResourceRequest struct {
	CourseCode  string `json:"course_code" validate:"required"`
	LessonId    string `json:"lesson_id" validate:"required"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Kind        string `json:"kind" validate:"required,oneof=video audio pdf document image presentation youtube_video link"`
	// FileName and FileData (base64) are required for upload kinds. URL is
	// required for youtube_video and link kinds.
	FileName string `json:"file_name"`
	FileData string `json:"file_data"`
	MimeType string `json:"mime_type"`
	URL      string `json:"url"`
}

type CreateResourceResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type ShowResourceResponse struct {
	Id          uuid.UUID  `json:"id"`
	CourseCode  string     `json:"course_code"`
	LessonId    string     `json:"lesson_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Kind        string     `json:"kind"`
	PublicURL   string     `json:"public_url"`
	Status      string     `json:"status"`
	Summary     string     `json:"summary"`
	Transcript  string     `json:"transcript"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type RetryResourceResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type SearchResourceRequest struct {
	CourseCode string `json:"course_code" validate:"required"`
	Query      string `json:"query" validate:"required"`
	Limit      int    `json:"limit"`
}

type SearchResourceResponse struct {
	ResourceId uuid.UUID `json:"resource_id"`
	Document   string    `json:"document"`
	Similarity float64   `json:"similarity"`
}

// IngestResourceMessage is the async job payload queued after a resource
// row is created.
type IngestResourceMessage struct {
	ResourceId uuid.UUID `json:"resource_id"`
}

type AskResourceRequest struct {
	Question string `json:"question" validate:"required"`
}

type AskResourceResponse struct {
	Answer  string                   `json:"answer"`
	Sources []GroundingSourcePayload `json:"sources"`
}
