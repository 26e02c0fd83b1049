package entity

import (
	"time"

	"github.com/google/uuid"
)

type ResourceStatus string

const (
	ResourceStatusProcessing ResourceStatus = "processing"
	ResourceStatusProcessed  ResourceStatus = "processed"
	ResourceStatusFailed     ResourceStatus = "failed"
)

type ResourceKind string

const (
	ResourceKindVideo        ResourceKind = "video"
	ResourceKindAudio        ResourceKind = "audio"
	ResourceKindPdf          ResourceKind = "pdf"
	ResourceKindDocument     ResourceKind = "document"
	ResourceKindImage        ResourceKind = "image"
	ResourceKindPresentation ResourceKind = "presentation"
	ResourceKindYoutubeVideo ResourceKind = "youtube_video"
	ResourceKindLink         ResourceKind = "link"
)

// Resource is a lesson attachment. It is created with status processing
// before the blob upload and AI ingestion run; the ingestion worker later
// flips it to processed (with all derived fields at once) or failed.
// Status only ever moves forward: processing -> processed | failed.
type Resource struct {
	Id            uuid.UUID
	CourseCode    string
	LessonId      string
	Title         string
	Description   string
	Kind          ResourceKind
	MimeType      string
	StoragePath   string // empty for link-like kinds
	PublicURL     string
	Status        ResourceStatus
	GeminiFileId  string
	GeminiStoreId string
	Summary       string
	Transcript    string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// IsUploadKind reports whether the kind carries a stored blob
// (as opposed to an external link).
func (k ResourceKind) IsUploadKind() bool {
	return k != ResourceKindYoutubeVideo && k != ResourceKindLink
}
