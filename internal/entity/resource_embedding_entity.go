package entity

import (
	"time"

	"github.com/google/uuid"
)

type ResourceEmbedding struct {
	Id             uuid.UUID
	ResourceId     uuid.UUID
	CourseCode     string
	Document       string
	EmbeddingValue []float32
	ChunkIndex     int
	CreatedAt      time.Time
}
