package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// ResourceEmbedding stores chunked embeddings of a resource's derived
// summary and transcript for local semantic search within a course.
type ResourceEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ResourceId     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CourseCode     string          `gorm:"type:text;not null;index"`
	Document       string          `gorm:"type:text;not null"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"`
	ChunkIndex     int             `gorm:"not null"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (ResourceEmbedding) TableName() string {
	return "resource_embeddings"
}
