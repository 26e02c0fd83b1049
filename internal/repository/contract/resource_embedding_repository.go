package contract

import (
	"context"

	"aia-campus-be/internal/entity"
	"aia-campus-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredResourceEmbedding wraps ResourceEmbedding with its similarity score
type ScoredResourceEmbedding struct {
	Embedding  *entity.ResourceEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type ResourceEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.ResourceEmbedding) error
	DeleteByResourceId(ctx context.Context, resourceId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResourceEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilar orders by cosine distance within a course scope.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, courseCode string) ([]*entity.ResourceEmbedding, error)
	// SearchSimilarWithScore returns embeddings with their similarity scores, filtered by threshold
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, courseCode string, threshold float64) ([]*ScoredResourceEmbedding, error)
}
