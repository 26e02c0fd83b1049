package implementation

import (
	"context"

	"aia-campus-be/internal/entity"
	"aia-campus-be/internal/mapper"
	"aia-campus-be/internal/model"
	"aia-campus-be/internal/repository/contract"
	"aia-campus-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ResourceEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ResourceMapper
}

func NewResourceEmbeddingRepository(db *gorm.DB) contract.ResourceEmbeddingRepository {
	return &ResourceEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewResourceMapper(),
	}
}

func (r *ResourceEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ResourceEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.ResourceEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.ResourceEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.EmbeddingToModel(e)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*embeddings[i] = *r.mapper.EmbeddingToEntity(m)
	}
	return nil
}

func (r *ResourceEmbeddingRepositoryImpl) DeleteByResourceId(ctx context.Context, resourceId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("resource_id = ?", resourceId).Delete(&model.ResourceEmbedding{}).Error
}

func (r *ResourceEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResourceEmbedding, error) {
	var models []*model.ResourceEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ResourceEmbedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.EmbeddingToEntity(m)
	}
	return entities, nil
}

func (r *ResourceEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ResourceEmbedding{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

func (r *ResourceEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, courseCode string) ([]*entity.ResourceEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}
	var models []*model.ResourceEmbedding

	// pgvector cosine distance: embedding_value <=> vector
	err := r.db.WithContext(ctx).
		Where("course_code = ?", courseCode).
		Order(gorm.Expr("embedding_value <=> ?", pgvector.NewVector(embedding))).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.ResourceEmbedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.EmbeddingToEntity(m)
	}
	return entities, nil
}

// SearchSimilarWithScore returns embeddings with similarity scores, filtered by threshold
func (r *ResourceEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, courseCode string, threshold float64) ([]*contract.ScoredResourceEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding_value <=> query_vector) recovers the similarity.
	type result struct {
		model.ResourceEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("resource_embeddings").
		Select("resource_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("course_code = ?", courseCode).
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredResourceEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredResourceEmbedding{
			Embedding:  r.mapper.EmbeddingToEntity(&res.ResourceEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
