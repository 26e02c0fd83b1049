package mapper

import (
	"time"

	"aia-campus-be/internal/entity"
	"aia-campus-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ResourceMapper struct{}

func NewResourceMapper() *ResourceMapper {
	return &ResourceMapper{}
}

func (m *ResourceMapper) ToEntity(r *model.LessonResource) *entity.Resource {
	if r == nil {
		return nil
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.Resource{
		Id:            r.Id,
		CourseCode:    r.CourseCode,
		LessonId:      r.LessonId,
		Title:         r.Title,
		Description:   r.Description,
		Kind:          entity.ResourceKind(r.Kind),
		MimeType:      r.MimeType,
		StoragePath:   r.StoragePath,
		PublicURL:     r.PublicURL,
		Status:        entity.ResourceStatus(r.Status),
		GeminiFileId:  r.GeminiFileId,
		GeminiStoreId: r.GeminiStoreId,
		Summary:       r.Summary,
		Transcript:    r.Transcript,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *ResourceMapper) ToModel(r *entity.Resource) *model.LessonResource {
	if r == nil {
		return nil
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.LessonResource{
		Id:            r.Id,
		CourseCode:    r.CourseCode,
		LessonId:      r.LessonId,
		Title:         r.Title,
		Description:   r.Description,
		Kind:          string(r.Kind),
		MimeType:      r.MimeType,
		StoragePath:   r.StoragePath,
		PublicURL:     r.PublicURL,
		Status:        string(r.Status),
		GeminiFileId:  r.GeminiFileId,
		GeminiStoreId: r.GeminiStoreId,
		Summary:       r.Summary,
		Transcript:    r.Transcript,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

// Embedding mappers

func (m *ResourceMapper) EmbeddingToEntity(e *model.ResourceEmbedding) *entity.ResourceEmbedding {
	if e == nil {
		return nil
	}

	return &entity.ResourceEmbedding{
		Id:             e.Id,
		ResourceId:     e.ResourceId,
		CourseCode:     e.CourseCode,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *ResourceMapper) EmbeddingToModel(e *entity.ResourceEmbedding) *model.ResourceEmbedding {
	if e == nil {
		return nil
	}

	return &model.ResourceEmbedding{
		Id:             e.Id,
		ResourceId:     e.ResourceId,
		CourseCode:     e.CourseCode,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
	}
}
