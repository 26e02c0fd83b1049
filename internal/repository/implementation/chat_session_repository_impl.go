package implementation

import (
	"context"
	"errors"

	"aia-campus-be/internal/entity"
	"aia-campus-be/internal/mapper"
	"aia-campus-be/internal/model"
	"aia-campus-be/internal/repository/contract"
	"aia-campus-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatSessionRepository(db *gorm.DB) contract.ChatSessionRepository {
	return &ChatSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatSessionRepositoryImpl) Create(ctx context.Context, session *entity.ChatSession) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *ChatSessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ChatSession{}, id).Error
}

func (r *ChatSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	var m model.ChatSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SessionToEntity(&m), nil
}

func (r *ChatSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	var models []*model.ChatSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ChatSession, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SessionToEntity(m)
	}
	return entities, nil
}

func (r *ChatSessionRepositoryImpl) scopeQuery(db *gorm.DB, m *model.ChatSession) *gorm.DB {
	// ResourceId carries the zero-UUID sentinel for no-resource scopes, so
	// plain equality covers every tuple shape.
	return db.
		Where("user_id = ?", m.UserId).
		Where("context_type = ?", m.ContextType).
		Where("course_code = ?", m.CourseCode).
		Where("lesson_id = ?", m.LessonId).
		Where("resource_id = ?", m.ResourceId)
}

func (r *ChatSessionRepositoryImpl) Resolve(ctx context.Context, session *entity.ChatSession) error {
	m := r.mapper.SessionToModel(session)

	// Insert-or-skip on the scope unique index, then read back whichever row
	// won. Two racing callers both end up with the same session.
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(m).Error; err != nil {
		return err
	}

	var existing model.ChatSession
	if err := r.scopeQuery(r.db.WithContext(ctx), m).First(&existing).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(&existing)
	return nil
}
