package implementation

import (
	"context"
	"errors"

	"aia-campus-be/internal/entity"
	"aia-campus-be/internal/mapper"
	"aia-campus-be/internal/model"
	"aia-campus-be/internal/repository/contract"
	"aia-campus-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ProgressRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProgressMapper
}

func NewProgressRepository(db *gorm.DB) contract.ProgressRepository {
	return &ProgressRepositoryImpl{
		db:     db,
		mapper: mapper.NewProgressMapper(),
	}
}

func (r *ProgressRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProgressRepositoryImpl) Create(ctx context.Context, progress *entity.CourseProgress) error {
	m, err := r.mapper.ToModel(progress)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	e, err := r.mapper.ToEntity(m)
	if err != nil {
		return err
	}
	*progress = *e
	return nil
}

func (r *ProgressRepositoryImpl) Update(ctx context.Context, progress *entity.CourseProgress) error {
	m, err := r.mapper.ToModel(progress)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	e, err := r.mapper.ToEntity(m)
	if err != nil {
		return err
	}
	*progress = *e
	return nil
}

func (r *ProgressRepositoryImpl) FindByUserAndCourse(ctx context.Context, userId, courseCode string) (*entity.CourseProgress, error) {
	var m model.CourseProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Where("course_code = ?", courseCode).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

func (r *ProgressRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CourseProgress, error) {
	var models []*model.CourseProgress
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.CourseProgress, len(models))
	for i, m := range models {
		e, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, err
		}
		entities[i] = e
	}
	return entities, nil
}
