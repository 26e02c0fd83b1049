package mapper

import (
	"encoding/json"
	"time"

	"aia-campus-be/internal/entity"
	"aia-campus-be/internal/model"

	"gorm.io/datatypes"
)

type ProgressMapper struct{}

func NewProgressMapper() *ProgressMapper {
	return &ProgressMapper{}
}

func (m *ProgressMapper) ToEntity(p *model.CourseProgress) (*entity.CourseProgress, error) {
	if p == nil {
		return nil, nil
	}

	var viewed []string
	if len(p.ViewedLessons) > 0 {
		if err := json.Unmarshal(p.ViewedLessons, &viewed); err != nil {
			return nil, err
		}
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.CourseProgress{
		Id:            p.Id,
		UserId:        p.UserId,
		CourseCode:    p.CourseCode,
		Started:       p.Started,
		ViewedLessons: viewed,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     updatedAt,
	}, nil
}

func (m *ProgressMapper) ToModel(p *entity.CourseProgress) (*model.CourseProgress, error) {
	if p == nil {
		return nil, nil
	}

	viewedJson, err := json.Marshal(p.ViewedLessons)
	if err != nil {
		return nil, err
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.CourseProgress{
		Id:            p.Id,
		UserId:        p.UserId,
		CourseCode:    p.CourseCode,
		Started:       p.Started,
		ViewedLessons: datatypes.JSON(viewedJson),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     updatedAt,
	}, nil
}
