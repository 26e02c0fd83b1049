package mapper

import (
	"encoding/json"
	"time"

	"aia-campus-be/internal/entity"
	"aia-campus-be/internal/model"

	"gorm.io/datatypes"
)

type CourseMapper struct{}

func NewCourseMapper() *CourseMapper {
	return &CourseMapper{}
}

func (m *CourseMapper) ToEntity(c *model.Course) (*entity.Course, error) {
	if c == nil {
		return nil, nil
	}

	var modules []entity.CourseModule
	if len(c.Modules) > 0 {
		if err := json.Unmarshal(c.Modules, &modules); err != nil {
			return nil, err
		}
	}

	var prerequisites []string
	if len(c.Prerequisites) > 0 {
		if err := json.Unmarshal(c.Prerequisites, &prerequisites); err != nil {
			return nil, err
		}
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Course{
		Code:          c.Code,
		Title:         c.Title,
		Description:   c.Description,
		Credits:       c.Credits,
		Term:          c.Term,
		Prerequisites: prerequisites,
		Modules:       modules,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     updatedAt,
	}, nil
}

func (m *CourseMapper) ToModel(c *entity.Course) (*model.Course, error) {
	if c == nil {
		return nil, nil
	}

	modulesJson, err := json.Marshal(c.Modules)
	if err != nil {
		return nil, err
	}

	prereqJson, err := json.Marshal(c.Prerequisites)
	if err != nil {
		return nil, err
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Course{
		Code:          c.Code,
		Title:         c.Title,
		Description:   c.Description,
		Credits:       c.Credits,
		Term:          c.Term,
		Prerequisites: datatypes.JSON(prereqJson),
		Modules:       datatypes.JSON(modulesJson),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     updatedAt,
	}, nil
}
