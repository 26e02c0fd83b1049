package contract

import (
	"context"

	"aia-campus-be/internal/entity"
	"aia-campus-be/internal/repository/specification"
)

type ProgressRepository interface {
	Create(ctx context.Context, progress *entity.CourseProgress) error
	Update(ctx context.Context, progress *entity.CourseProgress) error
	FindByUserAndCourse(ctx context.Context, userId, courseCode string) (*entity.CourseProgress, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CourseProgress, error)
}
