package contract

import (
	"context"

	"aia-campus-be/internal/entity"
	"aia-campus-be/internal/repository/specification"
)

type CourseRepository interface {
	Create(ctx context.Context, course *entity.Course) error
	Update(ctx context.Context, course *entity.Course) error
	Delete(ctx context.Context, code string) error
	FindByCode(ctx context.Context, code string) (*entity.Course, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Course, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
