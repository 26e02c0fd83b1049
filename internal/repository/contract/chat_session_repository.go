package contract

import (
	"context"

	"aia-campus-be/internal/entity"
	"aia-campus-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)
	// Resolve returns the existing session for the scope tuple or inserts a
	// new one. Concurrent calls with the same tuple converge on a single row
	// via the unique index on (user_id, context_type, course_code, lesson_id,
	// resource_id).
	Resolve(ctx context.Context, session *entity.ChatSession) error
}
