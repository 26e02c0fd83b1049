package unitofwork

import (
	"context"

	"aia-campus-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	CourseRepository() contract.CourseRepository
	ResourceRepository() contract.ResourceRepository
	ResourceEmbeddingRepository() contract.ResourceEmbeddingRepository

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ProgressRepository() contract.ProgressRepository
}
