package service

import (
	"context"

	"aia-campus-be/internal/repository/unitofwork"
	"aia-campus-be/pkg/genai"
	"aia-campus-be/pkg/live"
)

type ILiveService interface {
	// NewSession creates an idle adapter for one websocket connection.
	NewSession() *live.Adapter
	// InstructionFor builds the voice tutor system instruction for a lesson.
	InstructionFor(ctx context.Context, courseCode, lessonId string) (string, error)
}

type liveService struct {
	uowFactory unitofwork.RepositoryFactory
	dialer     genai.LiveDialer
	model      string
}

func NewLiveService(uowFactory unitofwork.RepositoryFactory, dialer genai.LiveDialer, model string) ILiveService {
	return &liveService{
		uowFactory: uowFactory,
		dialer:     dialer,
		model:      model,
	}
}

func (s *liveService) NewSession() *live.Adapter {
	return live.NewAdapter(s.dialer, s.model)
}

func (s *liveService) InstructionFor(ctx context.Context, courseCode, lessonId string) (string, error) {
	courseTitle := courseCode
	lessonTitle := lessonId

	uow := s.uowFactory.NewUnitOfWork(ctx)
	course, err := uow.CourseRepository().FindByCode(ctx, courseCode)
	if err != nil {
		return "", err
	}
	if course != nil {
		courseTitle = course.Title
		if lesson := course.FindLesson(lessonId); lesson != nil {
			lessonTitle = lesson.Title
		}
	}

	return liveTutorInstruction(courseTitle, lessonTitle), nil
}
