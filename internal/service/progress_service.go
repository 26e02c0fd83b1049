package service

import (
	"context"
	"fmt"
	"time"

	"aia-campus-be/internal/dto"
	"aia-campus-be/internal/entity"
	"aia-campus-be/internal/pkg/serverutils"
	"aia-campus-be/internal/repository/unitofwork"
	"aia-campus-be/pkg/events"
	pktNats "aia-campus-be/pkg/nats"

	"github.com/google/uuid"
)

type IProgressService interface {
	Start(ctx context.Context, userId string, req *dto.StartCourseRequest) (*dto.ProgressResponse, error)
	MarkLessonViewed(ctx context.Context, userId string, req *dto.MarkLessonViewedRequest) (*dto.ProgressResponse, error)
	Show(ctx context.Context, userId, courseCode string) (*dto.ProgressResponse, error)
}

type progressService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
}

func NewProgressService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher) IProgressService {
	return &progressService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

func (s *progressService) response(progress *entity.CourseProgress, lessonCount int) *dto.ProgressResponse {
	percent := 0.0
	if lessonCount > 0 {
		percent = float64(len(progress.ViewedLessons)) / float64(lessonCount) * 100
	}
	return &dto.ProgressResponse{
		CourseCode:    progress.CourseCode,
		Started:       progress.Started,
		ViewedLessons: progress.ViewedLessons,
		LessonCount:   lessonCount,
		Percent:       percent,
	}
}

func (s *progressService) loadCourse(ctx context.Context, uow unitofwork.UnitOfWork, courseCode string) (*entity.Course, error) {
	course, err := uow.CourseRepository().FindByCode(ctx, courseCode)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("%w: course %s", serverutils.ErrNotFound, courseCode)
	}
	return course, nil
}

// Start records that the student opened the course. Idempotent.
func (s *progressService) Start(ctx context.Context, userId string, req *dto.StartCourseRequest) (*dto.ProgressResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	course, err := s.loadCourse(ctx, uow, req.CourseCode)
	if err != nil {
		return nil, err
	}

	progress, err := uow.ProgressRepository().FindByUserAndCourse(ctx, userId, req.CourseCode)
	if err != nil {
		return nil, err
	}

	if progress == nil {
		progress = &entity.CourseProgress{
			Id:            uuid.New(),
			UserId:        userId,
			CourseCode:    req.CourseCode,
			Started:       true,
			ViewedLessons: []string{},
			CreatedAt:     time.Now(),
		}
		if err := uow.ProgressRepository().Create(ctx, progress); err != nil {
			return nil, err
		}
	} else if !progress.Started {
		now := time.Now()
		progress.Started = true
		progress.UpdatedAt = &now
		if err := uow.ProgressRepository().Update(ctx, progress); err != nil {
			return nil, err
		}
	}

	return s.response(progress, len(course.Lessons())), nil
}

// MarkLessonViewed adds the lesson to the viewed set. Re-viewing is a no-op.
func (s *progressService) MarkLessonViewed(ctx context.Context, userId string, req *dto.MarkLessonViewedRequest) (*dto.ProgressResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	course, err := s.loadCourse(ctx, uow, req.CourseCode)
	if err != nil {
		return nil, err
	}
	if course.FindLesson(req.LessonId) == nil {
		return nil, fmt.Errorf("%w: lesson %s in course %s", serverutils.ErrNotFound, req.LessonId, req.CourseCode)
	}

	progress, err := uow.ProgressRepository().FindByUserAndCourse(ctx, userId, req.CourseCode)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if progress == nil {
		progress = &entity.CourseProgress{
			Id:            uuid.New(),
			UserId:        userId,
			CourseCode:    req.CourseCode,
			Started:       true,
			ViewedLessons: []string{req.LessonId},
			CreatedAt:     now,
		}
		if err := uow.ProgressRepository().Create(ctx, progress); err != nil {
			return nil, err
		}
	} else if !progress.HasViewed(req.LessonId) {
		progress.Started = true
		progress.ViewedLessons = append(progress.ViewedLessons, req.LessonId)
		progress.UpdatedAt = &now
		if err := uow.ProgressRepository().Update(ctx, progress); err != nil {
			return nil, err
		}
	}

	if s.eventPublisher != nil {
		evt := events.NewLessonViewed(userId, req.CourseCode, req.LessonId)
		// Notification fan-out is auxiliary, never fail the request on it
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish LESSON_VIEWED event: %v\n", err)
		}
	}

	return s.response(progress, len(course.Lessons())), nil
}

func (s *progressService) Show(ctx context.Context, userId, courseCode string) (*dto.ProgressResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	course, err := s.loadCourse(ctx, uow, courseCode)
	if err != nil {
		return nil, err
	}

	progress, err := uow.ProgressRepository().FindByUserAndCourse(ctx, userId, courseCode)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = &entity.CourseProgress{
			UserId:        userId,
			CourseCode:    courseCode,
			Started:       false,
			ViewedLessons: []string{},
		}
	}
	return s.response(progress, len(course.Lessons())), nil
}
