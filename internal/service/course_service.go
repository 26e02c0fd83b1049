package service

import (
	"context"
	"fmt"
	"time"

	"aia-campus-be/internal/dto"
	"aia-campus-be/internal/entity"
	"aia-campus-be/internal/pkg/serverutils"
	"aia-campus-be/internal/repository/specification"
	"aia-campus-be/internal/repository/unitofwork"

	"github.com/patrickmn/go-cache"
)

type ICourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CreateCourseResponse, error)
	Show(ctx context.Context, code string) (*dto.ShowCourseResponse, error)
	Update(ctx context.Context, req *dto.UpdateCourseRequest) (*dto.UpdateCourseResponse, error)
	Delete(ctx context.Context, code string) error
	List(ctx context.Context) ([]*dto.CourseSummaryResponse, error)
	ToggleTask(ctx context.Context, code, lessonId, taskId string) (*dto.ToggleTaskResponse, error)
}

const courseListCacheKey = "courses:list"

type courseService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *cache.Cache
}

func NewCourseService(uowFactory unitofwork.RepositoryFactory, ttl time.Duration) ICourseService {
	return &courseService{
		uowFactory: uowFactory,
		cache:      cache.New(ttl, 2*ttl),
	}
}

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CreateCourseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.CourseRepository().FindByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: course %s already exists", serverutils.ErrConflict, req.Code)
	}

	course := entity.Course{
		Code:          req.Code,
		Title:         req.Title,
		Description:   req.Description,
		Credits:       req.Credits,
		Term:          req.Term,
		Prerequisites: req.Prerequisites,
		Modules:       req.Modules,
		CreatedAt:     time.Now(),
	}
	if err := uow.CourseRepository().Create(ctx, &course); err != nil {
		return nil, err
	}

	s.cache.Flush()
	return &dto.CreateCourseResponse{Code: course.Code}, nil
}

func (s *courseService) Show(ctx context.Context, code string) (*dto.ShowCourseResponse, error) {
	cacheKey := "courses:" + code
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(*dto.ShowCourseResponse), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	course, err := uow.CourseRepository().FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("%w: course %s", serverutils.ErrNotFound, code)
	}

	res := &dto.ShowCourseResponse{
		Code:          course.Code,
		Title:         course.Title,
		Description:   course.Description,
		Credits:       course.Credits,
		Term:          course.Term,
		Prerequisites: course.Prerequisites,
		Modules:       course.Modules,
		CreatedAt:     course.CreatedAt,
		UpdatedAt:     course.UpdatedAt,
	}
	s.cache.SetDefault(cacheKey, res)
	return res, nil
}

func (s *courseService) Update(ctx context.Context, req *dto.UpdateCourseRequest) (*dto.UpdateCourseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	course, err := uow.CourseRepository().FindByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("%w: course %s", serverutils.ErrNotFound, req.Code)
	}

	now := time.Now()
	course.Title = req.Title
	course.Description = req.Description
	course.Credits = req.Credits
	course.Term = req.Term
	course.Prerequisites = req.Prerequisites
	course.Modules = req.Modules
	course.UpdatedAt = &now

	if err := uow.CourseRepository().Update(ctx, course); err != nil {
		return nil, err
	}

	s.cache.Flush()
	return &dto.UpdateCourseResponse{Code: course.Code}, nil
}

func (s *courseService) Delete(ctx context.Context, code string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	course, err := uow.CourseRepository().FindByCode(ctx, code)
	if err != nil {
		return err
	}
	if course == nil {
		return fmt.Errorf("%w: course %s", serverutils.ErrNotFound, code)
	}

	if err := uow.CourseRepository().Delete(ctx, code); err != nil {
		return err
	}

	s.cache.Flush()
	return nil
}

func (s *courseService) ToggleTask(ctx context.Context, code, lessonId, taskId string) (*dto.ToggleTaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	course, err := uow.CourseRepository().FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("%w: course %s", serverutils.ErrNotFound, code)
	}

	lesson := course.FindLesson(lessonId)
	if lesson == nil {
		return nil, fmt.Errorf("%w: lesson %s in course %s", serverutils.ErrNotFound, lessonId, code)
	}
	task := lesson.FindTask(taskId)
	if task == nil {
		return nil, fmt.Errorf("%w: task %s in lesson %s", serverutils.ErrNotFound, taskId, lessonId)
	}

	// The task lives inside the module tree, so flipping it rewrites the
	// whole aggregate the same way a course update does.
	task.Completed = !task.Completed
	now := time.Now()
	course.UpdatedAt = &now

	if err := uow.CourseRepository().Update(ctx, course); err != nil {
		return nil, err
	}

	s.cache.Flush()
	return &dto.ToggleTaskResponse{
		LessonId:  lesson.Id,
		TaskId:    task.Id,
		Completed: task.Completed,
	}, nil
}

func (s *courseService) List(ctx context.Context) ([]*dto.CourseSummaryResponse, error) {
	if cached, found := s.cache.Get(courseListCacheKey); found {
		return cached.([]*dto.CourseSummaryResponse), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	courses, err := uow.CourseRepository().FindAll(ctx, specification.OrderBy{Field: "code"})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.CourseSummaryResponse, len(courses))
	for i, course := range courses {
		res[i] = &dto.CourseSummaryResponse{
			Code:        course.Code,
			Title:       course.Title,
			Description: course.Description,
			Credits:     course.Credits,
			Term:        course.Term,
			LessonCount: len(course.Lessons()),
		}
	}
	s.cache.SetDefault(courseListCacheKey, res)
	return res, nil
}
