package service

import (
	"context"
	"errors"

	"aia-campus-be/internal/entity"
	"aia-campus-be/internal/repository/contract"
	"aia-campus-be/internal/repository/specification"
	"aia-campus-be/internal/repository/unitofwork"
	"aia-campus-be/pkg/embedding"
	"aia-campus-be/pkg/genai"
	"aia-campus-be/pkg/rag"

	"github.com/google/uuid"
)

// In-memory repositories backing service tests. One fakeUnitOfWork per test,
// handed out by fakeFactory for every NewUnitOfWork call so state persists
// across service-internal unit of work creations.

type fakeCourseRepo struct {
	courses map[string]*entity.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[string]*entity.Course{}}
}

func (r *fakeCourseRepo) Create(ctx context.Context, course *entity.Course) error {
	r.courses[course.Code] = course
	return nil
}

func (r *fakeCourseRepo) Update(ctx context.Context, course *entity.Course) error {
	r.courses[course.Code] = course
	return nil
}

func (r *fakeCourseRepo) Delete(ctx context.Context, code string) error {
	delete(r.courses, code)
	return nil
}

func (r *fakeCourseRepo) FindByCode(ctx context.Context, code string) (*entity.Course, error) {
	return r.courses[code], nil
}

func (r *fakeCourseRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Course, error) {
	out := make([]*entity.Course, 0, len(r.courses))
	for _, course := range r.courses {
		out = append(out, course)
	}
	return out, nil
}

func (r *fakeCourseRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.courses)), nil
}

type fakeResourceRepo struct {
	resources map[uuid.UUID]*entity.Resource
	updates   []entity.Resource
}

func newFakeResourceRepo() *fakeResourceRepo {
	return &fakeResourceRepo{resources: map[uuid.UUID]*entity.Resource{}}
}

func (r *fakeResourceRepo) Create(ctx context.Context, resource *entity.Resource) error {
	copied := *resource
	r.resources[resource.Id] = &copied
	return nil
}

func (r *fakeResourceRepo) Update(ctx context.Context, resource *entity.Resource) error {
	copied := *resource
	r.resources[resource.Id] = &copied
	r.updates = append(r.updates, copied)
	return nil
}

func (r *fakeResourceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.resources, id)
	return nil
}

func (r *fakeResourceRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Resource, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if resource, found := r.resources[byID.ID]; found {
				copied := *resource
				return &copied, nil
			}
			return nil, nil
		}
	}
	return nil, errors.New("fakeResourceRepo: unsupported specification")
}

func (r *fakeResourceRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Resource, error) {
	out := make([]*entity.Resource, 0, len(r.resources))
	for _, resource := range r.resources {
		copied := *resource
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeResourceRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.resources)), nil
}

type fakeEmbeddingRepo struct {
	embeddings []*entity.ResourceEmbedding
	deleted    []uuid.UUID
}

func (r *fakeEmbeddingRepo) CreateBulk(ctx context.Context, embeddings []*entity.ResourceEmbedding) error {
	r.embeddings = append(r.embeddings, embeddings...)
	return nil
}

func (r *fakeEmbeddingRepo) DeleteByResourceId(ctx context.Context, resourceId uuid.UUID) error {
	r.deleted = append(r.deleted, resourceId)
	return nil
}

func (r *fakeEmbeddingRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResourceEmbedding, error) {
	return r.embeddings, nil
}

func (r *fakeEmbeddingRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.embeddings)), nil
}

func (r *fakeEmbeddingRepo) SearchSimilar(ctx context.Context, embeddingValue []float32, limit int, courseCode string) ([]*entity.ResourceEmbedding, error) {
	return r.embeddings, nil
}

func (r *fakeEmbeddingRepo) SearchSimilarWithScore(ctx context.Context, embeddingValue []float32, limit int, courseCode string, threshold float64) ([]*contract.ScoredResourceEmbedding, error) {
	out := make([]*contract.ScoredResourceEmbedding, 0, len(r.embeddings))
	for _, e := range r.embeddings {
		out = append(out, &contract.ScoredResourceEmbedding{Embedding: e, Similarity: 0.9})
	}
	return out, nil
}

type fakeSessionRepo struct {
	sessions []*entity.ChatSession
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	copied := *session
	r.sessions = append(r.sessions, &copied)
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, s := range r.sessions {
		if s.Id == id {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			for _, s := range r.sessions {
				if s.Id == byID.ID {
					copied := *s
					return &copied, nil
				}
			}
			return nil, nil
		}
	}
	return nil, errors.New("fakeSessionRepo: unsupported specification")
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	return r.sessions, nil
}

func sameScope(a, b *entity.ChatSession) bool {
	if a.UserId != b.UserId || a.ContextType != b.ContextType ||
		a.CourseCode != b.CourseCode || a.LessonId != b.LessonId {
		return false
	}
	if (a.ResourceId == nil) != (b.ResourceId == nil) {
		return false
	}
	return a.ResourceId == nil || *a.ResourceId == *b.ResourceId
}

func (r *fakeSessionRepo) Resolve(ctx context.Context, session *entity.ChatSession) error {
	for _, existing := range r.sessions {
		if sameScope(existing, session) {
			*session = *existing
			return nil
		}
	}
	copied := *session
	r.sessions = append(r.sessions, &copied)
	return nil
}

type fakeMessageRepo struct {
	messages  []*entity.ChatMessage
	createErr error
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	if r.createErr != nil {
		return r.createErr
	}
	copied := *message
	r.messages = append(r.messages, &copied)
	return nil
}

func (r *fakeMessageRepo) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.ChatSessionId != sessionId {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var sessionId *uuid.UUID
	for _, spec := range specs {
		if bySession, ok := spec.(specification.BySessionId); ok {
			id := bySession.SessionId
			sessionId = &id
		}
	}
	out := []*entity.ChatMessage{}
	for _, m := range r.messages {
		if sessionId == nil || m.ChatSessionId == *sessionId {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.messages)), nil
}

type fakeProgressRepo struct {
	rows []*entity.CourseProgress
}

func (r *fakeProgressRepo) Create(ctx context.Context, progress *entity.CourseProgress) error {
	copied := *progress
	r.rows = append(r.rows, &copied)
	return nil
}

func (r *fakeProgressRepo) Update(ctx context.Context, progress *entity.CourseProgress) error {
	for i, row := range r.rows {
		if row.Id == progress.Id {
			copied := *progress
			r.rows[i] = &copied
			return nil
		}
	}
	return errors.New("fakeProgressRepo: row not found")
}

func (r *fakeProgressRepo) FindByUserAndCourse(ctx context.Context, userId, courseCode string) (*entity.CourseProgress, error) {
	for _, row := range r.rows {
		if row.UserId == userId && row.CourseCode == courseCode {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeProgressRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CourseProgress, error) {
	return r.rows, nil
}

type fakeUnitOfWork struct {
	courses    *fakeCourseRepo
	resources  *fakeResourceRepo
	embeddings *fakeEmbeddingRepo
	sessions   *fakeSessionRepo
	messages   *fakeMessageRepo
	progress   *fakeProgressRepo
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		courses:    newFakeCourseRepo(),
		resources:  newFakeResourceRepo(),
		embeddings: &fakeEmbeddingRepo{},
		sessions:   &fakeSessionRepo{},
		messages:   &fakeMessageRepo{},
		progress:   &fakeProgressRepo{},
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) CourseRepository() contract.CourseRepository       { return u.courses }
func (u *fakeUnitOfWork) ResourceRepository() contract.ResourceRepository   { return u.resources }
func (u *fakeUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository {
	return u.sessions
}
func (u *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return u.messages
}
func (u *fakeUnitOfWork) ProgressRepository() contract.ProgressRepository { return u.progress }
func (u *fakeUnitOfWork) ResourceEmbeddingRepository() contract.ResourceEmbeddingRepository {
	return u.embeddings
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func newFakeFactory() (*fakeFactory, *fakeUnitOfWork) {
	uow := newFakeUnitOfWork()
	return &fakeFactory{uow: uow}, uow
}

// Supporting fakes for the AI plumbing.

type fakePublisher struct {
	payloads [][]byte
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

type fakeBlobStore struct {
	uploads   map[string][]byte
	uploadErr error
	deleted   []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploads: map[string][]byte{}}
}

func (s *fakeBlobStore) Upload(ctx context.Context, bucket, path, mimeType string, data []byte) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.uploads[path] = data
	return nil
}

func (s *fakeBlobStore) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	data, ok := s.uploads[path]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return data, nil
}

func (s *fakeBlobStore) Delete(ctx context.Context, bucket, path string) error {
	s.deleted = append(s.deleted, path)
	delete(s.uploads, path)
	return nil
}

func (s *fakeBlobStore) PublicURL(bucket, path string) string {
	return "https://files.test/" + bucket + "/" + path
}

type fakeEmbeddingProvider struct{}

func (p *fakeEmbeddingProvider) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

// testCourse builds a course with one lesson, the shape most tests need.
func testCourse(code, lessonId string) *entity.Course {
	return &entity.Course{
		Code:  code,
		Title: "Course " + code,
		Modules: []entity.CourseModule{{
			Id:    "m1",
			Title: "Module 1",
			Units: []entity.Unit{{
				Id:    "u1",
				Title: "Unit 1",
				Lessons: []entity.Lesson{{
					Id:    lessonId,
					Title: "Lesson " + lessonId,
				}},
			}},
		}},
	}
}

// fakeRagGenerator backs a rag.Engine with scripted output. Set blocked to
// simulate a safety stop, err for transport failures.
type fakeRagGenerator struct {
	text        string
	blocked     bool
	err         error
	lastRequest *genai.GenerateRequest
}

func (g *fakeRagGenerator) GenerateContent(ctx context.Context, model string, request *genai.GenerateRequest) (*genai.GenerateResponse, error) {
	g.lastRequest = request
	if g.err != nil {
		return nil, g.err
	}
	if g.blocked {
		return &genai.GenerateResponse{
			PromptFeedback: &genai.PromptFeedback{BlockReason: "SAFETY"},
		}, nil
	}
	return &genai.GenerateResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: g.text}}},
		}},
	}, nil
}

func newTestEngine(generator *fakeRagGenerator) *rag.Engine {
	return rag.NewEngine(generator, "test-model")
}
