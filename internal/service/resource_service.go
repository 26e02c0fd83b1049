package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"aia-campus-be/internal/dto"
	"aia-campus-be/internal/entity"
	"aia-campus-be/internal/pkg/serverutils"
	"aia-campus-be/internal/repository/specification"
	"aia-campus-be/internal/repository/unitofwork"
	"aia-campus-be/pkg/embedding"
	"aia-campus-be/pkg/genai"
	"aia-campus-be/pkg/ingestion"
	"aia-campus-be/pkg/rag"
	"aia-campus-be/pkg/storage"

	"github.com/google/uuid"
)

type IResourceService interface {
	Create(ctx context.Context, req *dto.CreateResourceRequest) (*dto.CreateResourceResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowResourceResponse, error)
	ListByLesson(ctx context.Context, courseCode, lessonId string) ([]*dto.ShowResourceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Retry(ctx context.Context, id uuid.UUID) (*dto.RetryResourceResponse, error)
	SemanticSearch(ctx context.Context, req *dto.SearchResourceRequest) ([]*dto.SearchResourceResponse, error)
	Ask(ctx context.Context, id uuid.UUID, req *dto.AskResourceRequest) (*dto.AskResourceResponse, error)
}

type resourceService struct {
	uowFactory        unitofwork.RepositoryFactory
	publisherService  IPublisherService
	analyzer          *ingestion.Analyzer
	blobStore         storage.BlobStore
	bucket            string
	storeClient       *genai.Client
	ragEngine         *rag.Engine
	embeddingProvider embedding.EmbeddingProvider
}

func NewResourceService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	analyzer *ingestion.Analyzer,
	blobStore storage.BlobStore,
	bucket string,
	storeClient *genai.Client,
	ragEngine *rag.Engine,
	embeddingProvider embedding.EmbeddingProvider,
) IResourceService {
	return &resourceService{
		uowFactory:        uowFactory,
		publisherService:  publisherService,
		analyzer:          analyzer,
		blobStore:         blobStore,
		bucket:            bucket,
		storeClient:       storeClient,
		ragEngine:         ragEngine,
		embeddingProvider: embeddingProvider,
	}
}

func (s *resourceService) Create(ctx context.Context, req *dto.CreateResourceRequest) (*dto.CreateResourceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	course, err := uow.CourseRepository().FindByCode(ctx, req.CourseCode)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("%w: course %s", serverutils.ErrNotFound, req.CourseCode)
	}
	if course.FindLesson(req.LessonId) == nil {
		return nil, fmt.Errorf("%w: lesson %s in course %s", serverutils.ErrNotFound, req.LessonId, req.CourseCode)
	}

	kind := entity.ResourceKind(req.Kind)
	resource := entity.Resource{
		Id:          uuid.New(),
		CourseCode:  req.CourseCode,
		LessonId:    req.LessonId,
		Title:       req.Title,
		Description: req.Description,
		Kind:        kind,
		MimeType:    req.MimeType,
		Status:      entity.ResourceStatusProcessing,
		CreatedAt:   time.Now(),
	}

	if !kind.IsUploadKind() {
		// Link-like kinds have nothing to ingest, they are ready as soon as
		// the row exists.
		if req.URL == "" {
			return nil, fmt.Errorf("kind %s requires a url", req.Kind)
		}
		resource.PublicURL = req.URL
		resource.Status = entity.ResourceStatusProcessed
		if err := uow.ResourceRepository().Create(ctx, &resource); err != nil {
			return nil, err
		}
		return &dto.CreateResourceResponse{Id: resource.Id, Status: string(resource.Status)}, nil
	}

	if req.FileName == "" || req.FileData == "" {
		return nil, fmt.Errorf("kind %s requires file_name and file_data", req.Kind)
	}
	data, err := base64.StdEncoding.DecodeString(req.FileData)
	if err != nil {
		return nil, fmt.Errorf("file_data is not valid base64: %w", err)
	}

	if resource.Title == "" {
		metadata := s.analyzer.AnalyzeUpload(ctx, req.FileName, ingestion.Document{
			MimeType: req.MimeType,
			Data:     data,
		})
		resource.Title = metadata.Title
		if resource.Description == "" {
			resource.Description = metadata.Description
		}
	}

	resource.StoragePath = fmt.Sprintf("%s/%s/%s-%s", req.CourseCode, req.LessonId, resource.Id, req.FileName)
	resource.PublicURL = s.blobStore.PublicURL(s.bucket, resource.StoragePath)

	// Persist first so the row exists in "processing" before any side effect.
	if err := uow.ResourceRepository().Create(ctx, &resource); err != nil {
		return nil, err
	}

	if err := s.blobStore.Upload(ctx, s.bucket, resource.StoragePath, req.MimeType, data); err != nil {
		s.markFailed(ctx, resource.Id)
		return nil, fmt.Errorf("blob upload failed: %w", err)
	}

	if err := s.queueIngestion(ctx, resource.Id); err != nil {
		s.markFailed(ctx, resource.Id)
		return nil, err
	}

	return &dto.CreateResourceResponse{Id: resource.Id, Status: string(resource.Status)}, nil
}

func (s *resourceService) queueIngestion(ctx context.Context, resourceId uuid.UUID) error {
	payload := dto.IngestResourceMessage{ResourceId: resourceId}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payloadJson)
}

func (s *resourceService) markFailed(ctx context.Context, resourceId uuid.UUID) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	resource, err := uow.ResourceRepository().FindOne(ctx, specification.ByID{ID: resourceId})
	if err != nil || resource == nil {
		return
	}
	now := time.Now()
	resource.Status = entity.ResourceStatusFailed
	resource.UpdatedAt = &now
	if err := uow.ResourceRepository().Update(ctx, resource); err != nil {
		fmt.Printf("[WARN] Failed to mark resource %s as failed: %v\n", resourceId, err)
	}
}

func toResourceResponse(resource *entity.Resource) *dto.ShowResourceResponse {
	return &dto.ShowResourceResponse{
		Id:          resource.Id,
		CourseCode:  resource.CourseCode,
		LessonId:    resource.LessonId,
		Title:       resource.Title,
		Description: resource.Description,
		Kind:        string(resource.Kind),
		PublicURL:   resource.PublicURL,
		Status:      string(resource.Status),
		Summary:     resource.Summary,
		Transcript:  resource.Transcript,
		CreatedAt:   resource.CreatedAt,
		UpdatedAt:   resource.UpdatedAt,
	}
}

func (s *resourceService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowResourceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	resource, err := uow.ResourceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, fmt.Errorf("%w: resource %s", serverutils.ErrNotFound, id)
	}
	return toResourceResponse(resource), nil
}

func (s *resourceService) ListByLesson(ctx context.Context, courseCode, lessonId string) ([]*dto.ShowResourceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	resources, err := uow.ResourceRepository().FindAll(ctx,
		specification.ByCourseCode{CourseCode: courseCode},
		specification.ByLessonId{LessonId: lessonId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.ShowResourceResponse, len(resources))
	for i, resource := range resources {
		res[i] = toResourceResponse(resource)
	}
	return res, nil
}

func (s *resourceService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	resource, err := uow.ResourceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if resource == nil {
		return fmt.Errorf("%w: resource %s", serverutils.ErrNotFound, id)
	}

	// External cleanup is best effort, the row removal is what matters.
	if resource.GeminiFileId != "" {
		if err := s.storeClient.DeleteFileSearchStoreDocument(ctx, resource.GeminiFileId); err != nil {
			fmt.Printf("[WARN] Failed to delete store document %s: %v\n", resource.GeminiFileId, err)
		}
	}
	if resource.StoragePath != "" {
		if err := s.blobStore.Delete(ctx, s.bucket, resource.StoragePath); err != nil {
			fmt.Printf("[WARN] Failed to delete blob %s: %v\n", resource.StoragePath, err)
		}
	}
	if err := uow.ResourceEmbeddingRepository().DeleteByResourceId(ctx, id); err != nil {
		return err
	}
	return uow.ResourceRepository().Delete(ctx, id)
}

// Retry starts a fresh processing cycle for a failed resource. Derived
// fields are cleared so the invariant "processing rows carry no artifacts"
// holds again.
func (s *resourceService) Retry(ctx context.Context, id uuid.UUID) (*dto.RetryResourceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	resource, err := uow.ResourceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, fmt.Errorf("%w: resource %s", serverutils.ErrNotFound, id)
	}
	if resource.Status != entity.ResourceStatusFailed {
		return nil, fmt.Errorf("%w: resource %s is %s, only failed resources can be retried",
			serverutils.ErrConflict, id, resource.Status)
	}

	now := time.Now()
	resource.Status = entity.ResourceStatusProcessing
	resource.GeminiFileId = ""
	resource.GeminiStoreId = ""
	resource.Summary = ""
	resource.Transcript = ""
	resource.UpdatedAt = &now
	if err := uow.ResourceRepository().Update(ctx, resource); err != nil {
		return nil, err
	}

	if err := s.queueIngestion(ctx, resource.Id); err != nil {
		s.markFailed(ctx, resource.Id)
		return nil, err
	}
	return &dto.RetryResourceResponse{Id: resource.Id, Status: string(resource.Status)}, nil
}

func (s *resourceService) SemanticSearch(ctx context.Context, req *dto.SearchResourceRequest) ([]*dto.SearchResourceResponse, error) {
	queryEmbedding, err := s.embeddingProvider.Generate(req.Query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.ResourceEmbeddingRepository().SearchSimilarWithScore(
		ctx, queryEmbedding.Embedding.Values, req.Limit, req.CourseCode, 0.3)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.SearchResourceResponse, len(scored))
	for i, hit := range scored {
		res[i] = &dto.SearchResourceResponse{
			ResourceId: hit.Embedding.ResourceId,
			Document:   hit.Embedding.Document,
			Similarity: hit.Similarity,
		}
	}
	return res, nil
}

// Ask answers a one-off question scoped to a single resource, outside any
// chat session. Processed resources go through retrieval; uploads that are
// not indexed yet are sent to the model inline together with the question.
func (s *resourceService) Ask(ctx context.Context, id uuid.UUID, req *dto.AskResourceRequest) (*dto.AskResourceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	resource, err := uow.ResourceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, fmt.Errorf("%w: resource %s", serverutils.ErrNotFound, id)
	}

	if resource.Status == entity.ResourceStatusProcessed {
		answer, err := s.ragEngine.Answer(ctx, rag.Scope{
			Mode:              rag.ModeResource,
			CourseCode:        resource.CourseCode,
			ResourceId:        resource.Id.String(),
			SystemInstruction: mediaAssistantInstruction(resource.Title),
		}, nil, req.Question)
		if err != nil {
			return nil, err
		}

		sources := make([]dto.GroundingSourcePayload, len(answer.Sources))
		for i, source := range answer.Sources {
			sources[i] = dto.GroundingSourcePayload{Title: source.Title, URI: source.URI}
		}
		return &dto.AskResourceResponse{Answer: answer.Text, Sources: sources}, nil
	}

	if resource.StoragePath == "" {
		return nil, fmt.Errorf("%w: resource %s has no document to analyze", serverutils.ErrConflict, id)
	}
	return s.askDocument(ctx, resource, req.Question)
}

// askDocument answers directly against the stored file, used while the
// retrieval index is still being built or after it failed.
func (s *resourceService) askDocument(ctx context.Context, resource *entity.Resource, question string) (*dto.AskResourceResponse, error) {
	data, err := s.blobStore.Download(ctx, s.bucket, resource.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("blob download failed: %w", err)
	}

	answer, err := s.analyzer.AnalyzeDocument(ctx, ingestion.Document{
		MimeType: resource.MimeType,
		Data:     data,
	}, question)
	if err != nil {
		return nil, err
	}
	return &dto.AskResourceResponse{Answer: answer, Sources: []dto.GroundingSourcePayload{}}, nil
}
