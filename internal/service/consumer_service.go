package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"aia-campus-be/internal/dto"
	"aia-campus-be/internal/entity"
	"aia-campus-be/internal/repository/specification"
	"aia-campus-be/internal/repository/unitofwork"
	"aia-campus-be/pkg/embedding"
	"aia-campus-be/pkg/events"
	"aia-campus-be/pkg/ingestion"
	pktNats "aia-campus-be/pkg/nats"
	"aia-campus-be/pkg/storage"
	"aia-campus-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	pipeline          *ingestion.Pipeline
	blobStore         storage.BlobStore
	bucket            string
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	pipeline *ingestion.Pipeline,
	blobStore storage.BlobStore,
	bucket string,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		pipeline:          pipeline,
		blobStore:         blobStore,
		bucket:            bucket,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.IngestResourceMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingestion message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing ingestion for ResourceId: %s", payload.ResourceId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	resource, err := uow.ResourceRepository().FindOne(ctx, specification.ByID{ID: payload.ResourceId})
	if err != nil {
		log.Printf("[ERROR] Failed to get resource %s: %v", payload.ResourceId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if resource == nil {
		log.Printf("[ERROR] Resource not found: %s", payload.ResourceId)
		msg.Ack() // Resource deleted? Ack.
		return
	}
	if resource.Status != entity.ResourceStatusProcessing {
		// Stale message from before a retry or delete. The status machine
		// only moves forward, so there is nothing left to do.
		log.Printf("[INFO] Resource %s is %s, skipping", resource.Id, resource.Status)
		msg.Ack()
		return
	}

	data, err := cs.blobStore.Download(ctx, cs.bucket, resource.StoragePath)
	if err != nil {
		log.Printf("[ERROR] Failed to download blob %s: %v", resource.StoragePath, err)
		cs.fail(ctx, resource, fmt.Sprintf("blob download failed: %v", err))
		msg.Ack()
		return
	}

	result, err := cs.pipeline.Process(ctx, ingestion.Input{
		CourseCode: resource.CourseCode,
		ResourceId: resource.Id.String(),
		Title:      resource.Title,
		MimeType:   resource.MimeType,
		Data:       data,
	})
	if err != nil {
		log.Printf("[ERROR] Ingestion failed for resource %s: %v", resource.Id, err)
		cs.fail(ctx, resource, err.Error())
		msg.Ack()
		return
	}

	// All derived fields land in one update so readers never observe a
	// half-processed row.
	now := time.Now()
	resource.Status = entity.ResourceStatusProcessed
	resource.GeminiFileId = result.GeminiFileId
	resource.GeminiStoreId = result.GeminiStoreId
	resource.Summary = result.Summary
	resource.Transcript = result.Transcript
	resource.UpdatedAt = &now
	if err := uow.ResourceRepository().Update(ctx, resource); err != nil {
		log.Printf("[ERROR] Failed to mark resource %s processed: %v", resource.Id, err)
		msg.Nack()
		return
	}

	if err := cs.indexTranscript(ctx, resource); err != nil {
		// The resource itself is usable without local embeddings, semantic
		// search just won't surface it until a retry reindexes.
		log.Printf("[WARN] Failed to index transcript for resource %s: %v", resource.Id, err)
	}

	if cs.eventPublisher != nil {
		evt := events.NewResourceProcessed(resource.Id.String(), resource.CourseCode, resource.LessonId)
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish RESOURCE_PROCESSED event: %v", err)
		}
	}

	log.Printf("[SUCCESS] Resource processed: %s", resource.Id)
	msg.Ack()
}

// indexTranscript chunks the derived transcript and stores pgvector
// embeddings for semantic search, replacing any previous index.
func (cs *consumerService) indexTranscript(ctx context.Context, resource *entity.Resource) error {
	content := fmt.Sprintf("Resource Title: %s\n\n%s", resource.Title, resource.Transcript)

	// ChunkSize: 1500 chars (approx 375 tokens), overlap 200 chars
	chunks := utils.SplitText(content, 1500, 200)
	log.Printf("[INFO] Transcript split into %d chunks", len(chunks))

	var newEmbeddings []*entity.ResourceEmbedding
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			return fmt.Errorf("generate embedding for chunk %d: %w", i, err)
		}
		newEmbeddings = append(newEmbeddings, &entity.ResourceEmbedding{
			Id:             uuid.New(),
			ResourceId:     resource.Id,
			CourseCode:     resource.CourseCode,
			Document:       chunk,
			EmbeddingValue: res.Embedding.Values,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ResourceEmbeddingRepository().DeleteByResourceId(ctx, resource.Id); err != nil {
		return err
	}
	if len(newEmbeddings) > 0 {
		if err := uow.ResourceEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			return err
		}
	}
	return uow.Commit()
}

func (cs *consumerService) fail(ctx context.Context, resource *entity.Resource, reason string) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()
	resource.Status = entity.ResourceStatusFailed
	resource.UpdatedAt = &now
	if err := uow.ResourceRepository().Update(ctx, resource); err != nil {
		log.Printf("[ERROR] Failed to mark resource %s as failed: %v", resource.Id, err)
	}

	if cs.eventPublisher != nil {
		evt := events.NewResourceFailed(resource.Id.String(), resource.CourseCode, reason)
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish RESOURCE_FAILED event: %v", err)
		}
	}
}
