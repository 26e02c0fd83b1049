package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aia-campus-be/internal/dto"
	"aia-campus-be/internal/entity"
	"aia-campus-be/internal/pkg/serverutils"
	"aia-campus-be/internal/repository/specification"
	"aia-campus-be/internal/repository/unitofwork"
	"aia-campus-be/pkg/rag"

	"github.com/google/uuid"
)

type IChatService interface {
	ResolveSession(ctx context.Context, userId string, req *dto.ResolveSessionRequest) (*dto.ResolveSessionResponse, error)
	History(ctx context.Context, userId string, sessionId uuid.UUID) (*dto.ChatHistoryResponse, error)
	Send(ctx context.Context, userId string, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	ragEngine  *rag.Engine
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, ragEngine *rag.Engine) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		ragEngine:  ragEngine,
	}
}

// ResolveSession finds or creates the one session for the caller's scope
// tuple. Calling it twice with the same tuple returns the same session.
func (s *chatService) ResolveSession(ctx context.Context, userId string, req *dto.ResolveSessionRequest) (*dto.ResolveSessionResponse, error) {
	contextType := entity.ChatContextType(req.ContextType)

	switch contextType {
	case entity.ContextCourseTutor:
		if req.CourseCode == "" {
			return nil, fmt.Errorf("course_tutor sessions require a course_code")
		}
	case entity.ContextMediaAssistant:
		if req.CourseCode == "" || req.ResourceId == nil {
			return nil, fmt.Errorf("media_assistant sessions require a course_code and resource_id")
		}
	}

	session := entity.ChatSession{
		Id:          uuid.New(),
		UserId:      userId,
		ContextType: contextType,
		CourseCode:  req.CourseCode,
		LessonId:    req.LessonId,
		ResourceId:  req.ResourceId,
		CreatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Resolve(ctx, &session); err != nil {
		return nil, err
	}

	return &dto.ResolveSessionResponse{
		SessionId:   session.Id,
		ContextType: string(session.ContextType),
		CreatedAt:   session.CreatedAt,
	}, nil
}

func (s *chatService) loadSession(ctx context.Context, uow unitofwork.UnitOfWork, userId string, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserId != userId {
		return nil, fmt.Errorf("%w: session not found or access denied", serverutils.ErrNotFound)
	}
	return session, nil
}

func toMessagePayload(message *entity.ChatMessage) dto.ChatMessagePayload {
	sources := make([]dto.GroundingSourcePayload, len(message.Sources))
	for i, source := range message.Sources {
		sources[i] = dto.GroundingSourcePayload{Title: source.Title, URI: source.URI}
	}
	return dto.ChatMessagePayload{
		Id:        message.Id,
		Sender:    string(message.Sender),
		Content:   message.Content,
		Sources:   sources,
		IsError:   message.IsError,
		CreatedAt: message.CreatedAt,
	}
}

func (s *chatService) History(ctx context.Context, userId string, sessionId uuid.UUID) (*dto.ChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := s.loadSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.BySessionId{SessionId: session.Id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	payloads := make([]dto.ChatMessagePayload, len(messages))
	for i, message := range messages {
		payloads[i] = toMessagePayload(message)
	}
	return &dto.ChatHistoryResponse{SessionId: session.Id, Messages: payloads}, nil
}

// scopeFor maps a session onto a retrieval scope, pulling display names for
// the system instruction from the owning course/resource rows.
func (s *chatService) scopeFor(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession) (rag.Scope, error) {
	switch session.ContextType {
	case entity.ContextProgramAssistant:
		return rag.Scope{
			Mode:              rag.ModeOpen,
			SystemInstruction: programAssistantInstruction,
		}, nil

	case entity.ContextCourseTutor:
		courseTitle := session.CourseCode
		course, err := uow.CourseRepository().FindByCode(ctx, session.CourseCode)
		if err != nil {
			return rag.Scope{}, err
		}
		if course != nil {
			courseTitle = course.Title
		}
		return rag.Scope{
			Mode:              rag.ModeCourse,
			CourseCode:        session.CourseCode,
			SystemInstruction: courseTutorInstruction(courseTitle),
		}, nil

	case entity.ContextMediaAssistant:
		if session.ResourceId == nil {
			return rag.Scope{}, fmt.Errorf("media_assistant session %s has no resource", session.Id)
		}
		resourceTitle := session.ResourceId.String()
		resource, err := uow.ResourceRepository().FindOne(ctx, specification.ByID{ID: *session.ResourceId})
		if err != nil {
			return rag.Scope{}, err
		}
		if resource != nil {
			resourceTitle = resource.Title
		}
		return rag.Scope{
			Mode:              rag.ModeResource,
			CourseCode:        session.CourseCode,
			ResourceId:        session.ResourceId.String(),
			SystemInstruction: mediaAssistantInstruction(resourceTitle),
		}, nil
	}
	return rag.Scope{}, fmt.Errorf("unknown context type %q", session.ContextType)
}

// Send appends the user message, runs the scoped generation, then appends
// the model (or error) answer. The two messages are persisted individually,
// a failure on one never rolls back the other, and log order always equals
// send order.
func (s *chatService) Send(ctx context.Context, userId string, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := s.loadSession(ctx, uow, userId, req.SessionId)
	if err != nil {
		return nil, err
	}

	history, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.BySessionId{SessionId: session.Id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Sender:        entity.SenderUser,
		Content:       req.Message,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		fmt.Printf("[WARN] Failed to persist user message for session %s: %v\n", session.Id, err)
	}

	scope, err := s.scopeFor(ctx, uow, session)
	if err != nil {
		return nil, err
	}

	turns := make([]rag.Turn, 0, len(history))
	for _, message := range history {
		if message.IsError {
			continue
		}
		role := "user"
		if message.Sender == entity.SenderModel {
			role = "model"
		}
		turns = append(turns, rag.Turn{Role: role, Text: message.Content})
	}

	answer, genErr := s.ragEngine.Answer(ctx, scope, turns, req.Message)

	modelMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Sender:        entity.SenderModel,
		CreatedAt:     time.Now(),
	}
	if genErr != nil {
		modelMessage.IsError = true
		if errors.Is(genErr, rag.ErrSafetyBlocked) {
			modelMessage.Content = safetyBlockedMessage
		} else {
			modelMessage.Content = unavailableMessage
		}
	} else {
		modelMessage.Content = answer.Text
		modelMessage.Sources = make([]entity.GroundingSource, len(answer.Sources))
		for i, source := range answer.Sources {
			modelMessage.Sources[i] = entity.GroundingSource{Title: source.Title, URI: source.URI}
		}
	}

	if err := uow.ChatMessageRepository().Create(ctx, &modelMessage); err != nil {
		fmt.Printf("[WARN] Failed to persist model message for session %s: %v\n", session.Id, err)
	}

	payload := toMessagePayload(&modelMessage)
	return &dto.SendChatResponse{
		MessageId: modelMessage.Id,
		Content:   modelMessage.Content,
		Sources:   payload.Sources,
		IsError:   modelMessage.IsError,
	}, nil
}
