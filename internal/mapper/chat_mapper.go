package mapper

import (
	"encoding/json"

	"aia-campus-be/internal/entity"
	"aia-campus-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session mappers

func (m *ChatMapper) SessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	// The zero UUID is the column sentinel for "no resource".
	var resourceId *uuid.UUID
	if s.ResourceId != uuid.Nil {
		id := s.ResourceId
		resourceId = &id
	}

	return &entity.ChatSession{
		Id:          s.Id,
		UserId:      s.UserId,
		ContextType: entity.ChatContextType(s.ContextType),
		CourseCode:  s.CourseCode,
		LessonId:    s.LessonId,
		ResourceId:  resourceId,
		CreatedAt:   s.CreatedAt,
	}
}

func (m *ChatMapper) SessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	resourceId := uuid.Nil
	if s.ResourceId != nil {
		resourceId = *s.ResourceId
	}

	return &model.ChatSession{
		Id:          s.Id,
		UserId:      s.UserId,
		ContextType: string(s.ContextType),
		CourseCode:  s.CourseCode,
		LessonId:    s.LessonId,
		ResourceId:  resourceId,
		CreatedAt:   s.CreatedAt,
	}
}

// Message mappers

func (m *ChatMapper) MessageToEntity(msg *model.ChatMessage) (*entity.ChatMessage, error) {
	if msg == nil {
		return nil, nil
	}

	var sources []entity.GroundingSource
	if len(msg.Sources) > 0 {
		if err := json.Unmarshal(msg.Sources, &sources); err != nil {
			return nil, err
		}
	}

	return &entity.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Sender:        entity.ChatSender(msg.Sender),
		Content:       msg.Content,
		Sources:       sources,
		IsError:       msg.IsError,
		CreatedAt:     msg.CreatedAt,
	}, nil
}

func (m *ChatMapper) MessageToModel(msg *entity.ChatMessage) (*model.ChatMessage, error) {
	if msg == nil {
		return nil, nil
	}

	var sources datatypes.JSON
	if len(msg.Sources) > 0 {
		raw, err := json.Marshal(msg.Sources)
		if err != nil {
			return nil, err
		}
		sources = datatypes.JSON(raw)
	}

	return &model.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Sender:        string(msg.Sender),
		Content:       msg.Content,
		Sources:       sources,
		IsError:       msg.IsError,
		CreatedAt:     msg.CreatedAt,
	}, nil
}
