package service

import (
	"context"
	"fmt"
	"time"

	"aia-campus-be/internal/dto"
	"aia-campus-be/internal/pkg/logger"
	"aia-campus-be/pkg/events"
	pktNats "aia-campus-be/pkg/nats"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userId string, notice dto.NoticePayload)
	Broadcast(notice dto.NoticePayload)
}

// NotificationService bridges the NATS event bus to connected websocket
// clients. It holds no state of its own, delivery is push-only.
type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("campus.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to campus.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	s.logger.Info("NotificationService", fmt.Sprintf("Processing event: %s", event.EventType()), map[string]interface{}{"type": event.EventType()})

	if s.delivery == nil {
		return nil
	}

	notice := dto.NoticePayload{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: time.Now(),
	}

	switch event.EventType() {
	case events.TypeResourceProcessed, events.TypeResourceFailed:
		// Everyone looking at the course sees the status flip.
		s.delivery.Broadcast(notice)

	case events.TypeLessonViewed:
		if userId, ok := event.Payload()["user_id"].(string); ok && userId != "" {
			s.delivery.Send(userId, notice)
		} else {
			s.logger.Warn("NotificationService", "LESSON_VIEWED event without user_id", nil)
		}

	default:
		s.logger.Info("NotificationService", fmt.Sprintf("No delivery rule for event %s, broadcasting", event.EventType()), nil)
		s.delivery.Broadcast(notice)
	}

	return nil
}
