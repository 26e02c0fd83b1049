package service

import (
	"context"
	"testing"

	"aia-campus-be/internal/dto"
	"aia-campus-be/pkg/events"
)

type fakeDelivery struct {
	sent      map[string][]dto.NoticePayload
	broadcast []dto.NoticePayload
}

func newFakeDelivery() *fakeDelivery {
	return &fakeDelivery{sent: map[string][]dto.NoticePayload{}}
}

func (d *fakeDelivery) Send(userId string, notice dto.NoticePayload) {
	d.sent[userId] = append(d.sent[userId], notice)
}

func (d *fakeDelivery) Broadcast(notice dto.NoticePayload) {
	d.broadcast = append(d.broadcast, notice)
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func TestHandleEventRouting(t *testing.T) {
	t.Run("resource events broadcast", func(t *testing.T) {
		delivery := newFakeDelivery()
		svc := NewNotificationService(nil, delivery, nopLogger{})

		evt := events.NewResourceProcessed("res-1", "AIA-101", "l1")
		if err := svc.handleEvent(context.Background(), evt); err != nil {
			t.Fatalf("handleEvent() error = %v", err)
		}
		if len(delivery.broadcast) != 1 {
			t.Fatalf("broadcast count = %d, want 1", len(delivery.broadcast))
		}
		if delivery.broadcast[0].Type != events.TypeResourceProcessed {
			t.Errorf("notice type = %q", delivery.broadcast[0].Type)
		}
		if len(delivery.sent) != 0 {
			t.Error("resource events must not target a single user")
		}
	})

	t.Run("lesson viewed targets the viewer", func(t *testing.T) {
		delivery := newFakeDelivery()
		svc := NewNotificationService(nil, delivery, nopLogger{})

		evt := events.NewLessonViewed("student", "AIA-101", "l1")
		if err := svc.handleEvent(context.Background(), evt); err != nil {
			t.Fatalf("handleEvent() error = %v", err)
		}
		if len(delivery.sent["student"]) != 1 {
			t.Errorf("sent to student = %d, want 1", len(delivery.sent["student"]))
		}
		if len(delivery.broadcast) != 0 {
			t.Error("lesson viewed must not broadcast")
		}
	})

	t.Run("unknown events fall back to broadcast", func(t *testing.T) {
		delivery := newFakeDelivery()
		svc := NewNotificationService(nil, delivery, nopLogger{})

		evt := events.BaseEvent{Type: "SOMETHING_ELSE", Data: map[string]interface{}{}}
		if err := svc.handleEvent(context.Background(), evt); err != nil {
			t.Fatalf("handleEvent() error = %v", err)
		}
		if len(delivery.broadcast) != 1 {
			t.Errorf("broadcast count = %d, want 1", len(delivery.broadcast))
		}
	})
}
