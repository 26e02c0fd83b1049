package events

import "time"

const (
	TypeResourceProcessed = "RESOURCE_PROCESSED"
	TypeResourceFailed    = "RESOURCE_FAILED"
	TypeLessonViewed      = "LESSON_VIEWED"
)

// NewResourceProcessed is emitted when ingestion completes successfully.
func NewResourceProcessed(resourceId, courseCode, lessonId string) Event {
	return BaseEvent{
		Type: TypeResourceProcessed,
		Data: map[string]interface{}{
			"resource_id": resourceId,
			"course_code": courseCode,
			"lesson_id":   lessonId,
		},
		OccurredAt: time.Now(),
	}
}

// NewResourceFailed is emitted when any step after resource creation errors.
func NewResourceFailed(resourceId, courseCode, reason string) Event {
	return BaseEvent{
		Type: TypeResourceFailed,
		Data: map[string]interface{}{
			"resource_id": resourceId,
			"course_code": courseCode,
			"reason":      reason,
		},
		OccurredAt: time.Now(),
	}
}

// NewLessonViewed is emitted when a student marks a lesson as viewed.
func NewLessonViewed(userId, courseCode, lessonId string) Event {
	return BaseEvent{
		Type: TypeLessonViewed,
		Data: map[string]interface{}{
			"user_id":     userId,
			"course_code": courseCode,
			"lesson_id":   lessonId,
		},
		OccurredAt: time.Now(),
	}
}
