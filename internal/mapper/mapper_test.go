package mapper

import (
	"testing"
	"time"

	"aia-campus-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseMapperRoundTrip(t *testing.T) {
	mapper := NewCourseMapper()
	now := time.Now().Truncate(time.Second)

	course := &entity.Course{
		Code:          "AIA-101",
		Title:         "Introduction to Applied AI",
		Credits:       3,
		Term:          1,
		Prerequisites: []string{"MATH-101"},
		Modules: []entity.CourseModule{{
			Id:    "m1",
			Title: "Foundations",
			Units: []entity.Unit{{
				Id:      "u1",
				Title:   "Getting started",
				Lessons: []entity.Lesson{{Id: "l1", Title: "What is AI", Week: 1}},
			}},
		}},
		CreatedAt: now,
	}

	m, err := mapper.ToModel(course)
	require.NoError(t, err)
	assert.JSONEq(t, `["MATH-101"]`, string(m.Prerequisites))

	back, err := mapper.ToEntity(m)
	require.NoError(t, err)
	assert.Equal(t, course.Code, back.Code)
	assert.Equal(t, course.Term, back.Term)
	require.Len(t, back.Modules, 1)
	assert.Equal(t, "What is AI", back.Modules[0].Units[0].Lessons[0].Title)
	assert.Nil(t, back.UpdatedAt, "zero model timestamp must map to nil")
}

func TestCourseMapperNil(t *testing.T) {
	mapper := NewCourseMapper()

	e, err := mapper.ToEntity(nil)
	require.NoError(t, err)
	assert.Nil(t, e)

	m, err := mapper.ToModel(nil)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestChatMapperMessageSources(t *testing.T) {
	mapper := NewChatMapper()

	message := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: uuid.New(),
		Sender:        entity.SenderModel,
		Content:       "grounded answer",
		Sources: []entity.GroundingSource{
			{Title: "Lecture 3 slides", URI: "#"},
			{Title: "wikipedia.org", URI: "https://wikipedia.org/wiki/AI"},
		},
	}

	m, err := mapper.MessageToModel(message)
	require.NoError(t, err)
	require.NotEmpty(t, m.Sources)

	back, err := mapper.MessageToEntity(m)
	require.NoError(t, err)
	require.Len(t, back.Sources, 2)
	assert.Equal(t, "Lecture 3 slides", back.Sources[0].Title)
	assert.Equal(t, "#", back.Sources[0].URI)
	assert.Equal(t, "https://wikipedia.org/wiki/AI", back.Sources[1].URI)
}

func TestChatMapperMessageWithoutSources(t *testing.T) {
	mapper := NewChatMapper()

	message := &entity.ChatMessage{
		Id:      uuid.New(),
		Sender:  entity.SenderModel,
		Content: "plain answer",
		IsError: true,
	}

	m, err := mapper.MessageToModel(message)
	require.NoError(t, err)
	assert.Empty(t, m.Sources, "no sources must not serialize an empty array")
	assert.True(t, m.IsError)

	back, err := mapper.MessageToEntity(m)
	require.NoError(t, err)
	assert.Empty(t, back.Sources)
	assert.True(t, back.IsError)
}

func TestChatMapperSessionScope(t *testing.T) {
	mapper := NewChatMapper()
	resourceId := uuid.New()

	session := &entity.ChatSession{
		Id:          uuid.New(),
		UserId:      "student",
		ContextType: entity.ContextMediaAssistant,
		CourseCode:  "AIA-101",
		LessonId:    "l1",
		ResourceId:  &resourceId,
	}

	back := mapper.SessionToEntity(mapper.SessionToModel(session))
	assert.Equal(t, session.ContextType, back.ContextType)
	require.NotNil(t, back.ResourceId)
	assert.Equal(t, resourceId, *back.ResourceId)
}

func TestChatMapperSessionWithoutResourceUsesSentinel(t *testing.T) {
	mapper := NewChatMapper()

	first := &entity.ChatSession{Id: uuid.New(), UserId: "student", ContextType: entity.ContextCourseTutor, CourseCode: "AIA-101"}
	second := &entity.ChatSession{Id: uuid.New(), UserId: "student", ContextType: entity.ContextCourseTutor, CourseCode: "AIA-101"}

	firstModel := mapper.SessionToModel(first)
	secondModel := mapper.SessionToModel(second)

	// No-resource sessions must land on identical column values so the scope
	// unique index can conflict on repeated resolves. A NULL column would make
	// every such row distinct and duplicate the session on each resolve.
	assert.Equal(t, uuid.Nil, firstModel.ResourceId)
	assert.Equal(t, firstModel.ResourceId, secondModel.ResourceId)

	back := mapper.SessionToEntity(firstModel)
	assert.Nil(t, back.ResourceId, "sentinel must map back to no resource")
}

func TestResourceMapperEmbeddingVector(t *testing.T) {
	mapper := NewResourceMapper()

	emb := &entity.ResourceEmbedding{
		Id:             uuid.New(),
		ResourceId:     uuid.New(),
		CourseCode:     "AIA-101",
		Document:       "chunk text",
		EmbeddingValue: []float32{0.25, -0.5, 1},
		ChunkIndex:     2,
	}

	back := mapper.EmbeddingToEntity(mapper.EmbeddingToModel(emb))
	assert.Equal(t, emb.EmbeddingValue, back.EmbeddingValue)
	assert.Equal(t, 2, back.ChunkIndex)
}
