package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"aia-campus-be/pkg/genai"
)

var (
	// ErrSafetyBlocked means the prompt or answer was stopped by a safety
	// filter. The question itself was the problem, retrying won't help.
	ErrSafetyBlocked = errors.New("rag: blocked by safety filter")
	// ErrUnavailable covers transport failures and empty model output.
	ErrUnavailable = errors.New("rag: model unavailable")
)

type Mode string

const (
	// ModeOpen answers from general knowledge grounded by web search.
	ModeOpen Mode = "open"
	// ModeCourse restricts retrieval to one course store.
	ModeCourse Mode = "course"
	// ModeResource restricts retrieval to a single document inside a
	// course store via metadata filter.
	ModeResource Mode = "resource"
)

// CourseStoreName is the deterministic store resource name for a course.
// Course codes are case-insensitive, the store name is always lower case.
func CourseStoreName(courseCode string) string {
	return fmt.Sprintf("fileSearchStores/course-%s-store", strings.ToLower(courseCode))
}

// Scope selects exactly one retrieval mode for a conversation.
type Scope struct {
	Mode              Mode
	CourseCode        string
	ResourceId        string
	SystemInstruction string
}

type Turn struct {
	Role string // genai.RoleUser or genai.RoleModel
	Text string
}

type Source struct {
	Title string
	URI   string
}

type Answer struct {
	Text    string
	Sources []Source
}

// Generator abstracts the model call so tests can fake it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, request *genai.GenerateRequest) (*genai.GenerateResponse, error)
}

type Engine struct {
	generator Generator
	model     string
}

func NewEngine(generator Generator, model string) *Engine {
	return &Engine{
		generator: generator,
		model:     model,
	}
}

// toolsFor maps a scope onto exactly one retrieval tool. The modes are
// mutually exclusive: a request never carries both web search and file
// search.
func toolsFor(scope Scope) ([]*genai.Tool, error) {
	switch scope.Mode {
	case ModeOpen:
		return []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}, nil
	case ModeCourse:
		if scope.CourseCode == "" {
			return nil, fmt.Errorf("course scope requires a course code")
		}
		return []*genai.Tool{{FileSearch: &genai.FileSearch{
			FileSearchStoreNames: []string{CourseStoreName(scope.CourseCode)},
		}}}, nil
	case ModeResource:
		if scope.CourseCode == "" || scope.ResourceId == "" {
			return nil, fmt.Errorf("resource scope requires a course code and resource id")
		}
		return []*genai.Tool{{FileSearch: &genai.FileSearch{
			FileSearchStoreNames: []string{CourseStoreName(scope.CourseCode)},
			MetadataFilter:       fmt.Sprintf("resource_id=%q", scope.ResourceId),
		}}}, nil
	default:
		return nil, fmt.Errorf("unknown scope mode %q", scope.Mode)
	}
}

func (e *Engine) Answer(ctx context.Context, scope Scope, history []Turn, message string) (*Answer, error) {
	tools, err := toolsFor(scope)
	if err != nil {
		return nil, err
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: turn.Text}},
			Role:  turn.Role,
		})
	}
	contents = append(contents, &genai.Content{
		Parts: []*genai.Part{{Text: message}},
		Role:  genai.RoleUser,
	})

	request := &genai.GenerateRequest{
		Contents: contents,
		Tools:    tools,
	}
	if scope.SystemInstruction != "" {
		request.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: scope.SystemInstruction}},
		}
	}

	response, err := e.generator.GenerateContent(ctx, e.model, request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if response.Blocked() {
		return nil, ErrSafetyBlocked
	}

	text := response.Text()
	if text == "" {
		return nil, ErrUnavailable
	}

	answer := &Answer{Text: text}
	if len(response.Candidates) > 0 && response.Candidates[0].GroundingMetadata != nil {
		answer.Sources = NormalizeSources(response.Candidates[0].GroundingMetadata)
	}
	return answer, nil
}

// NormalizeSources flattens grounding chunks into display sources. File
// chunks keep their document title but get a placeholder URI since store
// documents have no public address. Web chunks keep their real URI. Chunks
// of neither kind are dropped. Order follows the model output.
func NormalizeSources(metadata *genai.GroundingMetadata) []Source {
	if metadata == nil {
		return nil
	}
	sources := make([]Source, 0, len(metadata.GroundingChunks))
	for _, chunk := range metadata.GroundingChunks {
		switch {
		case chunk.RetrievedContext != nil:
			title := chunk.RetrievedContext.Title
			if title == "" {
				// Untitled store documents fall back to their internal handle.
				name := chunk.RetrievedContext.URI
				if name == "" {
					name = "unknown"
				}
				title = "Resource: " + name
			}
			sources = append(sources, Source{Title: title, URI: "#"})
		case chunk.Web != nil:
			title := chunk.Web.Title
			if title == "" {
				title = chunk.Web.URI
			}
			sources = append(sources, Source{Title: title, URI: chunk.Web.URI})
		}
	}
	return sources
}
