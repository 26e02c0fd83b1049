package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"aia-campus-be/pkg/genai"
	"aia-campus-be/pkg/rag"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoImportedFile means the import job finished without producing a
	// file handle. The upload "succeeded" but is unusable for retrieval.
	ErrNoImportedFile = errors.New("ingestion: import produced no file handle")
	// ErrPollTimeout means the import job did not finish within the
	// polling deadline. The job may still complete server-side.
	ErrPollTimeout = errors.New("ingestion: import polling deadline exceeded")
)

const (
	defaultPollInterval = 5 * time.Second
	defaultPollDeadline = 10 * time.Minute
)

// StoreAPI is the slice of the genai client the pipeline needs.
type StoreAPI interface {
	GetFileSearchStore(ctx context.Context, name string) (*genai.FileSearchStore, error)
	CreateFileSearchStore(ctx context.Context, store *genai.FileSearchStore) (*genai.FileSearchStore, error)
	UploadToFileSearchStore(ctx context.Context, storeName string, config *genai.UploadConfig, mimeType string, data []byte) (*genai.Operation, error)
	GetOperation(ctx context.Context, name string) (*genai.Operation, error)
}

type Input struct {
	CourseCode string
	ResourceId string
	Title      string
	MimeType   string
	Data       []byte
	// Text is pre-extracted document text, used for the derivation prompts
	// when available.
	Text string
}

type Result struct {
	GeminiFileId  string
	GeminiStoreId string
	Summary       string
	Transcript    string
}

type Pipeline struct {
	store        StoreAPI
	analyzer     *Analyzer
	pollInterval time.Duration
	pollDeadline time.Duration
}

func NewPipeline(store StoreAPI, analyzer *Analyzer) *Pipeline {
	return &Pipeline{
		store:        store,
		analyzer:     analyzer,
		pollInterval: defaultPollInterval,
		pollDeadline: defaultPollDeadline,
	}
}

// ensureStore resolves the per-course corpus, creating it on first use.
// Creation is idempotent by deterministic name, concurrent uploads for the
// same course converge on one store.
func (p *Pipeline) ensureStore(ctx context.Context, courseCode string) (string, error) {
	name := rag.CourseStoreName(courseCode)

	store, err := p.store.GetFileSearchStore(ctx, name)
	if err == nil {
		return store.Name, nil
	}
	if !errors.Is(err, genai.ErrNotFound) {
		return "", err
	}

	created, err := p.store.CreateFileSearchStore(ctx, &genai.FileSearchStore{
		Name:        name,
		DisplayName: fmt.Sprintf("Course %s materials", strings.ToUpper(courseCode)),
	})
	if err != nil {
		return "", err
	}
	return created.Name, nil
}

func (p *Pipeline) pollOperation(ctx context.Context, operation *genai.Operation) (*genai.Operation, error) {
	deadline := time.NewTimer(p.pollDeadline)
	defer deadline.Stop()
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for !operation.Done {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, ErrPollTimeout
		case <-ticker.C:
			refreshed, err := p.store.GetOperation(ctx, operation.Name)
			if err != nil {
				return nil, err
			}
			operation = refreshed
		}
	}
	return operation, nil
}

// Process runs the full ingestion flow: resolve corpus, upload, poll the
// import job, then derive summary and transcript concurrently. Any failure
// is returned as an error, the caller decides how to mark the resource.
func (p *Pipeline) Process(ctx context.Context, input Input) (*Result, error) {
	storeName, err := p.ensureStore(ctx, input.CourseCode)
	if err != nil {
		return nil, fmt.Errorf("resolve course store: %w", err)
	}

	operation, err := p.store.UploadToFileSearchStore(ctx, storeName, &genai.UploadConfig{
		DisplayName: input.Title,
		CustomMetadata: []genai.CustomMetadata{
			{Key: "course_code", StringValue: input.CourseCode},
			{Key: "resource_id", StringValue: input.ResourceId},
		},
	}, input.MimeType, input.Data)
	if err != nil {
		return nil, fmt.Errorf("upload to store: %w", err)
	}

	operation, err = p.pollOperation(ctx, operation)
	if err != nil {
		return nil, err
	}
	if operation.Error != nil {
		return nil, fmt.Errorf("import failed: %s", operation.Error.Message)
	}
	if operation.Response == nil || len(operation.Response.ImportedFiles) == 0 {
		return nil, ErrNoImportedFile
	}
	fileId := operation.Response.ImportedFiles[0].File
	if fileId == "" {
		return nil, ErrNoImportedFile
	}

	doc := Document{
		MimeType: input.MimeType,
		Data:     input.Data,
		Text:     input.Text,
	}

	var summary, transcript string
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		summary, err = p.analyzer.Summarize(groupCtx, doc)
		return err
	})
	group.Go(func() error {
		var err error
		transcript, err = p.analyzer.Transcribe(groupCtx, doc)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("derive artifacts: %w", err)
	}

	return &Result{
		GeminiFileId:  fileId,
		GeminiStoreId: storeName,
		Summary:       summary,
		Transcript:    transcript,
	}, nil
}
