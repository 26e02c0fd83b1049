package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"aia-campus-be/pkg/genai"
)

type fakeStore struct {
	stores       map[string]*genai.FileSearchStore
	createdStore *genai.FileSearchStore
	uploadConfig *genai.UploadConfig
	uploadStore  string
	uploadErr    error

	// operations returned by successive GetOperation calls
	operations []*genai.Operation
	opCalls    int
}

func (f *fakeStore) GetFileSearchStore(ctx context.Context, name string) (*genai.FileSearchStore, error) {
	if store, ok := f.stores[name]; ok {
		return store, nil
	}
	return nil, genai.ErrNotFound
}

func (f *fakeStore) CreateFileSearchStore(ctx context.Context, store *genai.FileSearchStore) (*genai.FileSearchStore, error) {
	f.createdStore = store
	if f.stores == nil {
		f.stores = map[string]*genai.FileSearchStore{}
	}
	f.stores[store.Name] = store
	return store, nil
}

func (f *fakeStore) UploadToFileSearchStore(ctx context.Context, storeName string, config *genai.UploadConfig, mimeType string, data []byte) (*genai.Operation, error) {
	f.uploadStore = storeName
	f.uploadConfig = config
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &genai.Operation{Name: "operations/op-1"}, nil
}

func (f *fakeStore) GetOperation(ctx context.Context, name string) (*genai.Operation, error) {
	if f.opCalls >= len(f.operations) {
		// Keep reporting "still running" once the script runs out.
		return &genai.Operation{Name: name}, nil
	}
	op := f.operations[f.opCalls]
	f.opCalls++
	return op, nil
}

type scriptedGenerator struct {
	// responses keyed by a substring of the prompt text
	responses map[string]string
	err       error
}

func (g *scriptedGenerator) GenerateContent(ctx context.Context, model string, request *genai.GenerateRequest) (*genai.GenerateResponse, error) {
	if g.err != nil {
		return nil, g.err
	}
	prompt := request.Contents[0].Parts[0].Text
	for key, text := range g.responses {
		if strings.Contains(prompt, key) {
			return &genai.GenerateResponse{
				Candidates: []*genai.Candidate{
					{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
				},
			}, nil
		}
	}
	return nil, errors.New("unexpected prompt")
}

func fastPipeline(store StoreAPI, generator Generator) *Pipeline {
	p := NewPipeline(store, NewAnalyzer(generator, "m"))
	p.pollInterval = time.Millisecond
	p.pollDeadline = time.Second
	return p
}

func doneOperation() *genai.Operation {
	return &genai.Operation{
		Name: "operations/op-1",
		Done: true,
		Response: &genai.UploadOpPayload{
			ImportedFiles: []genai.ImportedFile{{File: "fileSearchStores/s/documents/d1"}},
		},
	}
}

func analysisResponses() map[string]string {
	return map[string]string{
		"summary":    "a short summary",
		"transcript": "a transcript",
	}
}

func TestProcessSuccess(t *testing.T) {
	store := &fakeStore{
		operations: []*genai.Operation{
			{Name: "operations/op-1"}, // still running on first poll
			doneOperation(),
		},
	}
	pipeline := fastPipeline(store, &scriptedGenerator{responses: analysisResponses()})

	result, err := pipeline.Process(context.Background(), Input{
		CourseCode: "AIA-101",
		ResourceId: "res-1",
		Title:      "Week 1 Slides",
		MimeType:   "application/pdf",
		Data:       []byte("pdf bytes"),
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if result.GeminiFileId != "fileSearchStores/s/documents/d1" {
		t.Errorf("GeminiFileId = %q", result.GeminiFileId)
	}
	if result.GeminiStoreId != "fileSearchStores/course-aia-101-store" {
		t.Errorf("GeminiStoreId = %q", result.GeminiStoreId)
	}
	if result.Summary != "a short summary" || result.Transcript != "a transcript" {
		t.Errorf("derived fields = %q / %q", result.Summary, result.Transcript)
	}

	// The store did not exist, so it must have been created by its
	// deterministic name.
	if store.createdStore == nil || store.createdStore.Name != "fileSearchStores/course-aia-101-store" {
		t.Errorf("created store = %+v", store.createdStore)
	}

	// Upload tags the document with its course and resource.
	got := map[string]string{}
	for _, m := range store.uploadConfig.CustomMetadata {
		got[m.Key] = m.StringValue
	}
	if got["course_code"] != "AIA-101" || got["resource_id"] != "res-1" {
		t.Errorf("custom metadata = %v", got)
	}
}

func TestProcessReusesExistingStore(t *testing.T) {
	name := "fileSearchStores/course-aia-101-store"
	store := &fakeStore{
		stores:     map[string]*genai.FileSearchStore{name: {Name: name}},
		operations: []*genai.Operation{doneOperation()},
	}
	pipeline := fastPipeline(store, &scriptedGenerator{responses: analysisResponses()})

	_, err := pipeline.Process(context.Background(), Input{CourseCode: "AIA-101", ResourceId: "r"})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if store.createdStore != nil {
		t.Errorf("store was recreated: %+v", store.createdStore)
	}
}

func TestProcessUploadError(t *testing.T) {
	store := &fakeStore{uploadErr: errors.New("quota exceeded")}
	pipeline := fastPipeline(store, &scriptedGenerator{responses: analysisResponses()})

	_, err := pipeline.Process(context.Background(), Input{CourseCode: "AIA-101", ResourceId: "r"})
	if err == nil || !strings.Contains(err.Error(), "upload to store") {
		t.Errorf("err = %v", err)
	}
}

func TestProcessOperationError(t *testing.T) {
	store := &fakeStore{
		operations: []*genai.Operation{
			{Name: "operations/op-1", Done: true, Error: &genai.OperationError{Code: 3, Message: "bad file"}},
		},
	}
	pipeline := fastPipeline(store, &scriptedGenerator{responses: analysisResponses()})

	_, err := pipeline.Process(context.Background(), Input{CourseCode: "AIA-101", ResourceId: "r"})
	if err == nil || !strings.Contains(err.Error(), "bad file") {
		t.Errorf("err = %v", err)
	}
}

func TestProcessMissingImportedFile(t *testing.T) {
	tests := []struct {
		name string
		op   *genai.Operation
	}{
		{
			name: "no response payload",
			op:   &genai.Operation{Name: "op", Done: true},
		},
		{
			name: "empty imported files",
			op:   &genai.Operation{Name: "op", Done: true, Response: &genai.UploadOpPayload{}},
		},
		{
			name: "imported file without handle",
			op: &genai.Operation{Name: "op", Done: true, Response: &genai.UploadOpPayload{
				ImportedFiles: []genai.ImportedFile{{}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{operations: []*genai.Operation{tt.op}}
			pipeline := fastPipeline(store, &scriptedGenerator{responses: analysisResponses()})

			_, err := pipeline.Process(context.Background(), Input{CourseCode: "AIA-101", ResourceId: "r"})
			if !errors.Is(err, ErrNoImportedFile) {
				t.Errorf("err = %v, want ErrNoImportedFile", err)
			}
		})
	}
}

func TestProcessDerivationFailureFailsWhole(t *testing.T) {
	store := &fakeStore{operations: []*genai.Operation{doneOperation()}}
	pipeline := fastPipeline(store, &scriptedGenerator{err: errors.New("model down")})

	_, err := pipeline.Process(context.Background(), Input{CourseCode: "AIA-101", ResourceId: "r"})
	if err == nil || !strings.Contains(err.Error(), "derive artifacts") {
		t.Errorf("err = %v", err)
	}
}

func TestProcessContextCancelDuringPoll(t *testing.T) {
	store := &fakeStore{} // GetOperation keeps reporting "still running"
	pipeline := fastPipeline(store, &scriptedGenerator{responses: analysisResponses()})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	_, err := pipeline.Process(ctx, Input{CourseCode: "AIA-101", ResourceId: "r"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestPollTimeout(t *testing.T) {
	store := &fakeStore{}
	pipeline := NewPipeline(store, NewAnalyzer(&scriptedGenerator{}, "m"))
	pipeline.pollInterval = 50 * time.Millisecond
	pipeline.pollDeadline = 5 * time.Millisecond

	_, err := pipeline.pollOperation(context.Background(), &genai.Operation{Name: "op"})
	if !errors.Is(err, ErrPollTimeout) {
		t.Errorf("err = %v, want ErrPollTimeout", err)
	}
}
