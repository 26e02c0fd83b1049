package ingestion

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"aia-campus-be/pkg/genai"
	"aia-campus-be/pkg/utils"
)

// excerptLimit caps how much document text goes into one derivation prompt.
const excerptLimit = 8000

const (
	summaryPrompt = "Provide a concise one-paragraph summary of the following course material. " +
		"Write for a student deciding whether to open it. Respond with the summary only."
	transcriptPrompt = "Produce a clean, readable transcript of the following course material. " +
		"Preserve the original wording, fix obvious artifacts, drop page numbers and headers. " +
		"Respond with the transcript only."
	metadataPrompt = `Analyze this file and respond with ONLY this JSON format: {"title": "...", "description": "..."}. ` +
		`The title is a short human-readable name for the material, the description one sentence. No other text.`
)

// Document is the analyzable form of an uploaded resource. Text is used when
// the caller already extracted it, otherwise the raw bytes are sent inline.
type Document struct {
	MimeType string
	Data     []byte
	Text     string
}

type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Generator abstracts the model call so tests can fake it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, request *genai.GenerateRequest) (*genai.GenerateResponse, error)
}

type Analyzer struct {
	generator Generator
	model     string
}

func NewAnalyzer(generator Generator, model string) *Analyzer {
	return &Analyzer{
		generator: generator,
		model:     model,
	}
}

func (a *Analyzer) parts(doc Document, prompt string) []*genai.Part {
	if doc.Text != "" {
		return []*genai.Part{
			{Text: prompt},
			{Text: utils.Excerpt(doc.Text, excerptLimit)},
		}
	}
	return []*genai.Part{
		{Text: prompt},
		{InlineData: &genai.Blob{
			MimeType: doc.MimeType,
			Data:     base64.StdEncoding.EncodeToString(doc.Data),
		}},
	}
}

func (a *Analyzer) generate(ctx context.Context, doc Document, prompt string) (string, error) {
	response, err := a.generator.GenerateContent(ctx, a.model, &genai.GenerateRequest{
		Contents: []*genai.Content{{
			Parts: a.parts(doc, prompt),
			Role:  genai.RoleUser,
		}},
	})
	if err != nil {
		return "", err
	}
	text := response.Text()
	if text == "" {
		return "", fmt.Errorf("empty model response")
	}
	return text, nil
}

func (a *Analyzer) Summarize(ctx context.Context, doc Document) (string, error) {
	return a.generate(ctx, doc, summaryPrompt)
}

func (a *Analyzer) Transcribe(ctx context.Context, doc Document) (string, error) {
	return a.generate(ctx, doc, transcriptPrompt)
}

// AnalyzeDocument answers a free-form question about a single document. The
// document travels with the question, so this works before any retrieval
// index exists for it.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, doc Document, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("empty question")
	}
	return a.generate(ctx, doc, question)
}

// AnalyzeUpload derives a display title and description for a fresh upload.
// Falls back to the file name when the model answer cannot be parsed, a bad
// metadata guess should never block an upload.
func (a *Analyzer) AnalyzeUpload(ctx context.Context, fileName string, doc Document) *Metadata {
	fallback := &Metadata{
		Title:       strings.TrimSuffix(fileName, filepath.Ext(fileName)),
		Description: "",
	}

	text, err := a.generate(ctx, doc, metadataPrompt)
	if err != nil {
		return fallback
	}

	// Clean markdown wrapper before parsing
	raw := bytes.TrimSpace([]byte(text))
	raw = bytes.TrimPrefix(raw, []byte("```json"))
	raw = bytes.TrimPrefix(raw, []byte("```"))
	raw = bytes.TrimSuffix(raw, []byte("```"))
	raw = bytes.TrimSpace(raw)

	var metadata Metadata
	if err := json.Unmarshal(raw, &metadata); err != nil || metadata.Title == "" {
		return fallback
	}
	return &metadata
}
