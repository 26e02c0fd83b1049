package ingestion

import (
	"context"
	"errors"
	"testing"
)

func TestAnalyzeDocument(t *testing.T) {
	generator := &scriptedGenerator{responses: map[string]string{
		"deadline": "The submission deadline is Friday.",
	}}
	analyzer := NewAnalyzer(generator, "m")
	doc := Document{MimeType: "application/pdf", Data: []byte("x")}

	answer, err := analyzer.AnalyzeDocument(context.Background(), doc, "When is the deadline?")
	if err != nil {
		t.Fatalf("AnalyzeDocument() error = %v", err)
	}
	if answer != "The submission deadline is Friday." {
		t.Errorf("answer = %q", answer)
	}

	if _, err := analyzer.AnalyzeDocument(context.Background(), doc, "  "); err == nil {
		t.Error("expected an error for a blank question")
	}
}

func TestAnalyzeUpload(t *testing.T) {
	tests := []struct {
		name      string
		generator Generator
		wantTitle string
		wantDesc  string
	}{
		{
			name: "clean json answer",
			generator: &scriptedGenerator{responses: map[string]string{
				"JSON": `{"title": "Week 1 Slides", "description": "Intro lecture."}`,
			}},
			wantTitle: "Week 1 Slides",
			wantDesc:  "Intro lecture.",
		},
		{
			name: "markdown wrapped answer",
			generator: &scriptedGenerator{responses: map[string]string{
				"JSON": "```json\n{\"title\": \"Week 1 Slides\", \"description\": \"Intro lecture.\"}\n```",
			}},
			wantTitle: "Week 1 Slides",
			wantDesc:  "Intro lecture.",
		},
		{
			name: "unparseable answer falls back to file name",
			generator: &scriptedGenerator{responses: map[string]string{
				"JSON": "sorry, I cannot do that",
			}},
			wantTitle: "lecture-01",
		},
		{
			name:      "model error falls back to file name",
			generator: &scriptedGenerator{err: errors.New("down")},
			wantTitle: "lecture-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := NewAnalyzer(tt.generator, "m")
			metadata := analyzer.AnalyzeUpload(context.Background(), "lecture-01.pdf", Document{
				MimeType: "application/pdf",
				Data:     []byte("x"),
			})
			if metadata.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", metadata.Title, tt.wantTitle)
			}
			if metadata.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", metadata.Description, tt.wantDesc)
			}
		})
	}
}
