package genai

// Request/response shapes for the generativelanguage REST API. Only the
// fields this backend reads are declared.

type Blob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

type Content struct {
	Parts []*Part `json:"parts"`
	Role  string  `json:"role,omitempty"`
}

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// FileSearch scopes retrieval to one or more stores, optionally narrowed by
// a metadata filter expression over custom metadata keys.
type FileSearch struct {
	FileSearchStoreNames []string `json:"fileSearchStoreNames"`
	MetadataFilter       string   `json:"metadataFilter,omitempty"`
}

type GoogleSearch struct{}

type Tool struct {
	GoogleSearch *GoogleSearch `json:"googleSearch,omitempty"`
	FileSearch   *FileSearch   `json:"fileSearch,omitempty"`
}

type GenerateRequest struct {
	Contents          []*Content        `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	Tools             []*Tool           `json:"tools,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

type GenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	ResponseMime    string   `json:"responseMimeType,omitempty"`
}

type GroundingChunkSource struct {
	Title string `json:"title,omitempty"`
	URI   string `json:"uri,omitempty"`
}

type GroundingChunk struct {
	RetrievedContext *GroundingChunkSource `json:"retrievedContext,omitempty"`
	Web              *GroundingChunkSource `json:"web,omitempty"`
}

type GroundingMetadata struct {
	GroundingChunks []*GroundingChunk `json:"groundingChunks,omitempty"`
}

type Candidate struct {
	Content           *Content           `json:"content"`
	FinishReason      string             `json:"finishReason,omitempty"`
	GroundingMetadata *GroundingMetadata `json:"groundingMetadata,omitempty"`
}

type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type GenerateResponse struct {
	Candidates     []*Candidate    `json:"candidates"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
}

const FinishReasonSafety = "SAFETY"

// Text returns the concatenated text parts of the first candidate.
func (r *GenerateResponse) Text() string {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}
	out := ""
	for _, p := range r.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out
}

// Blocked reports whether the prompt or the first candidate was stopped by
// a safety filter.
func (r *GenerateResponse) Blocked() bool {
	if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
		return true
	}
	return len(r.Candidates) > 0 && r.Candidates[0].FinishReason == FinishReasonSafety
}
