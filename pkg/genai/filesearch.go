package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

// ErrNotFound is returned when the API answers 404 for a resource lookup.
var ErrNotFound = errors.New("genai: resource not found")

type FileSearchStore struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
}

type CustomMetadata struct {
	Key         string `json:"key"`
	StringValue string `json:"stringValue,omitempty"`
}

type UploadConfig struct {
	DisplayName    string           `json:"displayName,omitempty"`
	CustomMetadata []CustomMetadata `json:"customMetadata,omitempty"`
}

// Operation is a long running operation returned by store uploads.
type Operation struct {
	Name     string           `json:"name"`
	Done     bool             `json:"done"`
	Error    *OperationError  `json:"error,omitempty"`
	Response *UploadOpPayload `json:"response,omitempty"`
}

type OperationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type UploadOpPayload struct {
	ImportedFiles []ImportedFile `json:"importedFiles,omitempty"`
}

type ImportedFile struct {
	File string `json:"file"`
}

func (c *Client) GetFileSearchStore(ctx context.Context, name string) (*FileSearchStore, error) {
	endpoint := fmt.Sprintf("%s/v1beta/%s", c.baseURL, name)

	body, err := c.doJSON(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var store FileSearchStore
	if err := json.Unmarshal(body, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

func (c *Client) CreateFileSearchStore(ctx context.Context, store *FileSearchStore) (*FileSearchStore, error) {
	endpoint := fmt.Sprintf("%s/v1beta/fileSearchStores", c.baseURL)

	body, err := c.doJSON(ctx, http.MethodPost, endpoint, store)
	if err != nil {
		return nil, err
	}

	var created FileSearchStore
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UploadToFileSearchStore sends file bytes plus upload config as a single
// multipart/related request and returns the long running import operation.
func (c *Client) UploadToFileSearchStore(ctx context.Context, storeName string, config *UploadConfig, mimeType string, data []byte) (*Operation, error) {
	endpoint := fmt.Sprintf("%s/upload/v1beta/%s:uploadToFileSearchStore", c.baseURL, storeName)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return nil, err
	}
	if err := json.NewEncoder(metaPart).Encode(config); err != nil {
		return nil, err
	}

	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", mimeType)
	mediaPart, err := writer.CreatePart(mediaHeader)
	if err != nil {
		return nil, err
	}
	if _, err := mediaPart.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("X-Goog-Upload-Protocol", "multipart")
	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	var op Operation
	if err := json.Unmarshal(resBody, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

func (c *Client) GetOperation(ctx context.Context, name string) (*Operation, error) {
	endpoint := fmt.Sprintf("%s/v1beta/%s", c.baseURL, name)

	body, err := c.doJSON(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var op Operation
	if err := json.Unmarshal(body, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

func (c *Client) DeleteFileSearchStoreDocument(ctx context.Context, documentName string) error {
	endpoint := fmt.Sprintf("%s/v1beta/%s?force=true", c.baseURL, documentName)
	_, err := c.doJSON(ctx, http.MethodDelete, endpoint, nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
