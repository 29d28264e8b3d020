package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrUpstream wraps every failure returned by the hosted assistants API so
// callers can map a remote outage to one response code without reading
// provider error text.
var ErrUpstream = errors.New("assistants api request failed")

func upstreamErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}

// AssistantSpec carries the configuration fields the remote API understands.
// Avatar-facing fields (voice, background, language) never leave the local
// database.
type AssistantSpec struct {
	Name         string
	Instructions string
	Model        string
	Temperature  float32
	TopP         float32
	FileSearch   bool
}

// Client talks to the hosted assistants API. The credential is passed per
// call because every client group routes through its own API key.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) api(credential string) *openai.Client {
	cfg := openai.DefaultConfig(credential)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	cfg.HTTPClient = c.httpClient
	return openai.NewClientWithConfig(cfg)
}

func (s AssistantSpec) toRequest() openai.AssistantRequest {
	name := s.Name
	instructions := s.Instructions
	temperature := s.Temperature
	topP := s.TopP

	req := openai.AssistantRequest{
		Model:        s.Model,
		Name:         &name,
		Instructions: &instructions,
		Temperature:  &temperature,
		TopP:         &topP,
	}
	if s.FileSearch {
		req.Tools = []openai.AssistantTool{{Type: openai.AssistantToolTypeFileSearch}}
	}
	return req
}

func (c *Client) CreateAssistant(ctx context.Context, credential string, spec AssistantSpec) (string, error) {
	assistant, err := c.api(credential).CreateAssistant(ctx, spec.toRequest())
	if err != nil {
		return "", upstreamErr("create assistant", err)
	}
	return assistant.ID, nil
}

// UpdateAssistant pushes the remote-visible fields. The existing tool list is
// preserved; only configuration changes here.
func (c *Client) UpdateAssistant(ctx context.Context, credential, asstID string, spec AssistantSpec) error {
	api := c.api(credential)
	current, err := api.RetrieveAssistant(ctx, asstID)
	if err != nil {
		return upstreamErr("retrieve assistant", err)
	}

	req := spec.toRequest()
	req.Tools = current.Tools
	req.ToolResources = toResourceRequest(current.ToolResources)
	if _, err := api.ModifyAssistant(ctx, asstID, req); err != nil {
		return upstreamErr("modify assistant", err)
	}
	return nil
}

func (c *Client) DeleteAssistant(ctx context.Context, credential, asstID string) error {
	if _, err := c.api(credential).DeleteAssistant(ctx, asstID); err != nil {
		return upstreamErr("delete assistant", err)
	}
	return nil
}

func (c *Client) GetTools(ctx context.Context, credential, asstID string) ([]openai.AssistantTool, error) {
	assistant, err := c.api(credential).RetrieveAssistant(ctx, asstID)
	if err != nil {
		return nil, upstreamErr("retrieve assistant", err)
	}
	return assistant.Tools, nil
}

// SetTools replaces the assistant's tool list, keeping model and tool
// resources as they are on the remote side.
func (c *Client) SetTools(ctx context.Context, credential, asstID string, tools []openai.AssistantTool) error {
	api := c.api(credential)
	current, err := api.RetrieveAssistant(ctx, asstID)
	if err != nil {
		return upstreamErr("retrieve assistant", err)
	}

	req := openai.AssistantRequest{
		Model:         current.Model,
		Tools:         tools,
		ToolResources: toResourceRequest(current.ToolResources),
	}
	if _, err := api.ModifyAssistant(ctx, asstID, req); err != nil {
		return upstreamErr("set assistant tools", err)
	}
	return nil
}

func (c *Client) CreateVectorStore(ctx context.Context, credential, name string) (string, error) {
	store, err := c.api(credential).CreateVectorStore(ctx, openai.VectorStoreRequest{Name: name})
	if err != nil {
		return "", upstreamErr("create vector store", err)
	}
	return store.ID, nil
}

func (c *Client) UploadFile(ctx context.Context, credential, name string, data []byte) (string, error) {
	file, err := c.api(credential).CreateFileBytes(ctx, openai.FileBytesRequest{
		Name:    name,
		Bytes:   data,
		Purpose: openai.PurposeAssistants,
	})
	if err != nil {
		return "", upstreamErr("upload file", err)
	}
	return file.ID, nil
}

func (c *Client) AttachFileToVectorStore(ctx context.Context, credential, storeID, fileID string) (string, error) {
	vsFile, err := c.api(credential).CreateVectorStoreFile(ctx, storeID, openai.VectorStoreFileRequest{
		FileID: fileID,
	})
	if err != nil {
		return "", upstreamErr("attach file to vector store", err)
	}
	return vsFile.ID, nil
}

// WaitForFileIndexed polls until indexing finishes or ctx expires. Callers
// bound the wait with a deadline; indexing time grows with file size.
func (c *Client) WaitForFileIndexed(ctx context.Context, credential, storeID, vectorStoreFileID string) error {
	api := c.api(credential)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		vsFile, err := api.RetrieveVectorStoreFile(ctx, storeID, vectorStoreFileID)
		if err != nil {
			return upstreamErr("poll vector store file", err)
		}
		switch vsFile.Status {
		case "completed":
			return nil
		case "failed", "cancelled":
			return fmt.Errorf("vector store indexing ended with status %q", vsFile.Status)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for indexing timed out: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) DeleteVectorStoreFile(ctx context.Context, credential, storeID, vectorStoreFileID string) error {
	if err := c.api(credential).DeleteVectorStoreFile(ctx, storeID, vectorStoreFileID); err != nil {
		return upstreamErr("delete vector store file", err)
	}
	return nil
}

// AttachVectorStore points the assistant's file_search tool resources at the
// store and makes sure the tool itself is on the list.
func (c *Client) AttachVectorStore(ctx context.Context, credential, asstID, storeID string) error {
	api := c.api(credential)
	current, err := api.RetrieveAssistant(ctx, asstID)
	if err != nil {
		return upstreamErr("retrieve assistant", err)
	}

	tools := current.Tools
	hasFileSearch := false
	for _, tool := range tools {
		if tool.Type == openai.AssistantToolTypeFileSearch {
			hasFileSearch = true
			break
		}
	}
	if !hasFileSearch {
		tools = append(tools, openai.AssistantTool{Type: openai.AssistantToolTypeFileSearch})
	}

	req := openai.AssistantRequest{
		Model: current.Model,
		Tools: tools,
		ToolResources: &openai.AssistantToolResource{
			FileSearch: &openai.AssistantToolFileSearch{
				VectorStoreIDs: []string{storeID},
			},
		},
	}
	if _, err := api.ModifyAssistant(ctx, asstID, req); err != nil {
		return upstreamErr("attach vector store", err)
	}
	return nil
}

func toResourceRequest(res *openai.AssistantToolResource) *openai.AssistantToolResource {
	if res == nil || res.FileSearch == nil || len(res.FileSearch.VectorStoreIDs) == 0 {
		return nil
	}
	return &openai.AssistantToolResource{
		FileSearch: &openai.AssistantToolFileSearch{
			VectorStoreIDs: res.FileSearch.VectorStoreIDs,
		},
	}
}
