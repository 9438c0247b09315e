package embedder

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Embedding task types. Document-side and query-side embeddings use
// different encodings from the same model but live in the same vector space.
const (
	TaskDocument = "RETRIEVAL_DOCUMENT"
	TaskQuery    = "RETRIEVAL_QUERY"
)

// TextEmbedder maps text to a fixed-dimension dense vector.
type TextEmbedder interface {
	EmbedText(ctx context.Context, text, taskType string) ([]float32, error)
	Model() string
}

// Client generates embeddings with the Gemini embedding API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient initializes the embedding client. Construct once at process
// start and pass the handle down; components never read ambient SDK state.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "text-embedding-004"
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{client: c, model: model}, nil
}

// Model returns the embedding model name.
func (c *Client) Model() string { return c.model }

// EmbedText generates an embedding for a single text. Service errors
// propagate: a zero vector stand-in would silently corrupt the index.
func (c *Client) EmbedText(ctx context.Context, text, taskType string) ([]float32, error) {
	cfg := &genai.EmbedContentConfig{TaskType: taskType}
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}

	result, err := c.client.Models.EmbedContent(ctx, c.model, contents, cfg)
	if err != nil {
		return nil, &ServiceError{Op: "embed", Err: err}
	}
	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("no embedding returned for model %s", c.model)
	}
	return result.Embeddings[0].Values, nil
}

// EmbedQuery embeds a search query.
func (c *Client) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	return c.EmbedText(ctx, query, TaskQuery)
}

// Dimension probes the embedding dimension with a single call.
func (c *Client) Dimension(ctx context.Context) (int, error) {
	v, err := c.EmbedText(ctx, "dimension probe", TaskDocument)
	if err != nil {
		return 0, err
	}
	return len(v), nil
}

// ServiceError wraps a failure of the embedding service. Transient by
// assumption: callers may retry before propagating.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("embedding service %s: %s", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
