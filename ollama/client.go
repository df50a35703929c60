package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llava:latest"
)

// Client talks to a local Ollama server hosting a vision model.
type Client struct {
	client  *api.Client
	model   string
	baseURL string
}

func NewClient(baseURL, model string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	client := api.NewClient(parsedURL, http.DefaultClient)

	return &Client{
		client:  client,
		model:   model,
		baseURL: baseURL,
	}, nil
}

// ChatWithImage sends a single user message carrying prompt and image and
// returns the complete reply.
func (c *Client) ChatWithImage(ctx context.Context, prompt string, image []byte) (string, error) {
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{{
			Role:    "user",
			Content: prompt,
			Images:  []api.ImageData{image},
		}},
		Stream: func(b bool) *bool { return &b }(false),
	}

	var reply strings.Builder
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return reply.String(), nil
}

type ModelInfo struct {
	Name   string
	Size   int64
	Vision bool
}

func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	resp, err := c.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	models := make([]ModelInfo, len(resp.Models))
	for i, model := range resp.Models {
		models[i] = ModelInfo{
			Name:   model.Name,
			Size:   model.Size,
			Vision: SupportsVision(model.Name),
		}
	}

	return models, nil
}

func (c *Client) GetModel() string {
	return c.model
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := c.client.List(ctx)
	return err
}

// visionModels lists model families known to accept image input.
var visionModels = map[string]bool{
	"llava":             true,
	"bakllava":          true,
	"llama3.2-vision":   true,
	"minicpm-v":         true,
	"moondream":         true,
	"qwen2.5vl":         true,
	"gemma3":            true,
	"granite3.2-vision": true,

	"llama3": false,
	"gemma":  false,
	"qwen":   false,
	"phi":    false,
}

// orderedPrefixes is checked in order, most specific first, so that
// "llama3.2-vision" is not matched as plain "llama3".
var orderedPrefixes = []string{
	"llama3.2-vision", "granite3.2-vision", "qwen2.5vl",
	"bakllava", "llava", "minicpm-v", "moondream", "gemma3",
	"llama3", "gemma", "qwen", "phi",
}

// SupportsVision reports whether a model is known to accept images. The tag
// and any registry namespace are ignored.
func SupportsVision(model string) bool {
	name := strings.ToLower(model)
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, ":"); i >= 0 {
		name = name[:i]
	}

	for _, prefix := range orderedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return visionModels[prefix]
		}
	}
	return false
}
