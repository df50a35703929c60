// Package analysis is the HTTP client for the remote analysis service.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"healthchat/config"
	"healthchat/model"
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 1 << 20

type request struct {
	Text      string `json:"text"`
	SessionID string `json:"sessionId"`
}

type response struct {
	Description string `json:"description"`
}

// Client posts turn text to the analysis endpoint. It implements
// model.Analyzer.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient creates a client for endpoint. A nil httpClient means
// http.DefaultClient; deadlines come from the caller's context.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if endpoint == "" {
		endpoint = config.DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint: endpoint,
		client:   httpClient,
	}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Analyze sends {"text", "sessionId"} and returns the "description" field of
// the reply. A missing or empty description is returned as "".
func (c *Client) Analyze(ctx context.Context, text, sessionID string) (string, error) {
	body, err := json.Marshal(request{Text: text, SessionID: sessionID})
	if err != nil {
		return "", &model.AnalysisError{Kind: model.KindDecode, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &model.AnalysisError{Kind: model.KindNetwork, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Analysis] POST %s (session %s, %d chars)", c.endpoint, sessionID, len(text))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &model.AnalysisError{Kind: transportKind(ctx, err), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", &model.AnalysisError{Kind: transportKind(ctx, err), StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &model.AnalysisError{
			Kind:       model.KindStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("analysis service error: %s", snippet(respBody)),
		}
	}

	var result *response
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &model.AnalysisError{
			Kind:       model.KindDecode,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("parsing response: %w", err),
		}
	}
	if result == nil {
		return "", &model.AnalysisError{
			Kind:       model.KindDecode,
			StatusCode: resp.StatusCode,
			Err:        errors.New("parsing response: body is null"),
		}
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Analysis] HTTP %d, description %d chars", resp.StatusCode, len(result.Description))
	}
	return result.Description, nil
}

func transportKind(ctx context.Context, err error) model.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return model.KindTimeout
	}
	return model.KindNetwork
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "(empty body)"
	}
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
