package testutil

import (
	"context"
	"sync"

	"healthchat/model"
)

// MockRecognizer is a model.Recognizer returning canned results.
type MockRecognizer struct {
	mu sync.Mutex

	Text       string
	Err        error
	EngineName string

	// ExtractFunc, if set, replaces the canned results.
	ExtractFunc func(ctx context.Context, img *model.Image) (string, error)

	Calls []*model.Image
}

func (m *MockRecognizer) ExtractText(ctx context.Context, img *model.Image) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, img)
	fn := m.ExtractFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, img)
	}
	return m.Text, m.Err
}

func (m *MockRecognizer) Name() string {
	if m.EngineName == "" {
		return "mock"
	}
	return m.EngineName
}

func (m *MockRecognizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// AnalyzeCall records one Analyze invocation.
type AnalyzeCall struct {
	Text      string
	SessionID string
}

// MockAnalyzer is a model.Analyzer returning canned results.
type MockAnalyzer struct {
	mu sync.Mutex

	Description string
	Err         error

	// AnalyzeFunc, if set, replaces the canned results.
	AnalyzeFunc func(ctx context.Context, text, sessionID string) (string, error)

	Calls []AnalyzeCall
}

func (m *MockAnalyzer) Analyze(ctx context.Context, text, sessionID string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, AnalyzeCall{Text: text, SessionID: sessionID})
	fn := m.AnalyzeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text, sessionID)
	}
	return m.Description, m.Err
}

func (m *MockAnalyzer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
