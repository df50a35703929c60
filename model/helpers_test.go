package model

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeRecognizer struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
}

func (f *fakeRecognizer) ExtractText(ctx context.Context, img *Image) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.text, f.err
}

func (f *fakeRecognizer) Name() string { return "fake" }

func (f *fakeRecognizer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type analyzeCall struct {
	text      string
	sessionID string
}

// fakeAnalyzer answers by input text, falling back to description/err.
type fakeAnalyzer struct {
	mu          sync.Mutex
	byText      map[string]string
	description string
	err         error
	calls       []analyzeCall
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text, sessionID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, analyzeCall{text: text, sessionID: sessionID})
	if f.err != nil {
		return "", f.err
	}
	if d, ok := f.byText[text]; ok {
		return d, nil
	}
	return f.description, nil
}

func (f *fakeAnalyzer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func instantTick(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg { return fn(time.Time{}) }
}

func newTestModel(rec Recognizer, an Analyzer, policy ConcurrencyPolicy) *Model {
	m := NewModel(NewSession(), rec, an, Options{
		RevealDelay:        time.Millisecond,
		AnalysisTimeout:    time.Second,
		RecognitionTimeout: time.Second,
		Policy:             policy,
	})
	m.reveal.tick = instantTick
	return m
}

// collect runs cmd and every batch it expands to, returning the leaf messages
// without delivering them.
func collect(cmd tea.Cmd) []tea.Msg {
	var msgs []tea.Msg
	pending := []tea.Cmd{cmd}
	for len(pending) > 0 {
		c := pending[0]
		pending = pending[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			pending = append(pending, batch...)
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

// drain delivers every message produced by cmd, and by the commands Update
// returns, until nothing is left.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	pending := []tea.Cmd{cmd}
	for steps := 0; len(pending) > 0; steps++ {
		if steps > 100000 {
			t.Fatal("drain did not settle")
		}
		c := pending[0]
		pending = pending[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			pending = append(pending, batch...)
			continue
		}
		pending = append(pending, m.Update(msg))
	}
}

func pngImage(t *testing.T, name string) *Image {
	t.Helper()
	img, err := NewImage(name, append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...))
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	return img
}
