package model

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"healthchat/config"
)

var errNoRecognizer = errors.New("no text recognition engine configured")

func recognizeCmd(turn TurnID, img *Image, recognizer Recognizer, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if recognizer == nil {
			return RecognitionDoneMsg{
				Turn: turn,
				Err:  &RecognitionError{Kind: KindUnavailable, Engine: "none", Err: errNoRecognizer},
			}
		}

		ctx, cancel := withTimeout(timeout)
		defer cancel()

		start := time.Now()
		text, err := recognizer.ExtractText(ctx, img)
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] turn %d: %s recognition of %q took %v (err=%v)", turn, recognizer.Name(), img.Name, time.Since(start), err)
		}
		return RecognitionDoneMsg{Turn: turn, Text: text, Err: err}
	}
}

func analyzeCmd(turn TurnID, text, sessionID string, analyzer Analyzer, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		start := time.Now()
		description, err := analyzer.Analyze(ctx, text, sessionID)
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] turn %d: analysis took %v (err=%v)", turn, time.Since(start), err)
		}
		return AnalysisDoneMsg{Turn: turn, Description: description, Err: err}
	}
}

func withTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}
