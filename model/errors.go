package model

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrEmptyTurn           = errors.New("turn needs text or an image")
	ErrUnknownMessage      = errors.New("unknown message")
	ErrMessageFinalized    = errors.New("message is finalized")
	ErrConversationCleared = errors.New("conversation was cleared")
	ErrInvalidTransition   = errors.New("invalid turn state transition")
)

// ErrorKind classifies adapter failures so each maps to the right notice.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota
	KindStatus
	KindDecode
	KindEmpty
	KindTimeout
	KindUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	case KindEmpty:
		return "empty result"
	case KindTimeout:
		return "timeout"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// RecognitionError is returned when text could not be extracted from an image.
type RecognitionError struct {
	Kind   ErrorKind
	Engine string
	Err    error
}

func (e *RecognitionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("recognition (%s): %s", e.Engine, e.Kind)
	}
	return fmt.Sprintf("recognition (%s): %s: %v", e.Engine, e.Kind, e.Err)
}

func (e *RecognitionError) Unwrap() error {
	return e.Err
}

// AnalysisError is returned when the analysis service could not produce a reply.
type AnalysisError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *AnalysisError) Error() string {
	msg := "analysis: " + e.Kind.String()
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// asRecognitionError normalizes whatever a Recognizer returned.
func asRecognitionError(err error, engine string) *RecognitionError {
	var re *RecognitionError
	if errors.As(err, &re) {
		return re
	}
	kind := KindNetwork
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &RecognitionError{Kind: kind, Engine: engine, Err: err}
}

// asAnalysisError normalizes whatever an Analyzer returned.
func asAnalysisError(err error) *AnalysisError {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae
	}
	kind := KindNetwork
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &AnalysisError{Kind: kind, Err: err}
}
