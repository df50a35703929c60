package model

import "time"

// Author identifies who produced a message.
type Author int

const (
	AuthorUser Author = iota
	AuthorAssistant
)

func (a Author) String() string {
	switch a {
	case AuthorUser:
		return "user"
	case AuthorAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// Status tracks the lifecycle of a message. Complete and Failed are terminal.
type Status int

const (
	StatusPending Status = iota
	StatusStreaming
	StatusComplete
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusStreaming:
		return "streaming"
	case StatusComplete:
		return "complete"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further changes are allowed.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// MessageID is the stable identity assigned by History.Append.
type MessageID uint64

// Message represents a chat message in the conversation
type Message struct {
	ID        MessageID
	Author    Author
	Text      string
	Image     *Image // user messages only; never mutated after submission
	Status    Status
	Timestamp time.Time
}

// Placeholder and failure notices shown in assistant messages.
const (
	PendingIndicator       = "…"
	NoDescriptionNotice    = "No description generated."
	RecognitionErrorNotice = "Could not read any text from the image."
	AnalysisErrorNotice    = "Error processing your request."
)
