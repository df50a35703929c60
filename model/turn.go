package model

import "fmt"

type TurnID uint64

type TurnState int

const (
	TurnIdle TurnState = iota
	TurnCapturingInput
	TurnRecognizing
	TurnRequesting
	TurnRevealing
	TurnDone
	TurnFailed
)

func (s TurnState) String() string {
	switch s {
	case TurnIdle:
		return "idle"
	case TurnCapturingInput:
		return "capturing input"
	case TurnRecognizing:
		return "recognizing"
	case TurnRequesting:
		return "requesting"
	case TurnRevealing:
		return "revealing"
	case TurnDone:
		return "done"
	case TurnFailed:
		return "failed"
	default:
		return fmt.Sprintf("TurnState(%d)", int(s))
	}
}

func (s TurnState) Terminal() bool {
	return s == TurnDone || s == TurnFailed
}

// Active reports whether the turn's pipeline is running.
func (s TurnState) Active() bool {
	return s == TurnRecognizing || s == TurnRequesting || s == TurnRevealing
}

var turnTransitions = map[TurnState][]TurnState{
	TurnIdle:           {TurnCapturingInput},
	TurnCapturingInput: {TurnRecognizing, TurnRequesting, TurnFailed},
	TurnRecognizing:    {TurnRequesting, TurnFailed},
	TurnRequesting:     {TurnRevealing, TurnFailed},
	TurnRevealing:      {TurnDone, TurnFailed},
}

// Turn is one submission: the user's message, the assistant message it owns
// and the text that was sent for analysis.
type Turn struct {
	ID               TurnID
	State            TurnState
	UserMessage      MessageID
	AssistantMessage MessageID
	Text             string
	Image            *Image
	Derived          string
	Err              error

	started   bool
	finalized bool
}

func (t *Turn) advance(next TurnState) error {
	for _, allowed := range turnTransitions[t.State] {
		if allowed == next {
			t.State = next
			return nil
		}
	}
	return fmt.Errorf("turn %d: %s -> %s: %w", t.ID, t.State, next, ErrInvalidTransition)
}
