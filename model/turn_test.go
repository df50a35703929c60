package model

import (
	"errors"
	"testing"
)

func TestTurnTransitions(t *testing.T) {
	tests := []struct {
		from    TurnState
		to      TurnState
		allowed bool
	}{
		{TurnIdle, TurnCapturingInput, true},
		{TurnCapturingInput, TurnRecognizing, true},
		{TurnCapturingInput, TurnRequesting, true},
		{TurnCapturingInput, TurnFailed, true},
		{TurnRecognizing, TurnRequesting, true},
		{TurnRecognizing, TurnFailed, true},
		{TurnRequesting, TurnRevealing, true},
		{TurnRequesting, TurnFailed, true},
		{TurnRevealing, TurnDone, true},
		{TurnRevealing, TurnFailed, true},
		{TurnIdle, TurnRequesting, false},
		{TurnRecognizing, TurnRevealing, false},
		{TurnDone, TurnFailed, false},
		{TurnFailed, TurnRequesting, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+" to "+tt.to.String(), func(t *testing.T) {
			turn := &Turn{ID: 1, State: tt.from}
			err := turn.advance(tt.to)
			if tt.allowed {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if turn.State != tt.to {
					t.Errorf("state = %s", turn.State)
				}
				return
			}
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
			if turn.State != tt.from {
				t.Errorf("state changed to %s on rejected transition", turn.State)
			}
		})
	}
}

func TestTurnStateHelpers(t *testing.T) {
	if !TurnDone.Terminal() || !TurnFailed.Terminal() || TurnRevealing.Terminal() {
		t.Error("unexpected Terminal() results")
	}
	if !TurnRequesting.Active() || TurnCapturingInput.Active() || TurnDone.Active() {
		t.Error("unexpected Active() results")
	}
}
