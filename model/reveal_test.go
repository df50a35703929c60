package model

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

func revealTicks(t *testing.T, r *RevealScheduler, id MessageID, text string) []RevealTickMsg {
	t.Helper()
	var ticks []RevealTickMsg
	for _, msg := range collect(r.Schedule(id, text)) {
		tick, ok := msg.(RevealTickMsg)
		if !ok {
			t.Fatalf("unexpected message %T", msg)
		}
		ticks = append(ticks, tick)
	}
	return ticks
}

func TestRevealScheduleDelays(t *testing.T) {
	r := NewRevealScheduler(8 * time.Millisecond)
	var delays []time.Duration
	r.tick = func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
		delays = append(delays, d)
		return instantTick(d, fn)
	}

	ticks := revealTicks(t, r, 1, "héllo")

	if len(ticks) != utf8.RuneCountInString("héllo") {
		t.Fatalf("expected one tick per rune, got %d", len(ticks))
	}
	for i, d := range delays {
		if want := time.Duration(i) * 8 * time.Millisecond; d != want {
			t.Errorf("tick %d delay = %v, want %v", i, d, want)
		}
	}
	wantPrefixes := []string{"h", "hé", "hél", "héll", "héllo"}
	for i, tick := range ticks {
		if tick.Prefix != wantPrefixes[i] {
			t.Errorf("tick %d prefix = %q, want %q", i, tick.Prefix, wantPrefixes[i])
		}
		if tick.Final != (i == len(ticks)-1) {
			t.Errorf("tick %d final = %v", i, tick.Final)
		}
	}
}

func TestRevealScheduleLongTextIsBounded(t *testing.T) {
	r := NewRevealScheduler(8 * time.Millisecond)
	r.maxTicks = 4
	var delays []time.Duration
	r.tick = func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
		delays = append(delays, d)
		return instantTick(d, fn)
	}

	ticks := revealTicks(t, r, 1, "abcdefghij")

	wantPrefixes := []string{"abc", "abcdef", "abcdefghi", "abcdefghij"}
	if len(ticks) != len(wantPrefixes) {
		t.Fatalf("expected %d ticks, got %d", len(wantPrefixes), len(ticks))
	}
	for i, tick := range ticks {
		if tick.Prefix != wantPrefixes[i] {
			t.Errorf("tick %d prefix = %q, want %q", i, tick.Prefix, wantPrefixes[i])
		}
		if tick.Final != (i == len(ticks)-1) {
			t.Errorf("tick %d final = %v", i, tick.Final)
		}
		if want := time.Duration(i) * 8 * time.Millisecond; delays[i] != want {
			t.Errorf("tick %d delay = %v, want %v", i, delays[i], want)
		}
	}
}

func TestRevealScheduleDefaultCap(t *testing.T) {
	r := NewRevealScheduler(time.Millisecond)
	r.tick = instantTick

	text := strings.Repeat("x", 10*maxRevealTicks+3)
	ticks := revealTicks(t, r, 1, text)

	if len(ticks) > maxRevealTicks {
		t.Fatalf("scheduled %d ticks, cap is %d", len(ticks), maxRevealTicks)
	}
	if last := ticks[len(ticks)-1]; !last.Final || last.Prefix != text {
		t.Error("last tick must carry the whole text and be final")
	}
}

func TestRevealScheduleEmpty(t *testing.T) {
	r := NewRevealScheduler(time.Millisecond)
	if cmd := r.Schedule(1, ""); cmd != nil {
		t.Error("expected nil command for empty text")
	}
}

func TestRevealApplyIsMonotonic(t *testing.T) {
	tests := []struct {
		name  string
		order []int
	}{
		{"in order", []int{0, 1, 2, 3}},
		{"reversed", []int{3, 2, 1, 0}},
		{"shuffled", []int{1, 0, 3, 2}},
		{"duplicates", []int{0, 1, 1, 0, 2, 3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory()
			id := h.Append(Message{Author: AuthorAssistant, Status: StatusStreaming})
			r := NewRevealScheduler(0)
			r.tick = instantTick
			ticks := revealTicks(t, r, id, "abcd")

			shown := 0
			completions := 0
			for _, i := range tt.order {
				done, err := r.Apply(h, ticks[i])
				if err != nil {
					t.Fatalf("Apply: %v", err)
				}
				if done {
					completions++
				}
				msg, _ := h.Get(id)
				if n := len(msg.Text); n < shown {
					t.Fatalf("text shrank from %d to %d", shown, n)
				} else {
					shown = n
				}
			}

			msg, _ := h.Get(id)
			if msg.Text != "abcd" || msg.Status != StatusComplete {
				t.Errorf("final = %q (%s)", msg.Text, msg.Status)
			}
			if completions != 1 {
				t.Errorf("completed %d times", completions)
			}
		})
	}
}

func TestRevealApplyIgnoresMissingAndTerminal(t *testing.T) {
	h := NewHistory()
	failed := h.Append(Message{Author: AuthorAssistant, Text: AnalysisErrorNotice, Status: StatusFailed})
	r := NewRevealScheduler(0)

	done, err := r.Apply(h, RevealTickMsg{Message: failed, Prefix: "x", Final: true})
	if done || err != nil {
		t.Errorf("Apply on failed message = %v, %v", done, err)
	}
	if msg, _ := h.Get(failed); msg.Text != AnalysisErrorNotice {
		t.Errorf("failed message rewritten to %q", msg.Text)
	}

	done, err = r.Apply(h, RevealTickMsg{Message: 999, Prefix: "x", Final: true})
	if done || err != nil {
		t.Errorf("Apply on unknown message = %v, %v", done, err)
	}
}
