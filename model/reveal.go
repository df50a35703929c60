package model

import (
	"errors"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// maxRevealTicks bounds the timers started for one reply. Longer replies
// reveal several runes per tick.
const maxRevealTicks = 2000

// RevealScheduler turns a finished reply into a typewriter animation. Every
// rune gets its own tick carrying the full prefix up to and including that
// rune, so late or reordered ticks can never shrink what is on screen.
type RevealScheduler struct {
	delay    time.Duration
	maxTicks int
	shown    map[MessageID]int
	tick     func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

func NewRevealScheduler(delay time.Duration) *RevealScheduler {
	if delay < 0 {
		delay = 0
	}
	return &RevealScheduler{
		delay:    delay,
		maxTicks: maxRevealTicks,
		shown:    make(map[MessageID]int),
		tick:     tea.Tick,
	}
}

func (r *RevealScheduler) Delay() time.Duration {
	return r.delay
}

// Schedule returns the ticks revealing text into message id. The k-th tick
// fires after k*delay and normally adds one rune; past maxTicks runes each
// tick adds an equal share. It returns nil for empty text; callers complete
// such messages directly.
func (r *RevealScheduler) Schedule(id MessageID, text string) tea.Cmd {
	if text == "" {
		return nil
	}
	r.shown[id] = 0

	n := utf8.RuneCountInString(text)
	step := 1
	if r.maxTicks > 0 && n > r.maxTicks {
		step = (n + r.maxTicks - 1) / r.maxTicks
	}

	cmds := make([]tea.Cmd, 0, (n+step-1)/step)
	i := 0
	for offset := range text {
		i++
		if i%step != 0 && i != n {
			continue
		}
		tick := RevealTickMsg{
			Message: id,
			Prefix:  text[:offset+runeSize(text[offset:])],
			Final:   i == n,
		}
		cmds = append(cmds, r.tick(time.Duration(len(cmds))*r.delay, func(time.Time) tea.Msg {
			return tick
		}))
	}
	return tea.Batch(cmds...)
}

// runeSize is the byte width of the first rune of s, 1 for an invalid byte.
func runeSize(s string) int {
	_, size := utf8.DecodeRuneInString(s)
	return size
}

// Apply writes tick into h. It reports whether the message reached
// StatusComplete as a result. Ticks for unknown or finalized messages and
// ticks not longer than what is already shown change nothing.
func (r *RevealScheduler) Apply(h *History, tick RevealTickMsg) (bool, error) {
	msg, ok := h.Get(tick.Message)
	if !ok || msg.Status.Terminal() {
		return false, nil
	}

	length := utf8.RuneCountInString(tick.Prefix)
	if length > r.shown[tick.Message] {
		if err := h.UpdateText(tick.Message, tick.Prefix); err != nil {
			return false, ignoreStale(err)
		}
		r.shown[tick.Message] = length
	}
	if !tick.Final {
		return false, nil
	}

	if err := h.SetStatus(tick.Message, StatusComplete); err != nil {
		return false, ignoreStale(err)
	}
	delete(r.shown, tick.Message)
	return true, nil
}

// Forget drops the progress kept for id.
func (r *RevealScheduler) Forget(id MessageID) {
	delete(r.shown, id)
}

// Reset drops all progress. Ticks still in flight resolve to unknown
// messages once the history has been cleared.
func (r *RevealScheduler) Reset() {
	r.shown = make(map[MessageID]int)
}

func ignoreStale(err error) error {
	if errors.Is(err, ErrUnknownMessage) || errors.Is(err, ErrMessageFinalized) {
		return nil
	}
	return err
}
