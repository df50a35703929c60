package model

import (
	"fmt"
	"sync"
	"time"
)

// History is the ordered message log of a session. Messages are addressed by
// the identity returned from Append, never by position, so writers stay
// correct while other turns keep appending.
//
// All writes come from the controller's update loop; the lock only makes
// snapshots safe from other goroutines.
type History struct {
	mu       sync.RWMutex
	messages []Message
	index    map[MessageID]int
	lastID   MessageID
	now      func() time.Time
}

func NewHistory() *History {
	return &History{
		index: make(map[MessageID]int),
		now:   time.Now,
	}
}

// Append stores msg with a fresh identity and returns it. A zero Timestamp is
// filled with the current time.
func (h *History) Append(msg Message) MessageID {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastID++
	msg.ID = h.lastID
	if msg.Timestamp.IsZero() {
		msg.Timestamp = h.now()
	}
	h.index[msg.ID] = len(h.messages)
	h.messages = append(h.messages, msg)
	return msg.ID
}

// UpdateText replaces the text of a non-terminal message.
func (h *History) UpdateText(id MessageID, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg, err := h.lookup(id)
	if err != nil {
		return err
	}
	if msg.Status.Terminal() {
		return fmt.Errorf("update text of message %d: %w", id, ErrMessageFinalized)
	}
	msg.Text = text
	return nil
}

// SetStatus moves a non-terminal message to status.
func (h *History) SetStatus(id MessageID, status Status) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg, err := h.lookup(id)
	if err != nil {
		return err
	}
	if msg.Status.Terminal() {
		return fmt.Errorf("set status of message %d: %w", id, ErrMessageFinalized)
	}
	msg.Status = status
	return nil
}

// Get returns a copy of the message with the given identity.
func (h *History) Get(id MessageID) (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msg, err := h.lookup(id)
	if err != nil {
		return Message{}, false
	}
	return *msg, true
}

// Snapshot returns a read-only copy of the log in append order.
func (h *History) Snapshot() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	copied := make([]Message, len(h.messages))
	copy(copied, h.messages)
	return copied
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// Clear drops every message. Identities are not reused afterwards, so stale
// references resolve to ErrUnknownMessage.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = nil
	h.index = make(map[MessageID]int)
}

// lookup requires h.mu to be held.
func (h *History) lookup(id MessageID) (*Message, error) {
	i, ok := h.index[id]
	if !ok {
		return nil, fmt.Errorf("message %d: %w", id, ErrUnknownMessage)
	}
	return &h.messages[i], nil
}
