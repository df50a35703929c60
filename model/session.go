package model

import "github.com/google/uuid"

// Session is the conversation owned by one client run: an identifier sent
// with every analysis request and the message history.
type Session struct {
	ID      string
	History *History
}

// NewSession creates a session with a random UUID.
func NewSession() *Session {
	return &Session{
		ID:      uuid.New().String(),
		History: NewHistory(),
	}
}
