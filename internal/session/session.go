// Package session keeps the per-user conversation state of the chat front-end.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a Store when no session exists for the user.
var ErrNotFound = errors.New("session not found")

// State is a step of the conversation state machine.
type State string

const (
	StateIdle                State = "IDLE"
	StateAwaitTaskDesc       State = "AWAIT_TASK_DESC"
	StateAwaitTaskIDForGet   State = "AWAIT_TASK_ID_FOR_GET"
	StateAwaitTaskUpdatePair State = "AWAIT_TASK_UPDATE_PAIR"
	StateAwaitTaskIDForDel   State = "AWAIT_TASK_ID_FOR_DELETE"
	StateAwaitUserAddInfo    State = "AWAIT_USER_ADD_INFO"
	StateAwaitUserDeleteID   State = "AWAIT_USER_DELETE_ID"
	StateAwaitUserEditInfo   State = "AWAIT_USER_EDIT_INFO"
	StateAwaitDomainList     State = "AWAIT_DOMAIN_LIST"
)

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	switch s {
	case StateIdle, StateAwaitTaskDesc, StateAwaitTaskIDForGet, StateAwaitTaskUpdatePair,
		StateAwaitTaskIDForDel, StateAwaitUserAddInfo, StateAwaitUserDeleteID,
		StateAwaitUserEditInfo, StateAwaitDomainList:
		return true
	}
	return false
}

// Field is one value collected while an interaction is in progress.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Session is the conversation state of one user. Pending holds fields
// collected so far, in the order they were first set.
type Session struct {
	UserID    string    `json:"user_id"`
	State     State     `json:"state"`
	Pending   []Field   `json:"pending,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns an idle session for userID.
func New(userID string) *Session {
	return &Session{
		UserID:    userID,
		State:     StateIdle,
		UpdatedAt: time.Now(),
	}
}

// Enter moves the session to st and drops any partially collected fields.
func (s *Session) Enter(st State) {
	s.State = st
	s.Pending = nil
	s.UpdatedAt = time.Now()
}

// Set records a pending field. Overwriting keeps the field's original position.
func (s *Session) Set(name, value string) {
	for i := range s.Pending {
		if s.Pending[i].Name == name {
			s.Pending[i].Value = value
			return
		}
	}
	s.Pending = append(s.Pending, Field{Name: name, Value: value})
}

// Get returns a pending field.
func (s *Session) Get(name string) (string, bool) {
	for _, f := range s.Pending {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Reset returns the session to idle.
func (s *Session) Reset() {
	s.Enter(StateIdle)
}

// IsIdle reports whether no interaction is in progress.
func (s *Session) IsIdle() bool {
	return s.State == StateIdle || s.State == ""
}

// Store persists sessions.
type Store interface {
	// Load returns the session for userID or ErrNotFound.
	Load(ctx context.Context, userID string) (*Session, error)

	// Save creates or replaces the session.
	Save(ctx context.Context, s *Session) error

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, userID string) error
}
