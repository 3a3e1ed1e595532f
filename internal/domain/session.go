package domain

import (
	"encoding/json"
	"time"
)

// Session is a chat conversation owned by one subject.
type Session struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is a single transcript entry in a session.
type Message struct {
	MessageID string          `json:"message_id"`
	SessionID string          `json:"session_id"`
	TurnID    string          `json:"turn_id,omitempty"`
	UserID    string          `json:"user_id"`
	Role      string          `json:"role"` // user, assistant
	Content   string          `json:"content"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Event is an audit record of one router decision within a turn.
type Event struct {
	EventID   string          `json:"event_id"`
	TurnID    string          `json:"turn_id"`
	SessionID string          `json:"session_id,omitempty"`
	Ts        int64           `json:"ts"` // Unix milliseconds
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewEvent builds an event with a JSON payload.
func NewEvent(eventID, turnID, sessionID string, ts time.Time, typ EventType, payload any) *Event {
	return &Event{
		EventID:   eventID,
		TurnID:    turnID,
		SessionID: sessionID,
		Ts:        ts.UnixMilli(),
		Type:      typ,
		Payload:   rawJSON(payload),
	}
}

// Draft is a partially supplied creation request.
type Draft struct {
	SubjectID string         `json:"subject_id"`
	Kind      DraftKind      `json:"kind"`
	Fields    map[string]any `json:"fields"`
	UpdatedAt time.Time      `json:"updated_at"`
}
