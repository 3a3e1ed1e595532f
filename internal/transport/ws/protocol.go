package ws

import "github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"

// Message types from client to server
const (
	TypeChat = "chat"
)

// Message types from server to client
const (
	TypeReply = "reply"
	TypeError = "error"
)

// Error codes
const (
	ErrorCodeInvalidMessage = "invalid_message"
	ErrorCodeNotFound       = "not_found"
	ErrorCodeInternal       = "internal_error"
)

// BaseMessage contains common fields for all messages.
type BaseMessage struct {
	Type      string `json:"type"`
	Ts        int64  `json:"ts"`
	RequestID string `json:"request_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatMessage is one utterance sent by the client.
type ChatMessage struct {
	BaseMessage
	Prompt string `json:"prompt"`
}

// ReplyMessage carries the router envelope of a turn.
type ReplyMessage struct {
	BaseMessage
	TurnID  string `json:"turn_id"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorMessage reports a request that could not start a turn.
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newReply(req ChatMessage, resp *domain.ChatResponse, ts int64) ReplyMessage {
	return ReplyMessage{
		BaseMessage: BaseMessage{Type: TypeReply, Ts: ts, RequestID: req.RequestID, SessionID: req.SessionID},
		TurnID:      resp.TurnID,
		Message:     resp.Message,
		Data:        resp.Data,
	}
}
