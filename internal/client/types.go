// Package client provides WebSocket and HTTP clients for the identity
// provider, plus an in-memory provider for tests and offline runs.
// Wire types mirror internal/idp without importing it.
package client

import (
	"encoding/json"

	"github.com/tplgallery/header/internal/session"
)

// MessageType identifies the kind of WebSocket message.
type MessageType string

const (
	MsgSession MessageType = "session"
	MsgError   MessageType = "error"
)

// WSMessage is the envelope for all WebSocket messages.
type WSMessage struct {
	Type    MessageType     `json:"type"`
	Seq     uint64          `json:"seq"`
	Payload json.RawMessage `json:"payload"`
}

// SessionPayload carries the current session; Session is nil when signed out.
type SessionPayload struct {
	Session *session.Session `json:"session"`
}

// ErrorPayload is a server-side error report.
type ErrorPayload struct {
	Message string `json:"message"`
}
