package idp

import "github.com/tplgallery/header/internal/session"

type MessageType string

const (
	MsgSession MessageType = "session"
	MsgError   MessageType = "error"
	MsgResync  MessageType = "resync"
)

// WSMessage is the envelope for server frames.
type WSMessage struct {
	Type    MessageType `json:"type"`
	Seq     uint64      `json:"seq"`
	Payload interface{} `json:"payload"`
}

// SessionPayload carries the current session; Session is null when
// signed out.
type SessionPayload struct {
	Session *session.Session `json:"session"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// ClientMessage is a frame sent by a client.
type ClientMessage struct {
	Type MessageType `json:"type"`
}

// StartRequest is the body of POST /api/session/start.
type StartRequest struct {
	UID string `json:"uid"`
}
