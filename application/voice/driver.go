package voice

import (
	"context"

	"github.com/kakilabs/kaki-backend/constant"
)

// SessionEvents is the callback surface a driver feeds session events
// into. Any nil callback is skipped.
type SessionEvents struct {
	OnConnect      func(conversationID string)
	OnDisconnect   func(reason string)
	OnError        func(err error)
	OnMessage      func(source constant.MessageSource, text string)
	OnModeChange   func(mode constant.SessionMode)
	OnStatusChange func(status string)
}

// SessionConn is an established voice session. Close ends it; the
// driver reports the resulting disconnect through SessionEvents.
type SessionConn interface {
	Close() error
}

// Driver abstracts the transport to the conversational-voice provider
// so the manager works the same over the native WebSocket path or a
// test double.
type Driver interface {
	Dial(ctx context.Context, agentID string, metadata map[string]string, events SessionEvents) (SessionConn, error)
	FallbackURL(agentID string) string
}
