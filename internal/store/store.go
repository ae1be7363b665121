// Package store persists the inbound/outbound message log. Persistence is
// best-effort: callers log failures and keep serving the webhook.
package store

import (
	"context"
	"time"
)

// Direction of a logged message.
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// MessageRecord is one logged message.
type MessageRecord struct {
	ID        string
	Sender    string
	Direction string
	Body      string
	CreatedAt time.Time
}

// MessageStore writes message records.
type MessageStore interface {
	SaveMessage(ctx context.Context, rec MessageRecord) error
	Close()
}
