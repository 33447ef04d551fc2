// Package store persists the mapping from Pager client external ids to
// Telegram chat ids. The mapping is the relay's only durable state.
package store

import (
	"context"
	"errors"
	"time"
)

// Mapping associates a Pager client external id with the Telegram chat the
// reply must be delivered to. Created on the first inbound message from a
// user and overwritten on every subsequent one; never deleted.
type Mapping struct {
	ClientExternalID string    `json:"client_external_id"`
	ChatID           int64     `json:"chat_id"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Store abstracts persistent mapping storage.
type Store interface {
	Close() error

	// UpsertMapping writes clientExternalID -> chatID, replacing any
	// previous value (last writer wins).
	UpsertMapping(ctx context.Context, clientExternalID string, chatID int64) error

	// LookupChatID returns the mapped chat id, or ErrNotFound when no
	// inbound message has established a mapping for the client.
	LookupChatID(ctx context.Context, clientExternalID string) (int64, error)
}

var ErrNotFound = errors.New("not found")
