package session

import (
	"context"

	"voice-order-service/internal/dialogue"
)

// Conversation is what a transport must remember between turns.
type Conversation struct {
	State *dialogue.OrderState `json:"state"`
	Step  dialogue.Step        `json:"step"`
}

// Store keeps conversations keyed by a transport-specific id. Get returns
// a zero Conversation for unknown or expired keys.
type Store interface {
	Get(ctx context.Context, key string) (Conversation, error)
	Save(ctx context.Context, key string, c Conversation) error
	Delete(ctx context.Context, key string) error
}
