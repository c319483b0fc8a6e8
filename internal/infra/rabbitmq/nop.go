package rabbitmq

import (
	"context"

	"go.uber.org/zap"
)

// NopPublisher drops events. It stands in when no broker is configured.
type NopPublisher struct {
	Logger *zap.Logger
}

func (n NopPublisher) Publish(_ context.Context, pattern string, _ any) error {
	if n.Logger != nil {
		n.Logger.Debug("event dropped, no broker configured", zap.String("pattern", pattern))
	}
	return nil
}
