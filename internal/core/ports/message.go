package ports

import (
	"context"

	"github.com/dentaflow/clinic-system/internal/core/domain"
)

// Notifier delivers a single message through one gateway (WhatsApp, Viber).
// Implementations live under internal/infrastructure/messaging.
type Notifier interface {
	Channel() domain.MessageChannel
	Send(ctx context.Context, msg domain.OutboundMessage) error
}

// MessageDeduper suppresses repeated sends of the same logical message.
// Mark records a key for a bounded TTL; Seen reports whether it was already
// marked.
type MessageDeduper interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

// MessageService queues outbound notifications. Enqueue is asynchronous:
// delivery happens on the dispatcher's workers, ordered per recipient.
type MessageService interface {
	Enqueue(ctx context.Context, msg domain.OutboundMessage) error
	// Deliver performs the synchronous send for one message; called by the
	// dispatcher workers, exported for them alone.
	Deliver(ctx context.Context, msg domain.OutboundMessage) error
}
