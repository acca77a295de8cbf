package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dentaflow/clinic-system/internal/core/domain"
	"github.com/dentaflow/clinic-system/internal/core/ports"
)

// Enqueuer is the asynchronous hand-off into the message dispatcher. Bound
// after construction because the dispatcher itself delivers through this
// service.
type Enqueuer interface {
	Enqueue(msg domain.OutboundMessage)
}

// MessageService routes outbound notifications to the right gateway with
// Redis-backed deduplication. The reminder job may fire more than once for
// the same appointment (restart, overlapping schedule); the dedup key makes
// the second send a no-op.
type MessageService struct {
	notifiers map[domain.MessageChannel]ports.Notifier
	dedup     ports.MessageDeduper
	queue     Enqueuer
	logger    zerolog.Logger
}

func NewMessageService(notifiers []ports.Notifier, dedup ports.MessageDeduper, logger zerolog.Logger) *MessageService {
	byChannel := make(map[domain.MessageChannel]ports.Notifier, len(notifiers))
	for _, n := range notifiers {
		byChannel[n.Channel()] = n
	}
	return &MessageService{notifiers: byChannel, dedup: dedup, logger: logger}
}

// Bind attaches the dispatcher. Until bound, Enqueue delivers synchronously
// (test setups, CLI tooling).
func (s *MessageService) Bind(queue Enqueuer) {
	s.queue = queue
}

func (s *MessageService) Enqueue(ctx context.Context, msg domain.OutboundMessage) error {
	if _, ok := s.notifiers[msg.Channel]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownChannel, msg.Channel)
	}
	if msg.To == "" || msg.Body == "" {
		return domain.ErrInvalidInput
	}

	if s.queue == nil {
		return s.Deliver(ctx, msg)
	}
	s.queue.Enqueue(msg)
	return nil
}

// Deliver performs the dedup check and the actual gateway send. Called from
// the dispatcher workers; a dedup-store failure is logged and the send
// proceeds (losing a reminder is worse than occasionally repeating one).
func (s *MessageService) Deliver(ctx context.Context, msg domain.OutboundMessage) error {
	notifier, ok := s.notifiers[msg.Channel]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownChannel, msg.Channel)
	}

	// Magic links are exempt: every request mints a fresh token and the
	// user is actively waiting for it, so a re-request must always send.
	dedupe := msg.Kind != domain.KindMagicLink

	key := dedupKey(msg)
	if dedupe {
		seen, err := s.dedup.Seen(ctx, key)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("dedup check failed, sending anyway")
		} else if seen {
			s.logger.Debug().Str("key", key).Msg("duplicate message skipped")
			return nil
		}
	}

	if err := notifier.Send(ctx, msg); err != nil {
		return fmt.Errorf("send %s message: %w", msg.Channel, err)
	}

	if dedupe {
		if err := s.dedup.Mark(ctx, key); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to set dedup key")
		}
	}

	s.logger.Info().
		Str("channel", string(msg.Channel)).
		Str("kind", string(msg.Kind)).
		Str("clinic_id", msg.ClinicID).
		Msg("message sent")
	return nil
}

// dedupKey identifies a logical message: same recipient, same trigger kind,
// same referenced entity.
func dedupKey(msg domain.OutboundMessage) string {
	return fmt.Sprintf("msg:%s:%s:%s", msg.To, msg.Kind, msg.Ref)
}
