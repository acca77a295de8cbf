package messaging

import (
	"context"

	"github.com/dentaflow/clinic-system/internal/core/domain"
)

// WhatsAppNotifier delivers messages through a WhatsApp Business API
// gateway.
type WhatsAppNotifier struct {
	gw *gatewayClient
}

// NewWhatsAppNotifier builds a notifier posting to baseURL with the given
// bearer token.
func NewWhatsAppNotifier(baseURL, token string) *WhatsAppNotifier {
	return &WhatsAppNotifier{gw: newGatewayClient(baseURL, token, domain.ChannelWhatsApp)}
}

func (n *WhatsAppNotifier) Channel() domain.MessageChannel {
	return domain.ChannelWhatsApp
}

func (n *WhatsAppNotifier) Send(ctx context.Context, msg domain.OutboundMessage) error {
	return n.gw.send(ctx, msg)
}
