package messaging

import (
	"context"

	"github.com/dentaflow/clinic-system/internal/core/domain"
)

// ViberNotifier delivers messages through a Viber REST gateway. Greek
// clinics lean heavily on Viber, so it is a first-class channel, not a
// fallback.
type ViberNotifier struct {
	gw *gatewayClient
}

func NewViberNotifier(baseURL, token string) *ViberNotifier {
	return &ViberNotifier{gw: newGatewayClient(baseURL, token, domain.ChannelViber)}
}

func (n *ViberNotifier) Channel() domain.MessageChannel {
	return domain.ChannelViber
}

func (n *ViberNotifier) Send(ctx context.Context, msg domain.OutboundMessage) error {
	return n.gw.send(ctx, msg)
}
