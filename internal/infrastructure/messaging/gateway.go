package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dentaflow/clinic-system/internal/api/metrics"
	"github.com/dentaflow/clinic-system/internal/core/domain"
)

const sendTimeout = 10 * time.Second

// gatewayClient is the shared HTTP plumbing behind both notifiers: a JSON
// POST to <baseURL>/messages with a bearer token.
type gatewayClient struct {
	baseURL string
	token   string
	channel domain.MessageChannel
	client  *http.Client
}

func newGatewayClient(baseURL, token string, channel domain.MessageChannel) *gatewayClient {
	return &gatewayClient{
		baseURL: baseURL,
		token:   token,
		channel: channel,
		client:  &http.Client{Timeout: sendTimeout},
	}
}

type gatewayPayload struct {
	To   string `json:"to"`
	Body string `json:"body"`
	Kind string `json:"kind,omitempty"`
}

func (g *gatewayClient) send(ctx context.Context, msg domain.OutboundMessage) error {
	body, err := json.Marshal(gatewayPayload{
		To:   msg.To,
		Body: msg.Body,
		Kind: string(msg.Kind),
	})
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", g.channel, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", g.channel, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.token)

	resp, err := g.client.Do(req)
	if err != nil {
		metrics.MessagesErrorsTotal.WithLabelValues(string(g.channel)).Inc()
		return fmt.Errorf("%s gateway: %w", g.channel, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		metrics.MessagesErrorsTotal.WithLabelValues(string(g.channel)).Inc()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s gateway returned %d: %s", g.channel, resp.StatusCode, detail)
	}

	metrics.MessagesSentTotal.WithLabelValues(string(g.channel), string(msg.Kind)).Inc()
	return nil
}
