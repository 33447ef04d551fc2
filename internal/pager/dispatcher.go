package pager

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// notifyTimeout bounds the whole outbound call; a timeout is treated
	// the same as an HTTP error.
	notifyTimeout = 15 * time.Second

	// maxErrorBodyBytes caps how much of a failure response gets logged.
	maxErrorBodyBytes = 800
)

// Dispatcher posts message.created notifications to Pager. Delivery is
// best-effort: failures are logged and swallowed so the inbound webhook
// never blocks on, or fails because of, Pager availability.
type Dispatcher struct {
	logger     *slog.Logger
	endpoint   string
	channelKey string
	client     *http.Client
}

func NewDispatcher(log *slog.Logger, endpoint, channelKey string) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		logger:     log.With(slog.String("component", "pager_dispatcher")),
		endpoint:   endpoint,
		channelKey: channelKey,
		client:     &http.Client{Timeout: notifyTimeout},
	}
}

// Notify sends one notification. It never reports failure to the caller.
func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	body, err := json.Marshal(n)
	if err != nil {
		d.logger.Error("marshal notification failed", slog.Any("error", err))
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		d.logger.Error("build notify request failed", slog.Any("error", err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderChannelKey, d.channelKey)

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Error("pager inbound delivery failed",
			slog.String("message_external_id", n.Message.ExternalID),
			slog.Any("error", err),
		)
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		d.logger.Error("pager inbound error",
			slog.Int("status", resp.StatusCode),
			slog.String("message_external_id", n.Message.ExternalID),
			slog.String("body", string(snippet)),
		)
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	d.logger.Debug("pager inbound delivered",
		slog.Int("status", resp.StatusCode),
		slog.String("message_external_id", n.Message.ExternalID),
	)
}
