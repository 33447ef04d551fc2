package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"

	"github.com/pagerhq/pagerbridge/internal/pager"
	"github.com/pagerhq/pagerbridge/internal/telegram"
)

const webhookMaxBodyBytes int64 = 1 << 20 // 1 MiB

type mappingWriter interface {
	UpsertMapping(ctx context.Context, clientExternalID string, chatID int64) error
}

type notifier interface {
	Notify(ctx context.Context, n pager.Notification)
}

// TelegramWebhookHandler receives Telegram push updates and forwards private
// text messages to Pager. It must answer 200 fast no matter what, so the
// platform never retries or queues pending updates: all processing failures
// are logged and swallowed.
type TelegramWebhookHandler struct {
	logger   *slog.Logger
	store    mappingWriter
	notifier notifier
}

func NewTelegramWebhookHandler(log *slog.Logger, store mappingWriter, notifier notifier) *TelegramWebhookHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TelegramWebhookHandler{
		logger:   log.With(slog.String("handler", "telegram_webhook")),
		store:    store,
		notifier: notifier,
	}
}

func (h *TelegramWebhookHandler) Register(e *echo.Echo) {
	e.POST("/telegram/webhook", h.Handle)
}

// Handle acknowledges every update with {"ok": true}.
func (h *TelegramWebhookHandler) Handle(c echo.Context) error {
	if err := h.process(c); err != nil {
		h.logger.Error("webhook processing failed", slog.Any("error", err))
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (h *TelegramWebhookHandler) process(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, webhookMaxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if int64(len(payload)) > webhookMaxBodyBytes {
		return fmt.Errorf("payload too large: max %d bytes", webhookMaxBodyBytes)
	}
	var upd tgbotapi.Update
	if err := json.Unmarshal(payload, &upd); err != nil {
		return fmt.Errorf("decode update: %w", err)
	}

	msg := upd.Message
	if msg == nil || msg.Chat == nil || msg.From == nil {
		return nil
	}
	// Group/channel traffic is out of scope; the relay only bridges 1:1
	// conversations.
	if !msg.Chat.IsPrivate() {
		return nil
	}
	// Text-only policy: photos/voice/documents without a caption are
	// dropped silently.
	text := telegram.MessageText(msg)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	externalID := pager.ClientExternalID(msg.From.ID)
	// Detach from the request context: the ack must not cancel the upsert
	// or the notify mid-flight.
	ctx := context.WithoutCancel(c.Request().Context())
	if err := h.store.UpsertMapping(ctx, externalID, msg.Chat.ID); err != nil {
		return fmt.Errorf("upsert mapping %s: %w", externalID, err)
	}

	n := pager.Notification{
		Event: pager.EventMessageCreated,
		Client: pager.Client{
			ExternalID: externalID,
			Name:       telegram.DisplayName(msg.From),
		},
		Message: pager.NotificationMessage{
			ExternalID:  pager.MessageExternalID(msg.From.ID, msg.Chat.ID, msg.MessageID),
			Direction:   pager.DirectionIncoming,
			Text:        text,
			Attachments: []pager.Attachment{},
		},
	}
	h.logger.Info("inbound message",
		slog.String("client_external_id", externalID),
		slog.Int64("chat_id", msg.Chat.ID),
		slog.Int("message_id", msg.MessageID),
	)
	h.notifier.Notify(ctx, n)
	return nil
}
