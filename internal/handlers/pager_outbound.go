package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pagerhq/pagerbridge/internal/pager"
	"github.com/pagerhq/pagerbridge/internal/store"
)

// maxAttachmentURLs caps how many attachment links one reply may carry.
const maxAttachmentURLs = 20

type mappingReader interface {
	LookupChatID(ctx context.Context, clientExternalID string) (int64, error)
}

type chatSender interface {
	SendText(ctx context.Context, chatID int64, text string) (int, error)
}

// OutboundResponse acknowledges a reply webhook with the relay-side id of
// what was delivered.
type OutboundResponse struct {
	ExternalMessageID string `json:"externalMessageId"`
}

// PagerOutboundHandler receives agent replies from Pager and delivers them
// to the mapped Telegram chat.
type PagerOutboundHandler struct {
	logger     *slog.Logger
	channelKey string
	store      mappingReader
	sender     chatSender
}

func NewPagerOutboundHandler(log *slog.Logger, channelKey string, store mappingReader, sender chatSender) *PagerOutboundHandler {
	if log == nil {
		log = slog.Default()
	}
	return &PagerOutboundHandler{
		logger:     log.With(slog.String("handler", "pager_outbound")),
		channelKey: channelKey,
		store:      store,
		sender:     sender,
	}
}

func (h *PagerOutboundHandler) Register(e *echo.Echo) {
	e.POST("/pager/outbound", h.Handle)
}

func (h *PagerOutboundHandler) Handle(c echo.Context) error {
	if c.Request().Header.Get(pager.HeaderChannelKey) != h.channelKey {
		return echo.NewHTTPError(http.StatusUnauthorized, "bad x-channel-key")
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, webhookMaxBodyBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("read body: %v", err))
	}
	if int64(len(payload)) > webhookMaxBodyBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("payload too large: max %d bytes", webhookMaxBodyBytes))
	}
	var ev pager.ReplyEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
	}

	// Other event types are valid but irrelevant; acknowledge without
	// delivering anything.
	if ev.Event != pager.EventMessageCreated {
		return c.JSON(http.StatusOK, OutboundResponse{ExternalMessageID: "ignored"})
	}

	externalID := strings.TrimSpace(ev.Client.ExternalID)
	if externalID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing client.externalId")
	}

	ctx := c.Request().Context()
	chatID, err := h.store.LookupChatID(ctx, externalID)
	if errors.Is(err, store.ErrNotFound) {
		// The relay cannot invent a destination: delivery is only
		// possible after the client has messaged the bot at least once.
		return echo.NewHTTPError(http.StatusBadRequest, "unknown client.externalId (no mapping yet)")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("mapping lookup: %v", err))
	}

	lastSentID := 0
	sent := false

	if text := strings.TrimSpace(ev.Message.Text); text != "" {
		id, err := h.sender.SendText(ctx, chatID, text)
		if err != nil {
			h.logger.Error("send reply text failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
			return echo.NewHTTPError(http.StatusBadGateway, "telegram send failed")
		}
		lastSentID = id
		sent = true
	}

	// Attachments go out as plain links for now, one message with all URLs.
	if urls := collectAttachmentURLs(ev.Message.Attachments); len(urls) > 0 {
		id, err := h.sender.SendText(ctx, chatID, strings.Join(urls, "\n"))
		if err != nil {
			h.logger.Error("send reply attachments failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
			return echo.NewHTTPError(http.StatusBadGateway, "telegram send failed")
		}
		lastSentID = id
		sent = true
	}

	externalMessageID := fmt.Sprintf("pager:%s", ev.Message.PagerMessageID)
	if sent {
		externalMessageID = fmt.Sprintf("bot:%d:%d", chatID, lastSentID)
	}
	h.logger.Info("reply handled",
		slog.String("client_external_id", externalID),
		slog.Int64("chat_id", chatID),
		slog.Bool("delivered", sent),
	)
	return c.JSON(http.StatusOK, OutboundResponse{ExternalMessageID: externalMessageID})
}

func collectAttachmentURLs(attachments []pager.Attachment) []string {
	urls := make([]string, 0, len(attachments))
	for _, att := range attachments {
		if len(urls) == maxAttachmentURLs {
			break
		}
		if att.Payload == nil {
			continue
		}
		if url := strings.TrimSpace(att.Payload.URL); url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}
