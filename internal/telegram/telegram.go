// Package telegram wraps the Bot API client used to deliver agent replies
// and provides extraction helpers for inbound webhook updates.
package telegram

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxMessageLength = 4096

// Sender delivers plain-text messages through one long-lived bot client,
// shared across all in-flight requests.
type Sender struct {
	logger *slog.Logger
	bot    *tgbotapi.BotAPI
}

// NewSender validates the token against the Bot API and returns a Sender.
// A rejected token is a startup failure.
func NewSender(log *slog.Logger, token string) (*Sender, error) {
	if log == nil {
		log = slog.Default()
	}
	logger := log.With(slog.String("component", "telegram"))
	_ = tgbotapi.SetLogger(&slogBotLogger{log: logger})
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	logger.Info("bot authorized", slog.String("username", bot.Self.UserName))
	return &Sender{logger: logger, bot: bot}, nil
}

// SendText sends one message to a chat and returns the platform-assigned
// message id.
func (s *Sender) SendText(ctx context.Context, chatID int64, text string) (int, error) {
	text = truncateText(sanitizeText(text))
	sent, err := s.bot.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// MessageText returns the message body, falling back to the media caption
// when the body is absent.
func MessageText(msg *tgbotapi.Message) string {
	if msg == nil {
		return ""
	}
	if msg.Text != "" {
		return msg.Text
	}
	return msg.Caption
}

// DisplayName builds the user's display name from first and last name,
// falling back to the username.
func DisplayName(user *tgbotapi.User) string {
	if user == nil {
		return ""
	}
	name := strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName))
	if name == "" {
		name = strings.TrimSpace(user.UserName)
	}
	return name
}

// sanitizeText ensures text is valid UTF-8 for the Bot API.
func sanitizeText(text string) string {
	if utf8.ValidString(text) {
		return text
	}
	return strings.ToValidUTF8(text, "")
}

// truncateText truncates to maxMessageLength on a valid UTF-8 rune
// boundary, appending "..." when truncation occurs.
func truncateText(text string) string {
	if len(text) <= maxMessageLength {
		return text
	}
	const suffix = "..."
	limit := maxMessageLength - len(suffix)
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit] + suffix
}
