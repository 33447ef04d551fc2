package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestMessageText(t *testing.T) {
	t.Parallel()

	if got := MessageText(nil); got != "" {
		t.Fatalf("expected empty text for nil message, got %q", got)
	}
	if got := MessageText(&tgbotapi.Message{Text: "hello"}); got != "hello" {
		t.Fatalf("unexpected text: %q", got)
	}
	if got := MessageText(&tgbotapi.Message{Caption: "from caption"}); got != "from caption" {
		t.Fatalf("expected caption fallback, got %q", got)
	}
	if got := MessageText(&tgbotapi.Message{Text: "body", Caption: "caption"}); got != "body" {
		t.Fatalf("text must win over caption, got %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	if got := DisplayName(nil); got != "" {
		t.Fatalf("expected empty name for nil user, got %q", got)
	}
	if got := DisplayName(&tgbotapi.User{FirstName: "Alice", LastName: "Example"}); got != "Alice Example" {
		t.Fatalf("unexpected name: %q", got)
	}
	if got := DisplayName(&tgbotapi.User{FirstName: " Alice "}); got != "Alice" {
		t.Fatalf("expected trimmed first name, got %q", got)
	}
	if got := DisplayName(&tgbotapi.User{UserName: "alice42"}); got != "alice42" {
		t.Fatalf("expected username fallback, got %q", got)
	}
}

func TestSanitizeTextStripsInvalidUTF8(t *testing.T) {
	t.Parallel()

	valid := "привіт 👋"
	if got := sanitizeText(valid); got != valid {
		t.Fatalf("valid text must pass through unchanged: %q", got)
	}

	broken := "hello" + string([]byte{0xff, 0xfe})
	got := sanitizeText(broken)
	if !utf8.ValidString(got) {
		t.Fatalf("sanitized text still invalid: %q", got)
	}
	if !strings.HasPrefix(got, "hello") {
		t.Fatalf("valid prefix lost: %q", got)
	}
}

func TestTruncateTextKeepsRuneBoundary(t *testing.T) {
	t.Parallel()

	short := "short"
	if got := truncateText(short); got != short {
		t.Fatalf("short text must not be truncated: %q", got)
	}

	long := strings.Repeat("є", maxMessageLength) // 2 bytes per rune
	got := truncateText(long)
	if len(got) > maxMessageLength {
		t.Fatalf("truncated text too long: %d", len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncation broke a rune: %q", got[len(got)-8:])
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatal("expected ellipsis suffix")
	}
}
