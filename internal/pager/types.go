// Package pager speaks the Pager custom-webhook dialect: the notification
// payload the relay posts for inbound Telegram messages, and the reply
// payload Pager posts back for agent messages.
package pager

import "fmt"

// EventMessageCreated is the only event type the relay produces or consumes.
const EventMessageCreated = "message.created"

// HeaderChannelKey carries the shared channel secret in both directions.
const HeaderChannelKey = "x-channel-key"

const (
	DirectionIncoming = "incoming"

	clientExternalIDPrefix  = "tg_user"
	messageExternalIDPrefix = "tg_msg"
)

// ClientExternalID derives Pager's stable handle for a Telegram user.
func ClientExternalID(userID int64) string {
	return fmt.Sprintf("%s:%d", clientExternalIDPrefix, userID)
}

// MessageExternalID derives a unique id for one inbound Telegram message.
func MessageExternalID(userID, chatID int64, messageID int) string {
	return fmt.Sprintf("%s:%d:%d:%d", messageExternalIDPrefix, userID, chatID, messageID)
}

// Notification is the message.created event posted to Pager for an inbound
// chat message.
type Notification struct {
	Event   string              `json:"event"`
	Client  Client              `json:"client"`
	Message NotificationMessage `json:"message"`
}

type Client struct {
	ExternalID string `json:"externalId"`
	// Name is omitted from the wire entirely when empty; Pager treats an
	// empty name field differently from an absent one.
	Name string `json:"name,omitempty"`
}

type NotificationMessage struct {
	ExternalID string `json:"externalId"`
	Direction  string `json:"direction"`
	Text       string `json:"text"`
	// Attachments is always empty for now: inbound relay is text-only.
	Attachments []Attachment `json:"attachments"`
}

type Attachment struct {
	Payload *AttachmentPayload `json:"payload,omitempty"`
}

type AttachmentPayload struct {
	URL string `json:"url"`
}

// ReplyEvent is the webhook payload Pager posts when an agent replies.
type ReplyEvent struct {
	Event   string       `json:"event"`
	Client  ReplyClient  `json:"client"`
	Message ReplyMessage `json:"message"`
}

type ReplyClient struct {
	ExternalID string `json:"externalId"`
}

type ReplyMessage struct {
	Text           string       `json:"text"`
	PagerMessageID string       `json:"pagerMessageId"`
	Attachments    []Attachment `json:"attachments"`
}
