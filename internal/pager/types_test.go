package pager

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestClientExternalID(t *testing.T) {
	t.Parallel()

	if got := ClientExternalID(42); got != "tg_user:42" {
		t.Fatalf("unexpected client external id: %s", got)
	}
	if got := ClientExternalID(42); got != ClientExternalID(42) {
		t.Fatal("client external id must be stable")
	}
}

func TestMessageExternalID(t *testing.T) {
	t.Parallel()

	if got := MessageExternalID(42, 4242, 7); got != "tg_msg:42:4242:7" {
		t.Fatalf("unexpected message external id: %s", got)
	}
}

func TestNotificationOmitsEmptyClientName(t *testing.T) {
	t.Parallel()

	n := Notification{
		Event:  EventMessageCreated,
		Client: Client{ExternalID: "tg_user:42"},
		Message: NotificationMessage{
			ExternalID:  MessageExternalID(42, 4242, 7),
			Direction:   DirectionIncoming,
			Text:        "hello",
			Attachments: []Attachment{},
		},
	}
	b, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(b)
	if strings.Contains(body, `"name"`) {
		t.Fatalf("empty name must be absent from the payload: %s", body)
	}
	if !strings.Contains(body, `"attachments":[]`) {
		t.Fatalf("attachments must be an empty array, not null: %s", body)
	}
}

func TestReplyEventDecodesOptionalPayload(t *testing.T) {
	t.Parallel()

	body := `{
		"event": "message.created",
		"client": {"externalId": "tg_user:42"},
		"message": {
			"text": "",
			"pagerMessageId": "pm_1",
			"attachments": [
				{"payload": {"url": "https://files.example/a.pdf"}},
				{}
			]
		}
	}`
	var ev ReplyEvent
	if err := json.Unmarshal([]byte(body), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Event != EventMessageCreated {
		t.Fatalf("unexpected event: %s", ev.Event)
	}
	if len(ev.Message.Attachments) != 2 {
		t.Fatalf("unexpected attachment count: %d", len(ev.Message.Attachments))
	}
	if ev.Message.Attachments[0].Payload == nil || ev.Message.Attachments[0].Payload.URL != "https://files.example/a.pdf" {
		t.Fatalf("unexpected first attachment: %#v", ev.Message.Attachments[0])
	}
	if ev.Message.Attachments[1].Payload != nil {
		t.Fatal("attachment without payload must decode to nil payload")
	}
}
