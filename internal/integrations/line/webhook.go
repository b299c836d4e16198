package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// SignatureHeader carries the HMAC of the webhook body.
const SignatureHeader = "X-Line-Signature"

var ErrInvalidSignature = webhook.ErrInvalidSignature

// VerifySignature checks signature against base64(HMAC-SHA256(secret, body)).
func VerifySignature(channelSecret string, body []byte, signature string) error {
	signature = strings.TrimSpace(signature)
	if channelSecret == "" || signature == "" {
		return ErrInvalidSignature
	}
	if !webhook.ValidateSignature(channelSecret, signature, body) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign returns the signature LINE would send for body.
func Sign(channelSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Event types and message types handled by the bot.
const (
	EventMessage = "message"

	MessageText  = "text"
	MessageImage = "image"
)

// Webhook is the flattened view of a callback the handler works with.
type Webhook struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

type Event struct {
	Type       string   `json:"type"`
	ReplyToken string   `json:"replyToken,omitempty"`
	Source     Source   `json:"source"`
	Message    *Message `json:"message,omitempty"`
}

type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

type Message struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ParseWebhook decodes a webhook body through the SDK's event model. The
// signature must be verified first.
func ParseWebhook(body []byte) (*Webhook, error) {
	var cb webhook.CallbackRequest
	if err := json.Unmarshal(body, &cb); err != nil {
		return nil, fmt.Errorf("line: decode webhook: %w", err)
	}
	wh := &Webhook{Destination: cb.Destination, Events: make([]Event, 0, len(cb.Events))}
	for _, e := range cb.Events {
		wh.Events = append(wh.Events, toEvent(e))
	}
	return wh, nil
}

func toEvent(e webhook.EventInterface) Event {
	switch e := e.(type) {
	case webhook.MessageEvent:
		return Event{
			Type:       EventMessage,
			ReplyToken: e.ReplyToken,
			Source:     toSource(e.Source),
			Message:    toMessage(e.Message),
		}
	default:
		return Event{Type: e.GetType()}
	}
}

func toSource(s webhook.SourceInterface) Source {
	switch s := s.(type) {
	case webhook.UserSource:
		return Source{Type: "user", UserID: s.UserId}
	case webhook.GroupSource:
		return Source{Type: "group", GroupID: s.GroupId, UserID: s.UserId}
	case webhook.RoomSource:
		return Source{Type: "room", RoomID: s.RoomId, UserID: s.UserId}
	default:
		return Source{}
	}
}

func toMessage(m webhook.MessageContentInterface) *Message {
	switch m := m.(type) {
	case nil:
		return nil
	case webhook.TextMessageContent:
		return &Message{ID: m.Id, Type: MessageText, Text: m.Text}
	case webhook.ImageMessageContent:
		return &Message{ID: m.Id, Type: MessageImage}
	default:
		return &Message{Type: m.GetType()}
	}
}
