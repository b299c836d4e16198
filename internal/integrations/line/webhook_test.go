package line

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleBody = `{
  "destination": "Ubot",
  "events": [
    {
      "type": "message",
      "mode": "active",
      "timestamp": 1700000000000,
      "webhookEventId": "01H",
      "replyToken": "rt-1",
      "source": {"type": "user", "userId": "U1"},
      "message": {"id": "m-1", "type": "text", "text": "決鬥計算機", "quoteToken": "q"},
      "deliveryContext": {"isRedelivery": false}
    },
    {
      "type": "message",
      "mode": "active",
      "timestamp": 1700000000001,
      "webhookEventId": "01J",
      "replyToken": "rt-2",
      "source": {"type": "group", "groupId": "G1", "userId": "U2"},
      "message": {"id": "m-2", "type": "image", "contentProvider": {"type": "line"}},
      "deliveryContext": {"isRedelivery": false}
    },
    {
      "type": "follow",
      "mode": "active",
      "timestamp": 1700000000002,
      "webhookEventId": "01K",
      "replyToken": "rt-3",
      "source": {"type": "user", "userId": "U3"},
      "deliveryContext": {"isRedelivery": false}
    }
  ]
}`

func TestVerifySignature(t *testing.T) {
	body := []byte(sampleBody)
	sig := Sign("secret", body)

	require.NoError(t, VerifySignature("secret", body, sig))
	require.ErrorIs(t, VerifySignature("other", body, sig), ErrInvalidSignature)
	require.ErrorIs(t, VerifySignature("secret", append(body, ' '), sig), ErrInvalidSignature)
	require.ErrorIs(t, VerifySignature("secret", body, ""), ErrInvalidSignature)
	require.ErrorIs(t, VerifySignature("secret", body, "%%%not-base64"), ErrInvalidSignature)
	require.ErrorIs(t, VerifySignature("", body, sig), ErrInvalidSignature)
}

func TestParseWebhook(t *testing.T) {
	wh, err := ParseWebhook([]byte(sampleBody))
	require.NoError(t, err)
	require.Equal(t, "Ubot", wh.Destination)
	require.Len(t, wh.Events, 3)

	ev := wh.Events[0]
	require.Equal(t, EventMessage, ev.Type)
	require.Equal(t, "rt-1", ev.ReplyToken)
	require.Equal(t, Source{Type: "user", UserID: "U1"}, ev.Source)
	require.Equal(t, &Message{ID: "m-1", Type: MessageText, Text: "決鬥計算機"}, ev.Message)

	img := wh.Events[1]
	require.Equal(t, Source{Type: "group", GroupID: "G1", UserID: "U2"}, img.Source)
	require.Equal(t, &Message{ID: "m-2", Type: MessageImage}, img.Message)

	require.Equal(t, "follow", wh.Events[2].Type)
	require.Nil(t, wh.Events[2].Message)
}

func TestParseWebhook_RoundTripsFlattenedEvents(t *testing.T) {
	in := Webhook{Destination: "Ubot", Events: []Event{{
		Type:       EventMessage,
		ReplyToken: "rt",
		Source:     Source{Type: "user", UserID: "U1"},
		Message:    &Message{ID: "m", Type: MessageText, Text: "擲骰子"},
	}}}
	body, err := json.Marshal(in)
	require.NoError(t, err)

	out, err := ParseWebhook(body)
	require.NoError(t, err)
	require.Equal(t, &in, out)
}

func TestParseWebhook_Malformed(t *testing.T) {
	_, err := ParseWebhook([]byte(`{"events":`))
	require.ErrorContains(t, err, "decode webhook")
}
