package line

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"ygo-duel-bot/internal/domain"
)

const (
	// Platform limits for one reply call.
	maxMessagesPerReply = 5
	maxTextRunes        = 5000
	maxLabelRunes       = 20

	maxContentBytes = 10 << 20
)

// HTTPStatusError captures non-2xx responses from the Messaging API.
type HTTPStatusError struct {
	StatusCode int
	Op         string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("line: %s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client wraps the Messaging API SDK for reply, loading indicator and
// message content download.
type Client struct {
	token       string
	baseURL     string
	dataBaseURL string
	httpClient  *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

// WithDataBaseURL overrides the host used for content downloads.
func WithDataBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.dataBaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(channelAccessToken string, opts ...Option) (*Client, error) {
	channelAccessToken = strings.TrimSpace(channelAccessToken)
	if channelAccessToken == "" {
		return nil, errors.New("line: channel access token must not be empty")
	}
	c := &Client{
		token:      channelAccessToken,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if _, err := c.messaging(context.Background()); err != nil {
		return nil, err
	}
	return c, nil
}

// messaging returns an SDK client bound to ctx. The SDK keeps the context on
// the client, so every call gets its own.
func (c *Client) messaging(ctx context.Context) (*messaging_api.MessagingApiAPI, error) {
	opts := []messaging_api.MessagingApiAPIOption{messaging_api.WithHTTPClient(c.httpClient)}
	if c.baseURL != "" {
		opts = append(opts, messaging_api.WithEndpoint(c.baseURL))
	}
	api, err := messaging_api.NewMessagingApiAPI(c.token, opts...)
	if err != nil {
		return nil, fmt.Errorf("line: create messaging client: %w", err)
	}
	return api.WithContext(ctx), nil
}

func (c *Client) blob(ctx context.Context) (*messaging_api.MessagingApiBlobAPI, error) {
	opts := []messaging_api.MessagingApiBlobAPIOption{messaging_api.WithBlobHTTPClient(c.httpClient)}
	if c.dataBaseURL != "" {
		opts = append(opts, messaging_api.WithBlobEndpoint(c.dataBaseURL))
	}
	api, err := messaging_api.NewMessagingApiBlobAPI(c.token, opts...)
	if err != nil {
		return nil, fmt.Errorf("line: create blob client: %w", err)
	}
	return api.WithContext(ctx), nil
}

// Reply answers a webhook event. Replies beyond the per-call limit are
// dropped; texts and labels are cut to the platform maximums.
func (c *Client) Reply(ctx context.Context, replyToken string, replies []domain.Reply) error {
	if strings.TrimSpace(replyToken) == "" {
		return errors.New("line: reply token must not be empty")
	}
	if len(replies) == 0 {
		return nil
	}
	if len(replies) > maxMessagesPerReply {
		replies = replies[:maxMessagesPerReply]
	}

	msgs := make([]messaging_api.MessageInterface, 0, len(replies))
	for _, r := range replies {
		msgs = append(msgs, toTextMessage(r))
	}
	api, err := c.messaging(ctx)
	if err != nil {
		return err
	}
	if _, err := api.ReplyMessage(&messaging_api.ReplyMessageRequest{ReplyToken: replyToken, Messages: msgs}); err != nil {
		return fmt.Errorf("line: reply: %w", err)
	}
	return nil
}

func toTextMessage(r domain.Reply) *messaging_api.TextMessage {
	msg := &messaging_api.TextMessage{Text: truncate(r.Text, maxTextRunes)}
	if msg.Text == "" {
		msg.Text = " "
	}
	items := r.QuickReplies
	if len(items) > domain.MaxQuickReplies {
		items = items[:domain.MaxQuickReplies]
	}
	if len(items) == 0 {
		return msg
	}
	msg.QuickReply = &messaging_api.QuickReply{Items: make([]messaging_api.QuickReplyItem, 0, len(items))}
	for _, q := range items {
		msg.QuickReply.Items = append(msg.QuickReply.Items, messaging_api.QuickReplyItem{
			Type: "action",
			Action: &messaging_api.MessageAction{
				Label: truncate(q.Label, maxLabelRunes),
				Text:  q.Text,
			},
		})
	}
	return msg
}

// ShowLoading displays the typing indicator in a one-on-one chat. LINE
// accepts 5 to 60 seconds in steps of 5; other values are rounded into range.
func (c *Client) ShowLoading(ctx context.Context, chatID string, seconds int) error {
	if strings.TrimSpace(chatID) == "" {
		return errors.New("line: chat id must not be empty")
	}
	api, err := c.messaging(ctx)
	if err != nil {
		return err
	}
	_, err = api.ShowLoadingAnimation(&messaging_api.ShowLoadingAnimationRequest{
		ChatId:         chatID,
		LoadingSeconds: int32(loadingSeconds(seconds)),
	})
	if err != nil {
		return fmt.Errorf("line: show loading: %w", err)
	}
	return nil
}

func loadingSeconds(s int) int {
	s = (s + 4) / 5 * 5
	return min(max(s, 5), 60)
}

// GetContent downloads the binary body of an image, video or audio message.
func (c *Client) GetContent(ctx context.Context, messageID string) ([]byte, error) {
	if strings.TrimSpace(messageID) == "" {
		return nil, errors.New("line: message id must not be empty")
	}
	api, err := c.blob(ctx)
	if err != nil {
		return nil, err
	}
	res, err := api.GetMessageContent(messageID)
	if res != nil && res.Body != nil {
		defer func() { _ = res.Body.Close() }()
	}
	if res != nil && (res.StatusCode < 200 || res.StatusCode >= 300) {
		body := http.StatusText(res.StatusCode)
		if err != nil {
			body = err.Error()
		}
		return nil, &HTTPStatusError{StatusCode: res.StatusCode, Op: "get content", Body: body}
	}
	if err != nil {
		return nil, fmt.Errorf("line: get content: %w", err)
	}
	if res == nil || res.Body == nil {
		return nil, errors.New("line: get content: empty response")
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxContentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("line: get content: read body: %w", err)
	}
	if len(body) > maxContentBytes {
		return nil, fmt.Errorf("line: get content: body exceeds %d bytes", maxContentBytes)
	}
	return body, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
