package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"ygo-duel-bot/internal/domain"
	"ygo-duel-bot/internal/integrations/line"
	"ygo-duel-bot/internal/usecase"
)

const secret = "channel-secret"

type stubDispatcher struct {
	texts   []usecase.TextInput
	images  []usecase.ImageInput
	replies []domain.Reply
	err     error
}

func (s *stubDispatcher) HandleText(_ context.Context, in usecase.TextInput) ([]domain.Reply, error) {
	s.texts = append(s.texts, in)
	return s.replies, s.err
}

func (s *stubDispatcher) HandleImage(_ context.Context, in usecase.ImageInput) ([]domain.Reply, error) {
	s.images = append(s.images, in)
	return s.replies, s.err
}

type sentReply struct {
	token   string
	replies []domain.Reply
}

type stubReplier struct {
	sent []sentReply
	err  error
}

func (s *stubReplier) Reply(_ context.Context, token string, replies []domain.Reply) error {
	s.sent = append(s.sent, sentReply{token: token, replies: replies})
	return s.err
}

func textEvent(token, user, text string) line.Event {
	return line.Event{
		Type:       line.EventMessage,
		ReplyToken: token,
		Source:     line.Source{Type: "user", UserID: user},
		Message:    &line.Message{ID: "m-" + token, Type: line.MessageText, Text: text},
	}
}

func webhookBody(t *testing.T, evs ...line.Event) string {
	t.Helper()
	b, err := json.Marshal(line.Webhook{Destination: "Ubot", Events: evs})
	require.NoError(t, err)
	return string(b)
}

func makeEvent(body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/callback",
		Headers: map[string]string{
			"Content-Type":     "application/json",
			"x-line-signature": line.Sign(secret, []byte(body)),
		},
		Body: body,
	}
}

func parseBody[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func newTestHandler(t *testing.T, d *stubDispatcher, r *stubReplier) *Handler {
	t.Helper()
	h, err := NewHandler(secret, d, r)
	require.NoError(t, err)
	return h
}

func TestNewHandler_ValidatesDependencies(t *testing.T) {
	_, err := NewHandler("", &stubDispatcher{}, &stubReplier{})
	require.Error(t, err)
	_, err = NewHandler(secret, nil, &stubReplier{})
	require.Error(t, err)
	_, err = NewHandler(secret, &stubDispatcher{}, nil)
	require.Error(t, err)
}

func TestHandle_TextEventIsDispatchedAndReplied(t *testing.T) {
	d := &stubDispatcher{replies: []domain.Reply{{Text: "⚔️ 決鬥開始！ ⚔️"}}}
	r := &stubReplier{}
	h := newTestHandler(t, d, r)

	resp, err := h.Handle(context.Background(), makeEvent(webhookBody(t, textEvent("rt-1", "U1", "決鬥計算機"))))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "OK", resp.Body)
	require.NotEmpty(t, resp.Headers["X-Correlation-Id"])

	require.Equal(t, []usecase.TextInput{{UserID: "U1", Text: "決鬥計算機"}}, d.texts)
	require.Equal(t, []sentReply{{token: "rt-1", replies: d.replies}}, r.sent)
}

func TestHandle_ImageEvent(t *testing.T) {
	d := &stubDispatcher{replies: []domain.Reply{{Text: "【名稱】灰流麗"}}}
	r := &stubReplier{}
	h := newTestHandler(t, d, r)

	ev := line.Event{
		Type:       line.EventMessage,
		ReplyToken: "rt-img",
		Source:     line.Source{Type: "user", UserID: "U1"},
		Message:    &line.Message{ID: "m-9", Type: line.MessageImage},
	}
	resp, err := h.Handle(context.Background(), makeEvent(webhookBody(t, ev)))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []usecase.ImageInput{{UserID: "U1", MessageID: "m-9"}}, d.images)
	require.Len(t, r.sent, 1)
}

func TestHandle_IgnoresUnsupportedEvents(t *testing.T) {
	d := &stubDispatcher{replies: []domain.Reply{{Text: "x"}}}
	r := &stubReplier{}
	h := newTestHandler(t, d, r)

	sticker := textEvent("rt-2", "U1", "")
	sticker.Message.Type = "sticker"
	noUser := textEvent("rt-3", "", "hi")
	follow := line.Event{Type: "follow", ReplyToken: "rt-4", Source: line.Source{Type: "user", UserID: "U1"}}

	resp, err := h.Handle(context.Background(), makeEvent(webhookBody(t, sticker, noUser, follow)))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, d.texts)
	require.Empty(t, r.sent)
}

func TestHandle_RejectsBadSignature(t *testing.T) {
	d := &stubDispatcher{}
	h := newTestHandler(t, d, &stubReplier{})

	event := makeEvent(webhookBody(t, textEvent("rt-1", "U1", "hi")))
	event.Headers["x-line-signature"] = line.Sign("wrong", []byte(event.Body))
	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, string(usecase.ErrorInvalidSignature), parseBody[errorResponse](t, resp.Body).Error)
	require.Empty(t, d.texts, "nothing is processed when the signature fails")

	delete(event.Headers, "x-line-signature")
	resp, err = h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandle_MalformedBody(t *testing.T) {
	h := newTestHandler(t, &stubDispatcher{}, &stubReplier{})
	resp, err := h.Handle(context.Background(), makeEvent(`not-json`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, string(usecase.ErrorInvalidInput), parseBody[errorResponse](t, resp.Body).Error)
}

func TestHandle_Base64Body(t *testing.T) {
	d := &stubDispatcher{}
	h := newTestHandler(t, d, &stubReplier{})

	raw := webhookBody(t, textEvent("rt-1", "U1", "擲骰子"))
	event := makeEvent(raw)
	event.Body = base64.StdEncoding.EncodeToString([]byte(raw))
	event.IsBase64Encoded = true

	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, d.texts, 1)

	event.Body = "%%%"
	resp, err = h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandle_EventFailuresStillAcknowledge(t *testing.T) {
	cases := []struct {
		name       string
		dispatcher *stubDispatcher
		replier    *stubReplier
		wantSent   int
	}{
		{
			name:       "dispatcher error",
			dispatcher: &stubDispatcher{err: &usecase.Error{Code: usecase.ErrorInternal, Reason: "session_save_error"}},
			replier:    &stubReplier{},
		},
		{
			name:       "reply error",
			dispatcher: &stubDispatcher{replies: []domain.Reply{{Text: "x"}}},
			replier:    &stubReplier{err: errors.New("invalid reply token")},
			wantSent:   1,
		},
		{
			name:       "no replies",
			dispatcher: &stubDispatcher{},
			replier:    &stubReplier{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(t, tc.dispatcher, tc.replier)
			body := webhookBody(t, textEvent("rt-1", "U1", "a"), textEvent("rt-2", "U2", "b"))
			resp, err := h.Handle(context.Background(), makeEvent(body))
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.Len(t, tc.dispatcher.texts, 2, "every event is attempted")
			require.Len(t, tc.replier.sent, tc.wantSent*2)
		})
	}
}

func TestHandle_UsesProvidedCorrelationID_CaseInsensitive(t *testing.T) {
	h := newTestHandler(t, &stubDispatcher{}, &stubReplier{})

	event := makeEvent(webhookBody(t))
	event.Headers["x-correlation-id"] = "corr-123"
	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "corr-123", resp.Headers["X-Correlation-Id"])
}

func TestStatusFor(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, statusFor(usecase.ErrorInvalidSignature))
	require.Equal(t, http.StatusBadRequest, statusFor(usecase.ErrorInvalidInput))
	require.Equal(t, http.StatusBadGateway, statusFor(usecase.ErrorUpstream))
	require.Equal(t, http.StatusInternalServerError, statusFor(usecase.ErrorInternal))
	require.Equal(t, usecase.ErrorInternal, errorCode(errors.New("boom")))
}

func TestRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	d := &stubDispatcher{replies: []domain.Reply{{Text: "ok"}}}
	r := &stubReplier{}
	router := gin.New()
	RegisterRoutes(router, newTestHandler(t, d, r))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	body := webhookBody(t, textEvent("rt-1", "U1", "功能選單"))
	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(body))
	req.Header.Set(line.SignatureHeader, line.Sign(secret, []byte(body)))
	req.Header.Set("X-Correlation-Id", "corr-9")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())
	require.Equal(t, "corr-9", w.Header().Get("X-Correlation-Id"))
	require.Len(t, r.sent, 1)

	req = httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(body))
	req.Header.Set(line.SignatureHeader, "bogus")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotEmpty(t, w.Header().Get("X-Correlation-Id"))
}
