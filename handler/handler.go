package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"ygo-duel-bot/internal/domain"
	"ygo-duel-bot/internal/integrations/line"
	"ygo-duel-bot/internal/usecase"
)

const (
	correlationHeader = "X-Correlation-Id"
	maxBodyBytes      = 1 << 20
)

// Dispatcher turns one inbound message into replies.
type Dispatcher interface {
	HandleText(ctx context.Context, in usecase.TextInput) ([]domain.Reply, error)
	HandleImage(ctx context.Context, in usecase.ImageInput) ([]domain.Reply, error)
}

// Replier delivers replies for a webhook event.
type Replier interface {
	Reply(ctx context.Context, replyToken string, replies []domain.Reply) error
}

// Handler serves the LINE webhook for both Lambda and the local gin server.
type Handler struct {
	channelSecret string
	svc           Dispatcher
	replier       Replier
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// response is the transport-neutral result of one webhook call.
type response struct {
	status        int
	body          string
	contentType   string
	correlationID string
}

func NewHandler(channelSecret string, svc Dispatcher, replier Replier) (*Handler, error) {
	if strings.TrimSpace(channelSecret) == "" {
		return nil, errors.New("handler: channel secret must not be empty")
	}
	if svc == nil {
		return nil, errors.New("handler: dispatcher must not be nil")
	}
	if replier == nil {
		return nil, errors.New("handler: replier must not be nil")
	}
	return &Handler{channelSecret: channelSecret, svc: svc, replier: replier}, nil
}

// Handle is the API Gateway proxy entrypoint.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body := []byte(req.Body)
	cid := header(req.Headers, correlationHeader)
	if cid == "" {
		cid = uuid.NewString()
	}
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			res := errorResult(cid, usecase.NewError(usecase.ErrorInvalidInput, "invalid_base64_body", err))
			return toProxyResponse(res), nil
		}
		body = decoded
	}

	res := h.serve(ctx, body, header(req.Headers, line.SignatureHeader), cid)
	return toProxyResponse(res), nil
}

func toProxyResponse(res response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: res.status,
		Headers: map[string]string{
			"Content-Type":    res.contentType,
			correlationHeader: res.correlationID,
		},
		Body: res.body,
	}
}

// serve verifies and processes one webhook body. Per-event failures are
// logged and never change the status code, so LINE does not redeliver.
func (h *Handler) serve(ctx context.Context, body []byte, signature, correlationID string) response {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	log := slog.With("correlation_id", correlationID)

	if len(body) > maxBodyBytes {
		return errorResult(correlationID, usecase.NewError(usecase.ErrorInvalidInput, "body_too_large", nil))
	}
	if err := line.VerifySignature(h.channelSecret, body, signature); err != nil {
		log.Warn("webhook signature rejected")
		return errorResult(correlationID, usecase.NewError(usecase.ErrorInvalidSignature, "signature_mismatch", err))
	}
	wh, err := line.ParseWebhook(body)
	if err != nil {
		log.Warn("webhook body rejected", "err", err)
		return errorResult(correlationID, usecase.NewError(usecase.ErrorInvalidInput, "malformed_webhook", err))
	}

	for _, ev := range wh.Events {
		h.handleEvent(ctx, log, ev)
	}
	return response{status: http.StatusOK, body: "OK", contentType: "text/plain; charset=utf-8", correlationID: correlationID}
}

func (h *Handler) handleEvent(ctx context.Context, log *slog.Logger, ev line.Event) {
	if ev.Type != line.EventMessage || ev.Message == nil || ev.Source.UserID == "" {
		return
	}
	log = log.With("user_id", ev.Source.UserID, "message_type", ev.Message.Type)

	var (
		replies []domain.Reply
		err     error
	)
	switch ev.Message.Type {
	case line.MessageText:
		replies, err = h.svc.HandleText(ctx, usecase.TextInput{UserID: ev.Source.UserID, Text: ev.Message.Text})
	case line.MessageImage:
		replies, err = h.svc.HandleImage(ctx, usecase.ImageInput{UserID: ev.Source.UserID, MessageID: ev.Message.ID})
	default:
		return
	}
	if err != nil {
		log.Error("event handling failed", "err", err, "code", errorCode(err))
		return
	}
	if len(replies) == 0 || ev.ReplyToken == "" {
		return
	}
	if err := h.replier.Reply(ctx, ev.ReplyToken, replies); err != nil {
		err = usecase.NewError(usecase.ErrorUpstream, "line_reply_error", err)
		log.Error("reply failed", "err", err, "code", errorCode(err))
	}
}

func errorCode(err error) usecase.ErrorCode {
	var ucErr *usecase.Error
	if errors.As(err, &ucErr) {
		return ucErr.Code
	}
	return usecase.ErrorInternal
}

func statusFor(code usecase.ErrorCode) int {
	switch code {
	case usecase.ErrorInvalidSignature, usecase.ErrorInvalidInput:
		return http.StatusBadRequest
	case usecase.ErrorUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorResult(correlationID string, err error) response {
	code := errorCode(err)
	body, _ := json.Marshal(errorResponse{Error: string(code), Message: http.StatusText(statusFor(code))})
	return response{
		status:        statusFor(code),
		body:          string(body),
		contentType:   "application/json",
		correlationID: correlationID,
	}
}

// header looks up key case-insensitively; API Gateway preserves client casing.
func header(headers map[string]string, key string) string {
	if v, ok := headers[key]; ok {
		return strings.TrimSpace(v)
	}
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
