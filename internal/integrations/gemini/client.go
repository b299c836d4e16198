package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"ygo-duel-bot/internal/domain"
)

// tokenPayload is accepted as an alternative to a bare key in SSM.
type tokenPayload struct {
	Token string `json:"token"`
}

type Getter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// generator is the part of genai.Models the client calls.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// HTTPStatusError captures non-2xx upstream responses.
type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("gemini: unexpected status %d %s: %s", e.StatusCode, e.Status, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client calls the Gemini API with Google Search grounding enabled.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	getter      Getter
	paramPrefix string

	mu     sync.Mutex
	models generator
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Client whose API key is read through ps from
// "<paramPrefix>/gemini-api-key" on first use. Only a successful lookup is
// cached; a failed one is retried on the next call. An empty prefix reads
// "/gemini-api-key".
func NewClient(ps Getter, paramPrefix string, opts ...Option) (*Client, error) {
	if ps == nil {
		return nil, errors.New("gemini: paramstore getter must not be nil")
	}
	c := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		getter:      ps,
		paramPrefix: strings.TrimRight(strings.TrimSpace(paramPrefix), "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) keyParameterName() string {
	return c.paramPrefix + "/gemini-api-key"
}

func (c *Client) resolveModels(ctx context.Context) (generator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.models != nil {
		return c.models, nil
	}

	apiKey, err := fetchAPIKey(ctx, c.getter, c.keyParameterName())
	if err != nil {
		return nil, err
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}
	gc, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	c.models = gc.Models
	return c.models, nil
}

// Chat sends the conversation and returns the answer text. System messages
// become the system instruction.
func (c *Client) Chat(ctx context.Context, model string, messages []domain.ChatMessage) (string, error) {
	if model == "" {
		return "", errors.New("gemini: model must not be empty")
	}
	if len(messages) == 0 {
		return "", errors.New("gemini: messages must not be empty")
	}

	models, err := c.resolveModels(ctx)
	if err != nil {
		return "", err
	}

	contents, config := toRequest(messages)
	if len(contents) == 0 {
		return "", errors.New("gemini: messages must include a user turn")
	}
	resp, err := models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", statusError(err))
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("gemini: no candidates in response")
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini: empty response text")
	}
	return text, nil
}

func toRequest(messages []domain.ChatMessage) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	var (
		system   []string
		contents []*genai.Content
	)
	for _, m := range messages {
		if m.Role == "system" {
			system = append(system, m.Content)
			continue
		}
		var parts []*genai.Part
		if m.Content != "" {
			parts = append(parts, genai.NewPartFromText(m.Content))
		}
		if m.Image != nil {
			parts = append(parts, genai.NewPartFromBytes(m.Image.Data, mimeType(*m.Image)))
		}
		if len(parts) == 0 {
			continue
		}
		contents = append(contents, genai.NewContentFromParts(parts, role(m.Role)))
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n"), genai.RoleUser)
	}
	return contents, config
}

func role(r string) genai.Role {
	if r == "assistant" || r == "model" {
		return genai.RoleModel
	}
	return genai.RoleUser
}

func mimeType(img domain.Image) string {
	if img.MIMEType == "" {
		return "image/jpeg"
	}
	return img.MIMEType
}

func statusError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &HTTPStatusError{StatusCode: apiErr.Code, Status: apiErr.Status, Body: apiErr.Message}
	}
	return err
}

// fetchAPIKey accepts either the bare key or {"token":"..."}.
func fetchAPIKey(ctx context.Context, getter Getter, name string) (string, error) {
	if getter == nil {
		return "", errors.New("gemini: paramstore getter is nil")
	}
	raw, err := getter.GetParameter(ctx, name)
	if err != nil {
		return "", fmt.Errorf("gemini: fetch api key: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "{") {
		var tp tokenPayload
		if err := json.Unmarshal([]byte(raw), &tp); err != nil {
			return "", fmt.Errorf("gemini: unmarshal api key JSON: %w", err)
		}
		raw = strings.TrimSpace(tp.Token)
	}
	if raw == "" {
		return "", errors.New("gemini: API key is empty")
	}
	return raw, nil
}
