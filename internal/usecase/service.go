package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"ygo-duel-bot/internal/cardimage"
	"ygo-duel-bot/internal/domain"
)

const (
	defaultAITimeout     = 20 * time.Second
	textLoadingSeconds   = 5
	rulesLoadingSeconds  = 15
	imageLoadingSeconds  = 30
	defaultMaxInputRunes = 2000
)

// SessionStore loads and saves per-user sessions. Load returns a fresh
// session for unknown users.
type SessionStore interface {
	Load(ctx context.Context, userID string) (*domain.Session, error)
	Save(ctx context.Context, userID string, s *domain.Session) error
}

// LLMClient answers a chat conversation with the given model.
type LLMClient interface {
	Chat(ctx context.Context, model string, messages []domain.ChatMessage) (string, error)
}

// Messenger is the subset of the messaging platform the dispatcher calls
// directly. Replies themselves are sent by the caller.
type Messenger interface {
	ShowLoading(ctx context.Context, chatID string, seconds int) error
	GetContent(ctx context.Context, messageID string) ([]byte, error)
}

// Roller returns a uniformly random int in [0, n).
type Roller interface {
	IntN(n int) int
}

type globalRoller struct{}

func (globalRoller) IntN(n int) int { return rand.IntN(n) }

// Service dispatches LINE messages to the duel, deck, random and AI features
// and persists the per-user session after each message.
type Service struct {
	store     SessionStore
	llm       LLMClient
	messenger Messenger
	model     string

	aiTimeout     time.Duration
	maxInputRunes int
	roller        Roller
	now           func() time.Time
}

type Option func(*Service)

// WithAITimeout bounds every LLM call.
func WithAITimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.aiTimeout = d
		}
	}
}

func WithRoller(r Roller) Option {
	return func(s *Service) {
		if r != nil {
			s.roller = r
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

type TextInput struct {
	UserID string
	Text   string
}

type ImageInput struct {
	UserID    string
	MessageID string
}

func NewService(store SessionStore, llm LLMClient, messenger Messenger, model string, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("usecase: session store must not be nil")
	}
	if llm == nil {
		return nil, errors.New("usecase: llm client must not be nil")
	}
	if messenger == nil {
		return nil, errors.New("usecase: messenger must not be nil")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("usecase: model must not be empty")
	}
	s := &Service{
		store:         store,
		llm:           llm,
		messenger:     messenger,
		model:         model,
		aiTimeout:     defaultAITimeout,
		maxInputRunes: defaultMaxInputRunes,
		roller:        globalRoller{},
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// HandleText interprets one text message and returns the replies to send.
// The user's session is saved before returning.
func (s *Service) HandleText(ctx context.Context, in TextInput) ([]domain.Reply, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, newError(ErrorInvalidInput, "empty_user_id", nil)
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, nil
	}
	if len([]rune(text)) > s.maxInputRunes {
		return []domain.Reply{{Text: "❌ 訊息太長了，請縮短後再試一次。"}}, nil
	}

	s.showLoading(ctx, userID, textLoadingSeconds)

	sess, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, newError(ErrorInternal, "session_load_error", err)
	}

	if isInterrupt(text) {
		sess.State = domain.Idle()
	}

	var replies []domain.Reply
	if !sess.State.IsIdle() {
		var next domain.ConversationState
		next, replies = transition(sess, sess.State, text)
		sess.State = next
	} else {
		replies = s.execute(ctx, userID, sess, ParseCommand(text))
	}

	if err := s.store.Save(ctx, userID, sess); err != nil {
		return nil, newError(ErrorInternal, "session_save_error", err)
	}
	return replies, nil
}

// HandleImage asks the model to identify the card in an uploaded photo.
// Failures are reported to the user rather than returned.
func (s *Service) HandleImage(ctx context.Context, in ImageInput) ([]domain.Reply, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, newError(ErrorInvalidInput, "empty_user_id", nil)
	}
	if strings.TrimSpace(in.MessageID) == "" {
		return nil, newError(ErrorInvalidInput, "empty_message_id", nil)
	}

	s.showLoading(ctx, userID, imageLoadingSeconds)

	raw, err := s.messenger.GetContent(ctx, in.MessageID)
	if err != nil {
		slog.Warn("image download failed", "user_id", userID, "err", err)
		return []domain.Reply{recognitionFailed(err)}, nil
	}
	img, err := cardimage.Prepare(raw)
	if err != nil {
		slog.Warn("image decode failed", "user_id", userID, "err", err)
		return []domain.Reply{recognitionFailed(err)}, nil
	}

	answer, err := s.chat(ctx, buildCardImageMessages(s.now(), img))
	if err != nil {
		slog.Warn("card recognition failed", "user_id", userID, "err", err)
		return []domain.Reply{recognitionFailed(err)}, nil
	}
	return []domain.Reply{{Text: answer}}, nil
}

func recognitionFailed(err error) domain.Reply {
	return domain.Reply{Text: fmt.Sprintf("辨識失敗，錯誤：%v", err)}
}

func (s *Service) execute(ctx context.Context, userID string, sess *domain.Session, cmd Command) []domain.Reply {
	switch c := cmd.(type) {
	case Cancel:
		return reply("✅ 已取消目前操作。")
	case FeatureMenu:
		return reply("📋 功能選單\n請選擇要使用的功能：", featureMenu()...)
	case OpenCalculator:
		return openCalculator(sess)
	case SelectTarget:
		return selectTarget(sess, c.Side)
	case HalveLife:
		return halveLife(sess)
	case AdjustLife:
		return adjustLife(sess, c.Delta)
	case InvalidAmount:
		return invalidAmount()
	case SettlementMenu:
		return reply("⚙️ 請選擇結算方式或重新開始：", settlementMenu()...)
	case StartDuel:
		return startDuel(sess)
	case Concede:
		return concede(sess, c.Side)
	case SpecialWin:
		return specialWin(sess, c.Side)
	case RollDice:
		return rollDice(sess, s.roller, c.Times)
	case FlipCoin:
		return flipCoin(sess, s.roller, c.Times)
	case RandomMenu:
		return reply("🎲 請選擇隨機工具，或自行輸入(例: 擲骰子 5)：", randomMenu()...)
	case DeckMenu:
		return reply("🗂️ 【牌組管理系統】\n請點擊下方快捷鍵操作：", deckMenu()...)
	case BeginCreateDeck:
		return beginCreateDeck(sess)
	case BeginEditDeck:
		return beginEditDeck(sess)
	case ListDecks:
		return listDecks(sess)
	case BeginDeleteDeck:
		return beginDeleteDeck(sess)
	case PrepareCards:
		return prepareCards(sess, c.Action, c.Deck)
	case ContinueEdit:
		return continueEdit(sess, c.Deck)
	case ViewDeck:
		return viewDeck(sess, c.Deck)
	case AskRules:
		return s.askRules(ctx, userID, c.Text)
	default:
		panic(fmt.Sprintf("usecase: unhandled command %T", cmd))
	}
}

func (s *Service) askRules(ctx context.Context, userID, question string) []domain.Reply {
	s.showLoading(ctx, userID, rulesLoadingSeconds)
	answer, err := s.chat(ctx, buildRulesMessages(s.now(), question))
	if err != nil {
		slog.Warn("rules fallback failed", "user_id", userID, "err", err)
		return reply(fmt.Sprintf("抱歉，系統思考時發生錯誤：%v", err))
	}
	return reply(answer)
}

func (s *Service) chat(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()

	answer, err := s.llm.Chat(ctx, s.model, messages)
	if err != nil {
		return "", err
	}
	answer = truncateReply(answer)
	if answer == "" {
		return "", errors.New("empty response from model")
	}
	return answer, nil
}

func (s *Service) showLoading(ctx context.Context, userID string, seconds int) {
	if err := s.messenger.ShowLoading(ctx, userID, seconds); err != nil {
		slog.Debug("loading animation failed", "user_id", userID, "err", err)
	}
}

func reply(text string, menu ...domain.QuickReply) []domain.Reply {
	return []domain.Reply{{Text: text, QuickReplies: menu}}
}
