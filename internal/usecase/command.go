package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"ygo-duel-bot/internal/domain"
)

// Texts recognised as commands. Quick-reply menus send these verbatim.
const (
	textCancel          = "取消"
	textOpenCalculator  = "開啟計算機"
	textDuelCalculator  = "決鬥計算機"
	textSelectSelf      = "選擇調整我方"
	textSelectOpponent  = "選擇調整對方"
	textHalveLife       = "生命值減半"
	textSettlementMenu  = "決鬥結算選單"
	textStartDuel       = "決鬥開始"
	textRestartDuel     = "重新決鬥"
	textSelfConcede     = "我方投降"
	textOpponentConcede = "對方投降"
	textSelfSpecialWin  = "我方特殊勝利"
	textOppSpecialWin   = "對方特殊勝利"
	textRandomMenu      = "隨機工具"
	textFeatureMenu     = "功能選單"
	textDeckMenu        = "我的牌組"
	textCreateDeck      = "流程_建立牌組"
	textEditDeck        = "流程_編輯牌組"
	textListDecks       = "流程_查看牌組"
	textDeleteDeck      = "流程_刪除牌組"
	textConfirmDelete   = "確認刪除牌組"
	textContinueEdit    = "繼續編輯"
	textViewDeck        = "查看特定牌組"
	textPrepare         = "準備"
	textRollDice        = "擲骰子"
	textFlipCoin        = "擲硬幣"
)

const (
	// maxRepeats caps how many dice or coins one command may throw.
	maxRepeats = 20
	// maxLifeDelta is the largest amount one adjustment may carry.
	maxLifeDelta = 999_999
)

// interrupts reset any in-progress flow before the message is handled.
var interrupts = map[string]bool{
	textDuelCalculator: true,
	textOpenCalculator: true,
	textDeckMenu:       true,
	textFeatureMenu:    true,
	textRandomMenu:     true,
	textCancel:         true,
}

func isInterrupt(text string) bool {
	return interrupts[text]
}

var (
	adjustLifePattern = regexp.MustCompile(`^([+-])\s*(\d+)$`)
	dicePattern       = regexp.MustCompile(`^` + textRollDice + `\s*(\d+)?$`)
	coinPattern       = regexp.MustCompile(`^` + textFlipCoin + `\s*(\d+)?$`)
	preparePattern    = regexp.MustCompile(`^` + textPrepare + `(新增主牌|新增額外|新增備牌|刪除卡片) (.+)$`)
	deckViewPattern   = regexp.MustCompile(`^(` + textContinueEdit + `|` + textViewDeck + `) (.+)$`)
)

var prepareActions = map[string]domain.CardAction{
	"新增主牌": domain.ActionAddMain,
	"新增額外": domain.ActionAddExtra,
	"新增備牌": domain.ActionAddSide,
	"刪除卡片": domain.ActionRemove,
}

// Command is a parsed idle-state message. The set of implementations is
// closed; see the dispatch switch in Service.execute.
type Command interface {
	command()
}

type (
	Cancel          struct{}
	OpenCalculator  struct{}
	SelectTarget    struct{ Side domain.Side }
	HalveLife       struct{}
	AdjustLife      struct{ Delta int }
	InvalidAmount   struct{ Text string }
	SettlementMenu  struct{}
	StartDuel       struct{}
	Concede         struct{ Side domain.Side }
	SpecialWin      struct{ Side domain.Side }
	RollDice        struct{ Times int }
	FlipCoin        struct{ Times int }
	RandomMenu      struct{}
	FeatureMenu     struct{}
	DeckMenu        struct{}
	BeginCreateDeck struct{}
	BeginEditDeck   struct{}
	ListDecks       struct{}
	BeginDeleteDeck struct{}
	PrepareCards    struct {
		Action domain.CardAction
		Deck   string
	}
	ContinueEdit struct{ Deck string }
	ViewDeck     struct{ Deck string }
	AskRules     struct{ Text string }
)

func (Cancel) command()          {}
func (OpenCalculator) command()  {}
func (SelectTarget) command()    {}
func (HalveLife) command()       {}
func (AdjustLife) command()      {}
func (InvalidAmount) command()   {}
func (SettlementMenu) command()  {}
func (StartDuel) command()       {}
func (Concede) command()         {}
func (SpecialWin) command()      {}
func (RollDice) command()        {}
func (FlipCoin) command()        {}
func (RandomMenu) command()      {}
func (FeatureMenu) command()     {}
func (DeckMenu) command()        {}
func (BeginCreateDeck) command() {}
func (BeginEditDeck) command()   {}
func (ListDecks) command()       {}
func (BeginDeleteDeck) command() {}
func (PrepareCards) command()    {}
func (ContinueEdit) command()    {}
func (ViewDeck) command()        {}
func (AskRules) command()        {}

// ParseCommand maps a trimmed message to a Command. Text that matches no
// command becomes AskRules.
func ParseCommand(text string) Command {
	switch text {
	case textCancel:
		return Cancel{}
	case textOpenCalculator, textDuelCalculator:
		return OpenCalculator{}
	case textSelectSelf:
		return SelectTarget{Side: domain.SideSelf}
	case textSelectOpponent:
		return SelectTarget{Side: domain.SideOpponent}
	case textHalveLife:
		return HalveLife{}
	case textSettlementMenu:
		return SettlementMenu{}
	case textStartDuel, textRestartDuel:
		return StartDuel{}
	case textSelfConcede:
		return Concede{Side: domain.SideSelf}
	case textOpponentConcede:
		return Concede{Side: domain.SideOpponent}
	case textSelfSpecialWin:
		return SpecialWin{Side: domain.SideSelf}
	case textOppSpecialWin:
		return SpecialWin{Side: domain.SideOpponent}
	case textRandomMenu:
		return RandomMenu{}
	case textFeatureMenu:
		return FeatureMenu{}
	case textDeckMenu:
		return DeckMenu{}
	case textCreateDeck:
		return BeginCreateDeck{}
	case textEditDeck:
		return BeginEditDeck{}
	case textListDecks:
		return ListDecks{}
	case textDeleteDeck:
		return BeginDeleteDeck{}
	}

	if m := adjustLifePattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil || n > maxLifeDelta {
			return InvalidAmount{Text: text}
		}
		if m[1] == "-" {
			n = -n
		}
		return AdjustLife{Delta: n}
	}
	if m := dicePattern.FindStringSubmatch(text); m != nil {
		return RollDice{Times: repeats(m[1])}
	}
	if m := coinPattern.FindStringSubmatch(text); m != nil {
		return FlipCoin{Times: repeats(m[1])}
	}
	if m := preparePattern.FindStringSubmatch(text); m != nil {
		return PrepareCards{Action: prepareActions[m[1]], Deck: strings.TrimSpace(m[2])}
	}
	if m := deckViewPattern.FindStringSubmatch(text); m != nil {
		deck := strings.TrimSpace(m[2])
		if m[1] == textContinueEdit {
			return ContinueEdit{Deck: deck}
		}
		return ViewDeck{Deck: deck}
	}
	return AskRules{Text: text}
}

// repeats parses an optional repetition count, defaulting to 1 and clamping
// to [1, maxRepeats].
func repeats(s string) int {
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > maxRepeats {
		return maxRepeats
	}
	return max(n, 1)
}
