package domain

// Step names where a user is inside a multi-step conversation.
type Step string

const (
	StepNone                  Step = ""
	StepAwaitingDeckName      Step = "awaiting_deck_name"
	StepAwaitingEditTarget    Step = "awaiting_edit_target"
	StepAwaitingDeleteTarget  Step = "awaiting_delete_target"
	StepAwaitingDeleteConfirm Step = "awaiting_delete_confirm"
	StepAwaitingCardEdit      Step = "awaiting_card_edit"
)

// CardAction is what a card edit step does with the parsed card list.
type CardAction string

const (
	ActionAddMain  CardAction = "add_main"
	ActionAddExtra CardAction = "add_extra"
	ActionAddSide  CardAction = "add_side"
	ActionRemove   CardAction = "remove"
)

// Zone returns the zone an add action targets; ok is false for ActionRemove.
func (a CardAction) Zone() (kind ZoneKind, ok bool) {
	switch a {
	case ActionAddMain:
		return ZoneMain, true
	case ActionAddExtra:
		return ZoneExtra, true
	case ActionAddSide:
		return ZoneSide, true
	default:
		return "", false
	}
}

// Label returns the action's display name.
func (a CardAction) Label() string {
	switch a {
	case ActionAddMain:
		return "新增主牌"
	case ActionAddExtra:
		return "新增額外"
	case ActionAddSide:
		return "新增備牌"
	case ActionRemove:
		return "刪除卡片"
	default:
		return string(a)
	}
}

// ConversationState is the step a user is in plus the data that step needs.
// Deck is set for StepAwaitingDeleteConfirm and StepAwaitingCardEdit; Action
// only for StepAwaitingCardEdit. Use the constructors below.
type ConversationState struct {
	Step   Step       `json:"step,omitempty"`
	Deck   string     `json:"deck,omitempty"`
	Action CardAction `json:"action,omitempty"`
}

func Idle() ConversationState               { return ConversationState{} }
func AwaitingDeckName() ConversationState   { return ConversationState{Step: StepAwaitingDeckName} }
func AwaitingEditTarget() ConversationState { return ConversationState{Step: StepAwaitingEditTarget} }
func AwaitingDeleteTarget() ConversationState {
	return ConversationState{Step: StepAwaitingDeleteTarget}
}

func AwaitingDeleteConfirm(deck string) ConversationState {
	return ConversationState{Step: StepAwaitingDeleteConfirm, Deck: deck}
}

func AwaitingCardEdit(deck string, action CardAction) ConversationState {
	return ConversationState{Step: StepAwaitingCardEdit, Deck: deck, Action: action}
}

// IsIdle reports whether no multi-step flow is in progress.
func (s ConversationState) IsIdle() bool {
	return s.Step == StepNone
}
