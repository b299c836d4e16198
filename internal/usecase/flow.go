package usecase

import (
	"errors"
	"fmt"
	"strings"

	"ygo-duel-bot/internal/domain"
)

// transition handles a message received while a multi-step flow is in
// progress. It mutates only sess and returns the next state.
func transition(sess *domain.Session, st domain.ConversationState, input string) (domain.ConversationState, []domain.Reply) {
	switch st.Step {
	case domain.StepAwaitingDeckName:
		return onDeckName(sess, st, input)
	case domain.StepAwaitingEditTarget:
		return onEditTarget(sess, st, input)
	case domain.StepAwaitingDeleteTarget:
		return onDeleteTarget(sess, st, input)
	case domain.StepAwaitingDeleteConfirm:
		return onDeleteConfirm(sess, st, input)
	case domain.StepAwaitingCardEdit:
		return onCardEdit(sess, st, input)
	default:
		return domain.Idle(), reply("✅ 已取消目前操作。")
	}
}

func onDeckName(sess *domain.Session, st domain.ConversationState, name string) (domain.ConversationState, []domain.Reply) {
	if _, err := sess.CreateDeck(name); err != nil {
		if errors.Is(err, domain.ErrDeckExists) {
			return st, reply(fmt.Sprintf("❌ 牌組【%s】已經存在囉！請換個名字，或點擊「取消」。", name), cancelMenu()...)
		}
		return st, reply("❌ 牌組名稱不可為空白，請重新輸入，或點擊「取消」。", cancelMenu()...)
	}
	return domain.Idle(), reply(fmt.Sprintf("✅ 成功建立牌組：【%s】！\n請點擊「我的牌組」進入編輯。", name), deckActionMenu(name)...)
}

func onEditTarget(sess *domain.Session, st domain.ConversationState, name string) (domain.ConversationState, []domain.Reply) {
	if sess.FindDeck(name) == nil {
		return st, reply(fmt.Sprintf("❌ 找不到牌組【%s】！請確認名稱是否正確，或點擊「取消」。", name), cancelMenu()...)
	}
	return domain.Idle(), reply(fmt.Sprintf("🎯 已鎖定牌組【%s】！\n請選擇你要進行的操作：", name), deckActionMenu(name)...)
}

func onDeleteTarget(sess *domain.Session, st domain.ConversationState, name string) (domain.ConversationState, []domain.Reply) {
	if sess.FindDeck(name) == nil {
		return st, reply(fmt.Sprintf("❌ 找不到牌組【%s】！請確認名稱，或點擊「取消」。", name), cancelMenu()...)
	}
	return domain.AwaitingDeleteConfirm(name), reply(fmt.Sprintf("⚠️ 警告：確定要永久刪除牌組【%s】嗎？\n此動作無法復原！", name), deleteConfirmMenu()...)
}

func onDeleteConfirm(sess *domain.Session, st domain.ConversationState, input string) (domain.ConversationState, []domain.Reply) {
	if input != textConfirmDelete {
		return domain.Idle(), reply("已取消刪除操作。")
	}
	if err := sess.DeleteDeck(st.Deck); err != nil {
		return domain.Idle(), reply(fmt.Sprintf("❌ 找不到牌組【%s】", st.Deck))
	}
	return domain.Idle(), reply(fmt.Sprintf("🗑️ 已成功刪除牌組【%s】！", st.Deck))
}

func onCardEdit(sess *domain.Session, st domain.ConversationState, input string) (domain.ConversationState, []domain.Reply) {
	deck := sess.FindDeck(st.Deck)
	if deck == nil {
		return domain.Idle(), reply(fmt.Sprintf("❌ 找不到牌組【%s】，已取消操作。", st.Deck))
	}
	items := parseCardList(input)
	if !anyPositive(items) {
		return st, reply("❌ 數量必須是正整數！請重新輸入卡名與數量，或點擊「取消」。\n範例：『青眼白龍*3 融合*1』", cancelMenu()...)
	}
	lines := applyCardEdit(deck, st.Action, items)
	text := fmt.Sprintf("🗂️ 【%s】更新結果：\n%s", deck.Name, strings.Join(lines, "\n"))
	return domain.Idle(), reply(text, deckResultMenu(deck.Name)...)
}

func anyPositive(items []cardItem) bool {
	for _, it := range items {
		if it.Count > 0 {
			return true
		}
	}
	return false
}
