package usecase

import (
	"ygo-duel-bot/internal/domain"
)

func qr(label, text string) domain.QuickReply {
	return domain.QuickReply{Label: label, Text: text}
}

func cancelMenu() []domain.QuickReply {
	return []domain.QuickReply{qr("❌ 取消", textCancel)}
}

func duelMenu() []domain.QuickReply {
	return []domain.QuickReply{
		qr("👈 調整我方", textSelectSelf),
		qr("👉 調整對方", textSelectOpponent),
		qr("🎲 擲骰子", textRollDice+" 1"),
		qr("🪙 擲硬幣", textFlipCoin+" 1"),
		qr("⚙️ 結算/重置", textSettlementMenu),
	}
}

func adjustMenu() []domain.QuickReply {
	return []domain.QuickReply{
		qr("-1000", "-1000"),
		qr("-500", "-500"),
		qr("+1000", "+1000"),
		qr("÷2 (減半)", textHalveLife),
		qr("↩️ 取消", textOpenCalculator),
	}
}

func settlementMenu() []domain.QuickReply {
	return []domain.QuickReply{
		qr("🏳️ 我方投降", textSelfConcede),
		qr("🏳️ 對方投降", textOpponentConcede),
		qr("✨ 我方特殊勝利", textSelfSpecialWin),
		qr("✨ 對方特殊勝利", textOppSpecialWin),
		qr("🔄 重新決鬥 (重置)", textStartDuel),
	}
}

func randomMenu() []domain.QuickReply {
	return []domain.QuickReply{
		qr("🎲 擲骰子 1次", textRollDice+" 1"),
		qr("🪙 擲硬幣 1次", textFlipCoin+" 1"),
		qr("🎲 擲骰子 3次", textRollDice+" 3"),
	}
}

func featureMenu() []domain.QuickReply {
	return []domain.QuickReply{
		qr("⚔️ 決鬥計算機", textOpenCalculator),
		qr("🗂️ 我的牌組", textDeckMenu),
		qr("🎲 隨機工具", textRandomMenu),
	}
}

func deckMenu() []domain.QuickReply {
	return []domain.QuickReply{
		qr("➕ 建立牌組", textCreateDeck),
		qr("📝 編輯牌組", textEditDeck),
		qr("🔍 查看牌組清單", textListDecks),
		qr("🗑️ 刪除牌組", textDeleteDeck),
	}
}

func deckActionMenu(deck string) []domain.QuickReply {
	return []domain.QuickReply{
		qr("➕ 新增主牌", textPrepare+domain.ActionAddMain.Label()+" "+deck),
		qr("➕ 新增額外", textPrepare+domain.ActionAddExtra.Label()+" "+deck),
		qr("➕ 新增備牌", textPrepare+domain.ActionAddSide.Label()+" "+deck),
		qr("🗑️ 刪除卡片", textPrepare+domain.ActionRemove.Label()+" "+deck),
		qr("🔍 查看此牌組", textViewDeck+" "+deck),
	}
}

func deckResultMenu(deck string) []domain.QuickReply {
	return []domain.QuickReply{
		qr("🔙 繼續編輯此牌組", textContinueEdit+" "+deck),
		qr("🔍 查看此牌組", textViewDeck+" "+deck),
	}
}

func deleteConfirmMenu() []domain.QuickReply {
	return []domain.QuickReply{
		qr("✅ 確定刪除", textConfirmDelete),
		qr("❌ 取消", textCancel),
	}
}
