package usecase

import (
	"fmt"
	"strings"

	"ygo-duel-bot/internal/domain"
)

func deckList(sess *domain.Session) string {
	lines := make([]string, 0, len(sess.Decks))
	for _, name := range sess.DeckNames() {
		lines = append(lines, "▪️ "+name)
	}
	return strings.Join(lines, "\n")
}

func beginCreateDeck(sess *domain.Session) []domain.Reply {
	sess.State = domain.AwaitingDeckName()
	return reply("📝 請直接輸入你要建立的「牌組名稱」\n(例如：白龍、閃刀姬)：", cancelMenu()...)
}

func beginEditDeck(sess *domain.Session) []domain.Reply {
	if len(sess.Decks) == 0 {
		return reply("🗂️ 你目前還沒有建立任何牌組喔！\n請先點擊「我的牌組」>「建立牌組」。")
	}
	sess.State = domain.AwaitingEditTarget()
	return reply("🗂️ 你的牌組列表：\n"+deckList(sess)+"\n\n📝 請直接輸入你要編輯的「牌組名稱」：", cancelMenu()...)
}

func listDecks(sess *domain.Session) []domain.Reply {
	if len(sess.Decks) == 0 {
		return reply("🗂️ 目前沒有牌組！")
	}
	return reply("🗂️ 你的牌組總覽：\n" + deckList(sess) + "\n\n💡 若要查看詳細卡表，請點擊「我的牌組」>「編輯牌組」進入操作！")
}

func beginDeleteDeck(sess *domain.Session) []domain.Reply {
	if len(sess.Decks) == 0 {
		return reply("🗂️ 目前沒有任何牌組可以刪除！")
	}
	sess.State = domain.AwaitingDeleteTarget()
	return reply("🗂️ 你的牌組列表：\n"+deckList(sess)+"\n\n⚠️ 請直接輸入你要【刪除】的牌組名稱：", cancelMenu()...)
}

func prepareCards(sess *domain.Session, action domain.CardAction, deck string) []domain.Reply {
	if sess.FindDeck(deck) == nil {
		return reply(fmt.Sprintf("❌ 找不到牌組【%s】", deck))
	}
	sess.State = domain.AwaitingCardEdit(deck, action)
	return reply(fmt.Sprintf("📝 準備【%s】至牌組：%s\n\n請直接輸入卡名與數量 (不同卡片請用空格隔開)。\n範例：『青眼白龍*3 融合*1』", action.Label(), deck), cancelMenu()...)
}

func continueEdit(sess *domain.Session, deck string) []domain.Reply {
	if sess.FindDeck(deck) == nil {
		return reply(fmt.Sprintf("❌ 找不到牌組【%s】", deck))
	}
	return reply(fmt.Sprintf("🎯 操作牌組：【%s】", deck), deckActionMenu(deck)...)
}

func viewDeck(sess *domain.Session, name string) []domain.Reply {
	deck := sess.FindDeck(name)
	if deck == nil {
		return reply(fmt.Sprintf("❌ 找不到牌組【%s】", name))
	}
	return reply(renderDeck(deck), qr("🔙 回到編輯", textContinueEdit+" "+name))
}

func renderDeck(deck *domain.Deck) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🗂️ 【%s】完整卡表\n%s\n", deck.Name, divider)
	for _, kind := range domain.ZoneKinds {
		zone := *deck.ZoneOf(kind)
		fmt.Fprintf(&b, "🔹 %s (%d張)：\n", kind.Label(), zone.Total())
		if len(zone) == 0 {
			b.WriteString("(空)\n")
		}
		for _, c := range zone {
			fmt.Fprintf(&b, " - %s * %d\n", c.Name, c.Count)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
