package usecase

import (
	"errors"
	"fmt"
	"strings"

	"ygo-duel-bot/internal/domain"
)

const divider = "➖➖➖➖➖➖"

func lifeLines(d *domain.Duel) string {
	return fmt.Sprintf("我方 LP: %d\n對方 LP: %d", d.Self, d.Opponent)
}

func openCalculator(sess *domain.Session) []domain.Reply {
	header := "⚔️ 計算機運作中"
	if sess.Duel == nil {
		sess.Duel = domain.NewDuel()
		header = "⚔️ 決鬥開始！ ⚔️"
	}
	text := header + "\n" + divider + "\n" + lifeLines(sess.Duel) + "\n\n👇 請選擇要調整哪一方的血量："
	return reply(text, duelMenu()...)
}

func startDuel(sess *domain.Session) []domain.Reply {
	sess.Duel = domain.NewDuel()
	return reply("⚔️ 決鬥開始！ ⚔️\n"+divider+"\n"+lifeLines(sess.Duel), duelMenu()...)
}

func selectTarget(sess *domain.Session, side domain.Side) []domain.Reply {
	if sess.Duel == nil {
		sess.Duel = domain.NewDuel()
	}
	sess.Duel.Target = side
	return reply(fmt.Sprintf("🎯 已鎖定【%s】\n請輸入數字 (例: -1000)\n或點擊常用數值：", side.Label()), adjustMenu()...)
}

func halveLife(sess *domain.Session) []domain.Reply {
	if sess.Duel == nil || sess.Duel.Halve() != nil {
		return reply("❌ 請先點擊「👈 調整我方」或「👉 調整對方」！", duelMenu()...)
	}
	return lifeUpdate(sess, "🩸 【血量更新】")
}

func adjustLife(sess *domain.Session, delta int) []domain.Reply {
	if sess.Duel == nil {
		return reply("❌ 請先選擇目標！", duelMenu()...)
	}
	switch err := sess.Duel.Adjust(delta); {
	case errors.Is(err, domain.ErrLifeOverrun):
		return invalidAmount()
	case err != nil:
		return reply("❌ 請先選擇目標！", duelMenu()...)
	}
	return lifeUpdate(sess, fmt.Sprintf("🩸 【血量更新】 (%s %+d)", sess.Duel.Target.Label(), delta))
}

func invalidAmount() []domain.Reply {
	return reply("❌ 數值無效，請重新輸入 (例: -1000)", duelMenu()...)
}

// lifeUpdate reports the new totals and ends the duel if a side reached zero.
func lifeUpdate(sess *domain.Session, header string) []domain.Reply {
	text := header + "\n" + lifeLines(sess.Duel)
	outcome := sess.Duel.Outcome()
	if outcome == domain.OutcomeOngoing {
		return reply(text, duelMenu()...)
	}
	sess.Duel = nil
	return reply(text + "\n" + divider + "\n🏆 決鬥結束 🏆\n" + outcomeText(outcome))
}

func outcomeText(o domain.Outcome) string {
	switch o {
	case domain.OutcomeDraw:
		return "雙方血量歸零，平局 (DRAW)！"
	case domain.OutcomeOpponentWins:
		return "我方血量歸零，對方獲勝！"
	case domain.OutcomeSelfWins:
		return "對方血量歸零，我方獲勝！"
	default:
		return ""
	}
}

func concede(sess *domain.Session, loser domain.Side) []domain.Reply {
	if sess.Duel == nil {
		return reply("❌ 決鬥尚未開始！")
	}
	sess.Duel = nil
	return reply(fmt.Sprintf("🏳️ %s 選擇了投降，本局由 %s 獲勝！", loser.Label(), loser.Other().Label()))
}

func specialWin(sess *domain.Session, winner domain.Side) []domain.Reply {
	if sess.Duel == nil {
		return reply("❌ 決鬥尚未開始！")
	}
	sess.Duel = nil
	return reply(fmt.Sprintf("✨ 達成特殊勝利條件！\n🏆 恭喜 %s 贏得本局決鬥！", winner.Label()))
}

func rollDice(sess *domain.Session, r Roller, times int) []domain.Reply {
	lines := make([]string, 0, times)
	sum := 0
	for i := range times {
		v := r.IntN(6) + 1
		sum += v
		lines = append(lines, fmt.Sprintf("第 %d 次：【 %d 】", i+1, v))
	}
	text := fmt.Sprintf("🎲 擲骰子 %d 次的結果：\n%s\n\n✨ 總和：%d", times, strings.Join(lines, "\n"), sum)
	return reply(text, activeDuelMenu(sess)...)
}

func flipCoin(sess *domain.Session, r Roller, times int) []domain.Reply {
	lines := make([]string, 0, times)
	for i := range times {
		face := "正面 🌕"
		if r.IntN(2) == 1 {
			face = "反面 🌑"
		}
		lines = append(lines, fmt.Sprintf("第 %d 次：%s", i+1, face))
	}
	text := fmt.Sprintf("🪙 擲硬幣 %d 次的結果：\n%s", times, strings.Join(lines, "\n"))
	return reply(text, activeDuelMenu(sess)...)
}

func activeDuelMenu(sess *domain.Session) []domain.QuickReply {
	if sess.Duel == nil {
		return nil
	}
	return duelMenu()
}
