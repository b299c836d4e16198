package usecase

import (
	"fmt"
	"strings"
	"time"

	"ygo-duel-bot/internal/domain"
)

// maxReplyRunes is the LINE limit for a single text message.
const maxReplyRunes = 5000

const cardImagePrompt = "請提供：1.【名稱】2.【效果】3.【系列】4.【推薦組法】5.【禁卡表】。" +
	"結尾加上：『💡 點擊「我的牌組」即可將卡片加入你的牌組中喔！』"

func buildJudgeInstruction(now time.Time) string {
	return strings.Join([]string{
		"你是一位專精「遊戲王 OCG 賽制」的裁判。",
		fmt.Sprintf("現在是%d年，嚴格根據最新環境與禁卡表回答。", now.Year()),
		"回答請使用繁體中文，條理清楚且精簡。",
	}, "")
}

func buildRulesMessages(now time.Time, question string) []domain.ChatMessage {
	return []domain.ChatMessage{
		{Role: "system", Content: buildJudgeInstruction(now)},
		{Role: "user", Content: question},
	}
}

func buildCardImageMessages(now time.Time, img domain.Image) []domain.ChatMessage {
	return []domain.ChatMessage{
		{Role: "system", Content: buildJudgeInstruction(now)},
		{Role: "user", Content: cardImagePrompt, Image: &img},
	}
}

// truncateReply trims text to the platform message limit.
func truncateReply(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= maxReplyRunes {
		return s
	}
	return string(r[:maxReplyRunes-1]) + "…"
}
