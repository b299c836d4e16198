package usecase

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"ygo-duel-bot/internal/domain"
)

// cardItem is one entry of a typed card list, e.g. "灰流麗*3".
type cardItem struct {
	Name  string
	Count int
}

// parseCardList splits text on whitespace into name*count items. The count
// follows the last '*'; when it is not an integer the whole token is the
// card name with a count of 1. Repeated names are summed, saturating at the
// int range, and keep the position of their first occurrence.
func parseCardList(text string) []cardItem {
	var items []cardItem
	index := map[string]int{}
	for _, tok := range strings.Fields(text) {
		name, count := tok, 1
		if i := strings.LastIndex(tok, "*"); i >= 0 {
			if n, err := strconv.Atoi(tok[i+1:]); err == nil {
				name, count = tok[:i], n
			}
		}
		if name == "" {
			name, count = tok, 1
		}
		if at, ok := index[name]; ok {
			items[at].Count = addCounts(items[at].Count, count)
			continue
		}
		index[name] = len(items)
		items = append(items, cardItem{Name: name, Count: count})
	}
	return items
}

func addCounts(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}

// applyCardEdit runs the parsed items against the deck and returns one
// result line per outcome, successes first.
func applyCardEdit(deck *domain.Deck, action domain.CardAction, items []cardItem) []string {
	if kind, ok := action.Zone(); ok {
		return addCards(deck, kind, items)
	}
	return removeCards(deck, items)
}

func addCards(deck *domain.Deck, kind domain.ZoneKind, items []cardItem) []string {
	var ok, failed []string
	for _, it := range items {
		err := deck.Add(kind, it.Name, it.Count)
		if err == nil {
			ok = append(ok, fmt.Sprintf("✅ %s * %d", it.Name, it.Count))
			continue
		}
		failed = append(failed, addFailureLine(kind, it, err))
	}
	return append(ok, failed...)
}

func addFailureLine(kind domain.ZoneKind, it cardItem, err error) string {
	var addErr *domain.AddError
	if !errors.As(err, &addErr) {
		return fmt.Sprintf("❌ %s：%v", it.Name, err)
	}
	switch addErr.Err {
	case domain.ErrZoneFull:
		return fmt.Sprintf("❌ %s：%s已達上限 (%d張)", it.Name, kind.Label(), kind.Limit())
	case domain.ErrCopyLimit:
		return fmt.Sprintf("❌ %s：同名卡最多%d張 (現有%d張)", it.Name, domain.MaxCopies, addErr.Current)
	case domain.ErrInvalidCount:
		return fmt.Sprintf("❌ %s：數量必須是正整數 (輸入%d)", it.Name, it.Count)
	default:
		return fmt.Sprintf("❌ %s：%v", it.Name, addErr.Err)
	}
}

func removeCards(deck *domain.Deck, items []cardItem) []string {
	var lines []string
	for _, it := range items {
		if it.Count <= 0 {
			lines = append(lines, fmt.Sprintf("❌ %s：數量必須是正整數 (輸入%d)", it.Name, it.Count))
			continue
		}
		removed := deck.Remove(it.Name, it.Count)
		switch {
		case removed == 0:
			lines = append(lines, fmt.Sprintf("⚠️ 牌組中找不到 %s", it.Name))
		case removed < it.Count:
			lines = append(lines,
				fmt.Sprintf("🗑️ 移除 %s * %d", it.Name, removed),
				fmt.Sprintf("⚠️ 牌組中找不到 %s * %d", it.Name, it.Count-removed),
			)
		default:
			lines = append(lines, fmt.Sprintf("🗑️ 移除 %s * %d", it.Name, removed))
		}
	}
	return lines
}
