package draft

import (
	"math"

	"github.com/BigFish003/MTGnew/internal/catalog"
)

// DefaultLandColor receives the whole land allocation when the main deck has
// no color signal at all, and is the terminal fallback when a shortfall lands
// on a color with no registered basic land.
const DefaultLandColor = "U"

// ColorSource reports a card's color identity.
type ColorSource interface {
	Colors(id catalog.CardID) []string
}

// BuildDeck converts a pick history into a constructed deck: the first
// mainCount picks in pick order, then landCount basic lands apportioned by
// the main portion's color tally. A multicolor card counts once per color;
// a colorless card counts for none. Per-color allocations are
// round(landCount*share), walked in WUBRG order and capped so the running
// total never exceeds landCount; any shortfall goes to the largest-tally
// color (ties in WUBRG order), falling back first to the default color and
// then to any registered land. When the history is shorter than mainCount
// the deck comes out short, which is accepted, not an error.
func BuildDeck(picks []catalog.CardID, colors ColorSource, basicLands map[string]catalog.CardID, mainCount, landCount int) []catalog.CardID {
	main := picks
	if len(main) > mainCount {
		main = main[:mainCount]
	}
	deck := append([]catalog.CardID(nil), main...)

	tally := make(map[string]int, len(catalog.ColorOrder))
	total := 0
	for _, id := range main {
		for _, c := range colors.Colors(id) {
			if isColorSymbol(c) {
				tally[c]++
				total++
			}
		}
	}

	if total == 0 {
		if id, ok := landFallback(basicLands, DefaultLandColor); ok {
			deck = appendLands(deck, id, landCount)
		}
		return deck
	}

	used := 0
	for _, c := range catalog.ColorOrder {
		id, ok := basicLands[c]
		if !ok {
			continue
		}
		share := float64(tally[c]) / float64(total)
		n := int(math.Round(share * float64(landCount)))
		if n > landCount-used {
			n = landCount - used
		}
		deck = appendLands(deck, id, n)
		used += n
	}

	if used < landCount {
		if id, ok := landFallback(basicLands, topColor(tally)); ok {
			deck = appendLands(deck, id, landCount-used)
		}
	}
	return deck
}

// topColor returns the color with the largest tally, breaking ties in WUBRG
// order.
func topColor(tally map[string]int) string {
	best := DefaultLandColor
	bestCount := -1
	for _, c := range catalog.ColorOrder {
		if tally[c] > bestCount {
			best = c
			bestCount = tally[c]
		}
	}
	return best
}

// landFallback resolves the basic land for a color, trying the default color
// and then any registered land in WUBRG order before giving up.
func landFallback(basicLands map[string]catalog.CardID, color string) (catalog.CardID, bool) {
	if id, ok := basicLands[color]; ok {
		return id, true
	}
	if id, ok := basicLands[DefaultLandColor]; ok {
		return id, true
	}
	for _, c := range catalog.ColorOrder {
		if id, ok := basicLands[c]; ok {
			return id, true
		}
	}
	return 0, false
}

func appendLands(deck []catalog.CardID, id catalog.CardID, n int) []catalog.CardID {
	for i := 0; i < n; i++ {
		deck = append(deck, id)
	}
	return deck
}

func isColorSymbol(c string) bool {
	for _, known := range catalog.ColorOrder {
		if c == known {
			return true
		}
	}
	return false
}
