package shared

import "sort"

// Hand is a player's owned set of cards, kept sorted by ascending value.
type Hand struct {
	Cards []Card
}

// NewHand creates a hand holding the given cards.
func NewHand(cards ...Card) *Hand {
	h := &Hand{Cards: append([]Card{}, cards...)}
	h.sortCards()
	return h
}

func (h *Hand) sortCards() {
	sort.SliceStable(h.Cards, func(i, j int) bool {
		return h.Cards[i].Value < h.Cards[j].Value
	})
}

// Add appends cards to the hand and re-sorts.
func (h *Hand) Add(cards []Card) {
	h.Cards = append(h.Cards, cards...)
	h.sortCards()
}

// Has reports whether every requested card (value and suit, counted with
// multiplicity) is currently held.
func (h *Hand) Has(cards []Card) bool {
	held := map[Card]int{}
	for _, c := range h.Cards {
		held[c]++
	}
	for _, c := range cards {
		if held[c] == 0 {
			return false
		}
		held[c]--
	}
	return true
}

// Remove takes the requested cards out of the hand. The removal is atomic:
// if any card is absent, nothing is removed and false is returned.
func (h *Hand) Remove(cards []Card) bool {
	if !h.Has(cards) {
		return false
	}
	wanted := map[Card]int{}
	for _, c := range cards {
		wanted[c]++
	}
	kept := h.Cards[:0]
	for _, c := range h.Cards {
		if wanted[c] > 0 {
			wanted[c]--
			continue
		}
		kept = append(kept, c)
	}
	h.Cards = kept
	return true
}

// Count returns the number of cards held.
func (h *Hand) Count() int {
	return len(h.Cards)
}

// IsEmpty reports hand exhaustion, the game-termination trigger.
func (h *Hand) IsEmpty() bool {
	return len(h.Cards) == 0
}

// ValueCounts returns how many cards of each value are held.
func (h *Hand) ValueCounts() map[int]int {
	counts := map[int]int{}
	for _, c := range h.Cards {
		counts[c.Value]++
	}
	return counts
}

// Copy returns an independent snapshot of the held cards.
func (h *Hand) Copy() []Card {
	return append([]Card{}, h.Cards...)
}
