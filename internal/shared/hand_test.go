package shared

import "testing"

func TestHandAddKeepsSorted(t *testing.T) {
	h := NewHand()
	h.Add(CardsFromValues([]int{10, 3, ValueBigJoker, 7}))
	h.Add(CardsFromValues([]int{5}))

	for i := 1; i < len(h.Cards); i++ {
		if h.Cards[i-1].Value > h.Cards[i].Value {
			t.Fatalf("Hand not sorted: %v", h.Cards)
		}
	}
	if h.Count() != 5 {
		t.Fatalf("Expected 5 cards, got %d", h.Count())
	}
}

func TestHandRemoveAtomic(t *testing.T) {
	held := []Card{
		{Value: 5, Suit: Spades},
		{Value: 5, Suit: Hearts},
		{Value: 9, Suit: Clubs},
	}
	h := NewHand(held...)

	// One card held, one absent: nothing may be removed.
	missing := []Card{{Value: 9, Suit: Clubs}, {Value: 12, Suit: Spades}}
	if h.Remove(missing) {
		t.Fatal("Remove succeeded for cards not all held")
	}
	if h.Count() != 3 {
		t.Fatalf("Failed Remove mutated hand, %d cards left", h.Count())
	}

	if !h.Remove([]Card{{Value: 5, Suit: Hearts}}) {
		t.Fatal("Remove failed for a held card")
	}
	if h.Count() != 2 {
		t.Fatalf("Expected 2 cards after removal, got %d", h.Count())
	}
	// The identical-value different-suit card stays behind.
	if !h.Has([]Card{{Value: 5, Suit: Spades}}) {
		t.Fatal("Remove took the wrong suit")
	}
}

func TestHandRemoveRespectsMultiplicity(t *testing.T) {
	h := NewHand(Card{Value: 8, Suit: Spades})

	// Asking twice for a card held once must fail.
	twice := []Card{{Value: 8, Suit: Spades}, {Value: 8, Suit: Spades}}
	if h.Has(twice) {
		t.Fatal("Has ignored multiplicity")
	}
	if h.Remove(twice) {
		t.Fatal("Remove ignored multiplicity")
	}
	if h.Count() != 1 {
		t.Fatalf("Hand mutated by failed Remove, %d cards left", h.Count())
	}
}

func TestHandIsEmpty(t *testing.T) {
	h := NewHand(Card{Value: 3, Suit: Spades})
	if h.IsEmpty() {
		t.Fatal("Non-empty hand reported empty")
	}
	h.Remove([]Card{{Value: 3, Suit: Spades}})
	if !h.IsEmpty() {
		t.Fatal("Emptied hand not reported empty")
	}
}

func TestCardsFromValues(t *testing.T) {
	cards := CardsFromValues([]int{7, 7, ValueSmallJoker, ValueBigJoker})
	if len(cards) != 4 {
		t.Fatalf("Expected 4 cards, got %d", len(cards))
	}
	if cards[0].Suit == cards[1].Suit {
		t.Error("Duplicate values should receive distinct suits")
	}
	if cards[2].Suit != "" || cards[3].Suit != "" {
		t.Error("Jokers must not carry a suit")
	}
}
