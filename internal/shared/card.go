package shared

// Suit represents the suit of a card. Jokers carry no suit.
type Suit string

const (
	Spades   Suit = "♠"
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
)

// Card values. Ranks 3 through K map to 3..13, then Ace, "2" and the two
// jokers above them. Ordering and legality depend on Value only; Suit is
// display-only.
const (
	ValueJack       = 11
	ValueQueen      = 12
	ValueKing       = 13
	ValueAce        = 14
	ValueTwo        = 15
	ValueSmallJoker = 16
	ValueBigJoker   = 17
)

// Card represents a single card in the Dou Dizhu deck.
type Card struct {
	Value int  `json:"value"`
	Suit  Suit `json:"suit,omitempty"`
}

var valueNames = map[int]string{
	3: "3", 4: "4", 5: "5", 6: "6", 7: "7", 8: "8", 9: "9", 10: "10",
	ValueJack: "J", ValueQueen: "Q", ValueKing: "K", ValueAce: "A", ValueTwo: "2",
	ValueSmallJoker: "joker", ValueBigJoker: "JOKER",
}

// String returns the display form of the card, e.g. "♠A" or "JOKER".
func (c Card) String() string {
	name, ok := valueNames[c.Value]
	if !ok {
		return "?"
	}
	if c.IsJoker() {
		return name
	}
	return string(c.Suit) + name
}

// IsJoker reports whether the card is one of the two jokers.
func (c Card) IsJoker() bool {
	return c.Value == ValueSmallJoker || c.Value == ValueBigJoker
}

// ValueName returns the display name for a bare card value.
func ValueName(value int) string {
	if name, ok := valueNames[value]; ok {
		return name
	}
	return "?"
}

// CardsFromValues builds cards from bare values, assigning suits round-robin
// to non-jokers. Suits never affect rank or legality, so this is sufficient
// for tests and AI candidate construction.
func CardsFromValues(values []int) []Card {
	suits := []Suit{Spades, Hearts, Diamonds, Clubs}
	cards := make([]Card, 0, len(values))
	used := map[int]int{}
	for _, v := range values {
		if v == ValueSmallJoker || v == ValueBigJoker {
			cards = append(cards, Card{Value: v})
			continue
		}
		cards = append(cards, Card{Value: v, Suit: suits[used[v]%len(suits)]})
		used[v]++
	}
	return cards
}
