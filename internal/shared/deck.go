package shared

import (
	"errors"
	"log"
	"math/rand/v2"
)

// DeckSize is the full Dou Dizhu deck: 13 ranks in 4 suits plus 2 jokers.
const DeckSize = 54

// HandSize and BottomSize describe how Deal partitions the deck.
const (
	HandSize   = 17
	BottomSize = 3
)

// ErrDeckSize is returned by Deal when the deck does not hold exactly 54 cards.
var ErrDeckSize = errors.New("deck must hold exactly 54 cards to deal")

// Deck represents the draw pile cards are dealt from.
type Deck struct {
	Cards []Card
}

// NewDeck creates the canonical unshuffled 54-card deck.
func NewDeck() *Deck {
	d := &Deck{}
	d.Reset()
	return d
}

// Reset restores the canonical unshuffled 54-card state.
func (d *Deck) Reset() {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range []Suit{Spades, Hearts, Diamonds, Clubs} {
		for value := 3; value <= ValueTwo; value++ {
			cards = append(cards, Card{Value: value, Suit: suit})
		}
	}
	cards = append(cards, Card{Value: ValueSmallJoker}, Card{Value: ValueBigJoker})
	d.Cards = cards
}

// Shuffle randomizes the order of cards in the deck.
func (d *Deck) Shuffle() {
	rand.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
	log.Println("Deck shuffled.")
}

// Deal partitions the full deck into three 17-card hands plus the 3 bottom
// cards. The groups are copies, disjoint, and together cover the deck exactly
// once. The deck itself is left untouched so Reset/Shuffle can reuse it.
func (d *Deck) Deal() (hands [3][]Card, bottom []Card, err error) {
	if len(d.Cards) != DeckSize {
		return hands, nil, ErrDeckSize
	}

	start := 0
	for i := 0; i < 3; i++ {
		hand := make([]Card, HandSize)
		copy(hand, d.Cards[start:start+HandSize])
		hands[i] = hand
		start += HandSize
	}

	bottom = make([]Card, BottomSize)
	copy(bottom, d.Cards[start:start+BottomSize])

	log.Printf("Dealt %d cards to 3 players, %d bottom cards.", HandSize, BottomSize)
	return hands, bottom, nil
}
