package game

import (
	"doudizhu-game/internal/rules"
	"doudizhu-game/internal/shared"
)

// Player is the capability contract every seat implementation satisfies:
// human-input, heuristic AI, LLM-backed or network-driven. The controller
// depends only on this interface and never trusts ChooseCardsToPlay: every
// returned move is re-validated against the hand and the rule engine.
type Player interface {
	// Name identifies the player for logs, history and results.
	Name() string

	// DecideLandlord reports whether the player claims the landlord seat
	// after seeing the three bottom cards.
	DecideLandlord(bottomCards []shared.Card) bool

	// ChooseCardsToPlay returns the cards the player wants to play over the
	// last accepted pattern, or nil to pass.
	ChooseCardsToPlay(last *rules.CardPattern, info GameInfo) []shared.Card

	// ReceiveCards adds dealt or bottom cards to the player's hand.
	ReceiveCards(cards []shared.Card)

	// PlayCards removes the cards from the hand if all are held; it makes
	// no legality judgement beyond membership.
	PlayCards(cards []shared.Card) bool

	// HandCards returns a snapshot of the current hand.
	HandCards() []shared.Card

	// CardCount returns the number of cards still held.
	CardCount() int

	// IsHandEmpty reports whether the player has played out.
	IsHandEmpty() bool

	// SetLandlord marks or unmarks the player as the landlord.
	SetLandlord(isLandlord bool)

	// IsLandlord reports the player's current role.
	IsLandlord() bool

	// AddScore applies a score delta; Score returns the running total.
	AddScore(delta int)
	Score() int
}

// BasePlayer carries the hand plumbing shared by every Player variant.
// Concrete implementations embed it and provide the two decision methods.
type BasePlayer struct {
	name       string
	hand       *shared.Hand
	isLandlord bool
	score      int
}

// NewBasePlayer creates the common player core with an empty hand.
func NewBasePlayer(name string) BasePlayer {
	return BasePlayer{name: name, hand: shared.NewHand()}
}

func (p *BasePlayer) Name() string { return p.name }

func (p *BasePlayer) ReceiveCards(cards []shared.Card) {
	p.hand.Add(cards)
}

func (p *BasePlayer) PlayCards(cards []shared.Card) bool {
	return p.hand.Remove(cards)
}

func (p *BasePlayer) HandCards() []shared.Card { return p.hand.Copy() }

func (p *BasePlayer) CardCount() int { return p.hand.Count() }

func (p *BasePlayer) IsHandEmpty() bool { return p.hand.IsEmpty() }

func (p *BasePlayer) SetLandlord(isLandlord bool) { p.isLandlord = isLandlord }

func (p *BasePlayer) IsLandlord() bool { return p.isLandlord }

func (p *BasePlayer) AddScore(delta int) { p.score += delta }

func (p *BasePlayer) Score() int { return p.score }
