package ai

import (
	"log"

	"doudizhu-game/internal/game"
	"doudizhu-game/internal/rules"
	"doudizhu-game/internal/shared"
)

// AIPlayer is a heuristic-driven seat implementation of the Player contract.
type AIPlayer struct {
	game.BasePlayer
	strategy Strategy
}

// NewAIPlayer creates an AI player with the given difficulty.
func NewAIPlayer(name string, difficulty Difficulty) *AIPlayer {
	return &AIPlayer{
		BasePlayer: game.NewBasePlayer(name),
		strategy:   Strategy{Difficulty: difficulty},
	}
}

// DecideLandlord evaluates the hand plus bottom cards.
func (p *AIPlayer) DecideLandlord(bottomCards []shared.Card) bool {
	decision := p.strategy.DecideLandlord(p.HandCards(), bottomCards)
	if decision {
		log.Printf("%s bids for landlord.", p.Name())
	} else {
		log.Printf("%s declines the bid.", p.Name())
	}
	return decision
}

// ChooseCardsToPlay delegates to the strategy; nil means pass.
func (p *AIPlayer) ChooseCardsToPlay(last *rules.CardPattern, info game.GameInfo) []shared.Card {
	cards := p.strategy.ChooseCardsToPlay(p.HandCards(), last, info)
	if cards == nil {
		log.Printf("%s passes.", p.Name())
		return nil
	}
	pattern := rules.Analyze(cards)
	log.Printf("%s plays %s.", p.Name(), rules.TypeName(pattern.Type))
	return cards
}
