package game

import (
	"errors"
	"fmt"
	"log"

	"doudizhu-game/internal/rules"
	"doudizhu-game/internal/shared"
)

// Turn rejection kinds. All are ordinary recoverable conditions: the
// controller never retries a rejected move, it returns the reason and the
// orchestrator re-prompts or substitutes a fallback move.
var (
	// ErrWrongPhase signals a call outside the phase it belongs to.
	ErrWrongPhase = errors.New("operation not valid in current phase")
	// ErrHandMismatch signals a move referencing cards the player does not hold.
	ErrHandMismatch = errors.New("cards not in player's hand")
	// ErrIllegalPattern signals cards that classify into no recognized shape.
	ErrIllegalPattern = errors.New("cards do not form a valid pattern")
	// ErrCannotFollow signals a recognized shape that does not dominate the
	// last play. Distinct from ErrIllegalPattern so UIs can say "too small"
	// instead of "not a real shape".
	ErrCannotFollow = errors.New("cards cannot follow the last play")
	// ErrOpeningPass signals a pass while free to open, when the policy
	// forbids it.
	ErrOpeningPass = errors.New("cannot pass when opening a trick")
)

// GameResult summarizes a finished game.
type GameResult struct {
	Result   string         `json:"result"`
	Winner   string         `json:"winner"`
	Landlord string         `json:"landlord"`
	Scores   map[string]int `json:"scores"`
	Rounds   int            `json:"rounds"`
	History  []Action       `json:"history"`
}

// GameController orchestrates dealing, bidding and the per-turn protocol for
// one game instance. It is a synchronous single-caller state machine; the
// surrounding layer serializes access per game.
type GameController struct {
	State *GameState
	deck  *shared.Deck

	// OpeningPassAllowed controls whether a player may pass while free to
	// open a trick. Off by default: an opening pass stalls the game, and the
	// input layers forbid it anyway.
	OpeningPassAllowed bool

	scored bool
}

// NewController creates a controller with a fresh deck and empty state.
func NewController() *GameController {
	return &GameController{
		State: NewGameState(),
		deck:  shared.NewDeck(),
	}
}

// StartGame resets state, shuffles a fresh deck and deals 17/17/17 with the
// 3 bottom cards held back for the bidding winner. The phase moves to Bidding.
func (c *GameController) StartGame(players []Player) error {
	if len(players) != NumPlayers {
		return fmt.Errorf("doudizhu requires exactly %d players, got %d", NumPlayers, len(players))
	}

	c.State = NewGameState()
	c.scored = false
	copy(c.State.Players[:], players)

	// A restart after failed bidding reuses the same players; drop whatever
	// the previous deal left in their hands.
	for _, p := range players {
		if p.CardCount() > 0 {
			p.PlayCards(p.HandCards())
		}
	}

	c.deck.Reset()
	c.deck.Shuffle()

	hands, bottom, err := c.deck.Deal()
	if err != nil {
		return err
	}
	for i, p := range players {
		p.ReceiveCards(hands[i])
	}
	c.State.BottomCards = bottom

	c.State.Phase = Bidding
	c.State.LogAction("game_start", -1, nil, "")
	log.Printf("Game started: dealt %d cards each, %d bottom cards.", shared.HandSize, shared.BottomSize)
	return nil
}

// BiddingPhase asks each player in seat order whether they claim the
// landlord seat. The first to accept receives the bottom cards and leads the
// first trick. Returns false if all three decline; the caller restarts the
// game, the controller does not auto-retry.
func (c *GameController) BiddingPhase() bool {
	if c.State.Phase != Bidding {
		return false
	}

	for i := 0; i < NumPlayers; i++ {
		player := c.State.Players[i]
		if !player.DecideLandlord(c.State.BottomCards) {
			continue
		}
		c.State.SetLandlord(i)
		player.ReceiveCards(c.State.BottomCards)
		c.State.CurrentPlayerIdx = i
		c.State.Phase = Playing
		c.State.LogAction("become_landlord", i, c.State.BottomCards, "")
		log.Printf("Player %d (%s) becomes landlord.", i, player.Name())
		return true
	}

	log.Println("No player bid for landlord; game needs a restart.")
	return false
}

// PlayTurn executes one turn of the playing phase: ask the current player
// for a move, validate it, and update state. A nil error means the turn was
// accepted (including a legal pass, and including the terminal winning
// play). A non-nil error means the move was rejected and the turn did not
// advance; the caller obtains a corrected move and calls again.
func (c *GameController) PlayTurn() error {
	if c.State.Phase != Playing {
		return ErrWrongPhase
	}

	current := c.State.CurrentPlayer()
	cards := current.ChooseCardsToPlay(c.State.LastPlay, c.State.Info())

	if len(cards) == 0 {
		return c.handlePass(current)
	}
	return c.handlePlay(current, cards)
}

func (c *GameController) handlePass(current Player) error {
	if c.State.LastPlay == nil && !c.OpeningPassAllowed {
		log.Printf("Player %d (%s) tried to pass while opening a trick.", c.State.CurrentPlayerIdx, current.Name())
		return ErrOpeningPass
	}

	c.State.PassCount++
	c.State.LogAction("pass", c.State.CurrentPlayerIdx, nil, "")
	log.Printf("Player %d (%s) passes (%d in a row).", c.State.CurrentPlayerIdx, current.Name(), c.State.PassCount)

	if c.State.ShouldClearLastPlay() {
		// Two passes in a row: the trick ends, and the player who made the
		// last accepted play is free to open any shape next.
		c.State.LastPlay = nil
		c.State.LastPlayerIdx = -1
		c.State.PassCount = 0
		log.Println("Trick cleared after two consecutive passes.")
	}

	c.State.NextPlayer()
	c.State.RoundCount++
	return nil
}

func (c *GameController) handlePlay(current Player, cards []shared.Card) error {
	if !shared.NewHand(current.HandCards()...).Has(cards) {
		log.Printf("Player %d (%s) attempted to play cards not in hand.", c.State.CurrentPlayerIdx, current.Name())
		return ErrHandMismatch
	}

	pattern := rules.Analyze(cards)
	if pattern.Type == rules.Invalid {
		log.Printf("Player %d (%s) attempted an unrecognized shape.", c.State.CurrentPlayerIdx, current.Name())
		return ErrIllegalPattern
	}
	if !rules.CanFollow(cards, c.State.LastPlay) {
		log.Printf("Player %d (%s) attempted %s that cannot follow.", c.State.CurrentPlayerIdx, current.Name(), rules.TypeName(pattern.Type))
		return ErrCannotFollow
	}

	if !current.PlayCards(cards) {
		// Has passed above, so removal cannot fail unless a Player
		// implementation mutates its hand concurrently.
		return ErrHandMismatch
	}

	c.State.LastPlay = &pattern
	c.State.LastPlayerIdx = c.State.CurrentPlayerIdx
	c.State.PassCount = 0
	c.State.LogAction("play_cards", c.State.CurrentPlayerIdx, cards, pattern.Type)
	log.Printf("Player %d (%s) plays %s, %d cards left.", c.State.CurrentPlayerIdx, current.Name(), rules.TypeName(pattern.Type), current.CardCount())

	if current.IsHandEmpty() {
		c.State.WinnerIdx = c.State.CurrentPlayerIdx
		c.State.Phase = Ended
		c.State.LogAction("game_end", c.State.CurrentPlayerIdx, nil, "")
		log.Printf("Game over: player %d (%s) wins.", c.State.WinnerIdx, current.Name())
		return nil
	}

	c.State.NextPlayer()
	c.State.RoundCount++
	return nil
}

// IsGameOver reports whether a hand has been played out.
func (c *GameController) IsGameOver() bool {
	return c.State.Phase == Ended
}

// Winner returns the winning player once the game has ended, nil otherwise.
func (c *GameController) Winner() Player {
	if c.State.WinnerIdx < 0 {
		return nil
	}
	return c.State.Players[c.State.WinnerIdx]
}

// GameResult applies the fixed zero-sum scoring and returns the summary.
// Landlord win: landlord +2, each farmer -1. Farmer win: landlord -2, each
// farmer +1. Only valid once the game has ended; scoring is applied once no
// matter how often the result is read.
func (c *GameController) GameResult() *GameResult {
	if !c.IsGameOver() {
		return nil
	}

	winner := c.Winner()
	landlord := c.State.Landlord()

	if !c.scored {
		c.scored = true
		if winner == landlord {
			landlord.AddScore(2)
			for _, p := range c.State.Players {
				if p != landlord {
					p.AddScore(-1)
				}
			}
		} else {
			landlord.AddScore(-2)
			for _, p := range c.State.Players {
				if p != landlord {
					p.AddScore(1)
				}
			}
		}
	}

	result := "farmers win"
	if winner == landlord {
		result = "landlord wins"
	}

	scores := map[string]int{}
	for _, p := range c.State.Players {
		scores[p.Name()] = p.Score()
	}

	return &GameResult{
		Result:   result,
		Winner:   winner.Name(),
		Landlord: landlord.Name(),
		Scores:   scores,
		Rounds:   c.State.RoundCount,
		History:  c.State.History,
	}
}
