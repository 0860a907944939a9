package game

import (
	"errors"
	"testing"

	"doudizhu-game/internal/rules"
	"doudizhu-game/internal/shared"
)

// scriptedPlayer answers bids and turns from pre-arranged queues. A nil
// moves entry is a pass.
type scriptedPlayer struct {
	BasePlayer
	bid   bool
	moves [][]shared.Card
}

func newScripted(name string, bid bool) *scriptedPlayer {
	return &scriptedPlayer{BasePlayer: NewBasePlayer(name), bid: bid}
}

func (p *scriptedPlayer) queue(moves ...[]shared.Card) *scriptedPlayer {
	p.moves = append(p.moves, moves...)
	return p
}

func (p *scriptedPlayer) DecideLandlord(bottomCards []shared.Card) bool {
	return p.bid
}

func (p *scriptedPlayer) ChooseCardsToPlay(last *rules.CardPattern, info GameInfo) []shared.Card {
	if len(p.moves) == 0 {
		return nil
	}
	move := p.moves[0]
	p.moves = p.moves[1:]
	return move
}

func TestStartGameRequiresThreePlayers(t *testing.T) {
	c := NewController()
	players := []Player{newScripted("a", false), newScripted("b", false)}
	if err := c.StartGame(players); err == nil {
		t.Fatal("StartGame accepted 2 players")
	}
}

func TestStartGameDealsFullDeck(t *testing.T) {
	c := NewController()
	players := []Player{newScripted("a", false), newScripted("b", false), newScripted("c", false)}
	if err := c.StartGame(players); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}

	if c.State.Phase != Bidding {
		t.Errorf("Phase after StartGame = %s, want %s", c.State.Phase, Bidding)
	}

	seen := map[shared.Card]int{}
	total := 0
	for _, p := range players {
		if p.CardCount() != shared.HandSize {
			t.Errorf("Player %s holds %d cards, want %d", p.Name(), p.CardCount(), shared.HandSize)
		}
		for _, card := range p.HandCards() {
			seen[card]++
			total++
		}
	}
	for _, card := range c.State.BottomCards {
		seen[card]++
		total++
	}
	if total != shared.DeckSize || len(seen) != shared.DeckSize {
		t.Errorf("Deal lost or duplicated cards: %d total, %d distinct", total, len(seen))
	}
	for card, count := range seen {
		if count != 1 {
			t.Errorf("Card %s dealt %d times", card, count)
		}
	}
}

func TestBiddingSecondPlayerBecomesLandlord(t *testing.T) {
	c := NewController()
	players := []Player{newScripted("a", false), newScripted("b", true), newScripted("c", true)}
	if err := c.StartGame(players); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}

	if !c.BiddingPhase() {
		t.Fatal("BiddingPhase returned false with a bidder present")
	}
	if c.State.LandlordIdx != 1 {
		t.Errorf("Landlord index = %d, want 1", c.State.LandlordIdx)
	}
	if got := players[1].CardCount(); got != shared.HandSize+shared.BottomSize {
		t.Errorf("Landlord holds %d cards, want %d", got, shared.HandSize+shared.BottomSize)
	}
	if c.State.CurrentPlayerIdx != 1 {
		t.Errorf("Current player = %d, want the landlord", c.State.CurrentPlayerIdx)
	}
	if c.State.Phase != Playing {
		t.Errorf("Phase = %s, want %s", c.State.Phase, Playing)
	}
	if !players[1].IsLandlord() || players[0].IsLandlord() || players[2].IsLandlord() {
		t.Error("Landlord roles not set correctly")
	}
}

func TestBiddingAllDecline(t *testing.T) {
	c := NewController()
	players := []Player{newScripted("a", false), newScripted("b", false), newScripted("c", false)}
	if err := c.StartGame(players); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	if c.BiddingPhase() {
		t.Fatal("BiddingPhase returned true with no bidder")
	}
	if c.State.Phase != Bidding {
		t.Errorf("Phase after failed bidding = %s, want %s", c.State.Phase, Bidding)
	}

	// A restart redeals cleanly even though hands are still populated.
	if err := c.StartGame(players); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	for _, p := range players {
		if p.CardCount() != shared.HandSize {
			t.Errorf("Player %s holds %d cards after redeal, want %d", p.Name(), p.CardCount(), shared.HandSize)
		}
	}
}

// playingGame wires three scripted players with fixed hands straight into
// the playing phase, bypassing the shuffle.
func playingGame(t *testing.T, hands [3][]int, landlordIdx int) (*GameController, []*scriptedPlayer) {
	t.Helper()
	c := NewController()
	players := []*scriptedPlayer{newScripted("a", false), newScripted("b", false), newScripted("c", false)}
	for i, p := range players {
		p.ReceiveCards(shared.CardsFromValues(hands[i]))
		c.State.Players[i] = p
	}
	c.State.SetLandlord(landlordIdx)
	c.State.CurrentPlayerIdx = landlordIdx
	c.State.Phase = Playing
	return c, players
}

func TestPlayTurnRejectsCardsNotHeld(t *testing.T) {
	c, players := playingGame(t, [3][]int{{3, 4}, {5, 6}, {7, 8}}, 0)
	players[0].queue(shared.CardsFromValues([]int{10}))

	err := c.PlayTurn()
	if !errors.Is(err, ErrHandMismatch) {
		t.Fatalf("PlayTurn = %v, want ErrHandMismatch", err)
	}
	if c.State.CurrentPlayerIdx != 0 {
		t.Error("Rejected turn advanced the current player")
	}
	if players[0].CardCount() != 2 {
		t.Error("Rejected turn mutated the hand")
	}
}

func TestPlayTurnRejectsIllegalPattern(t *testing.T) {
	c, players := playingGame(t, [3][]int{{3, 4}, {5, 6}, {7, 8}}, 0)
	players[0].queue(shared.CardsFromValues([]int{3, 4}))

	if err := c.PlayTurn(); !errors.Is(err, ErrIllegalPattern) {
		t.Fatalf("PlayTurn = %v, want ErrIllegalPattern", err)
	}
}

func TestPlayTurnRejectsTooSmallFollow(t *testing.T) {
	c, players := playingGame(t, [3][]int{{9, 3}, {5, 4}, {7, 8}}, 0)
	players[0].queue(shared.CardsFromValues([]int{9}))
	players[1].queue(shared.CardsFromValues([]int{5}))

	if err := c.PlayTurn(); err != nil {
		t.Fatalf("Opening play failed: %v", err)
	}
	if err := c.PlayTurn(); !errors.Is(err, ErrCannotFollow) {
		t.Fatal("Following with a lower single was accepted")
	}
	// The failed follower stays on turn and may retry.
	if c.State.CurrentPlayerIdx != 1 {
		t.Errorf("Current player = %d, want 1", c.State.CurrentPlayerIdx)
	}
	players[1].queue(shared.CardsFromValues([]int{4}))
	if err := c.PlayTurn(); !errors.Is(err, ErrCannotFollow) {
		t.Fatal("Retry with another low single was accepted")
	}
}

func TestPassClearSemantics(t *testing.T) {
	c, players := playingGame(t, [3][]int{{5, 5, 3}, {6, 9}, {7, 8}}, 0)
	players[0].queue(shared.CardsFromValues([]int{5, 5}))
	players[1].queue(nil)
	players[2].queue(nil)

	if err := c.PlayTurn(); err != nil {
		t.Fatalf("Opening play failed: %v", err)
	}
	if c.State.LastPlay == nil || c.State.LastPlay.Type != rules.Pair {
		t.Fatal("Last play not recorded")
	}
	if c.State.LastPlayerIdx != 0 {
		t.Errorf("Last player index = %d, want 0", c.State.LastPlayerIdx)
	}

	if err := c.PlayTurn(); err != nil {
		t.Fatalf("First pass failed: %v", err)
	}
	if c.State.PassCount != 1 {
		t.Errorf("Pass count = %d, want 1", c.State.PassCount)
	}
	if c.State.LastPlay == nil {
		t.Error("Last play cleared after a single pass")
	}

	if err := c.PlayTurn(); err != nil {
		t.Fatalf("Second pass failed: %v", err)
	}
	if c.State.LastPlay != nil || c.State.LastPlayerIdx != -1 {
		t.Error("Last play not cleared after two consecutive passes")
	}
	if c.State.PassCount != 0 {
		t.Errorf("Pass count = %d, want 0 after clear", c.State.PassCount)
	}
	// Lead returns to the player who made the last nonempty play.
	if c.State.CurrentPlayerIdx != 0 {
		t.Errorf("Current player = %d, want 0", c.State.CurrentPlayerIdx)
	}
}

func TestOpeningPassPolicy(t *testing.T) {
	c, players := playingGame(t, [3][]int{{3}, {5}, {7}}, 0)
	players[0].queue(nil, nil)

	if err := c.PlayTurn(); !errors.Is(err, ErrOpeningPass) {
		t.Fatalf("PlayTurn = %v, want ErrOpeningPass by default", err)
	}

	c.OpeningPassAllowed = true
	if err := c.PlayTurn(); err != nil {
		t.Fatalf("Opening pass rejected despite permissive policy: %v", err)
	}
	if c.State.PassCount != 1 || c.State.CurrentPlayerIdx != 1 {
		t.Error("Permitted opening pass did not advance the turn")
	}
}

func TestTerminationAndLandlordScoring(t *testing.T) {
	c, players := playingGame(t, [3][]int{{9}, {5, 6}, {7, 8}}, 0)
	players[0].queue(shared.CardsFromValues([]int{9}))

	if err := c.PlayTurn(); err != nil {
		t.Fatalf("Winning play failed: %v", err)
	}
	if !c.IsGameOver() {
		t.Fatal("Game not over after a hand emptied")
	}
	if c.State.WinnerIdx != 0 {
		t.Errorf("Winner index = %d, want 0", c.State.WinnerIdx)
	}
	// The terminal turn must not advance to the next player.
	if c.State.CurrentPlayerIdx != 0 {
		t.Errorf("Terminal turn advanced current player to %d", c.State.CurrentPlayerIdx)
	}
	if w := c.Winner(); w == nil || w.Name() != "a" {
		t.Fatal("Winner() did not return the emptied player")
	}

	result := c.GameResult()
	if result == nil {
		t.Fatal("GameResult returned nil after game end")
	}
	if result.Result != "landlord wins" {
		t.Errorf("Result = %q, want landlord win", result.Result)
	}
	if players[0].Score() != 2 || players[1].Score() != -1 || players[2].Score() != -1 {
		t.Errorf("Scores = %d/%d/%d, want 2/-1/-1",
			players[0].Score(), players[1].Score(), players[2].Score())
	}

	// Reading the result again must not re-apply scoring.
	c.GameResult()
	if players[0].Score() != 2 {
		t.Error("Scoring applied twice")
	}
}

func TestFarmerWinScoring(t *testing.T) {
	c, players := playingGame(t, [3][]int{{9, 10}, {5}, {7, 8}}, 0)

	// Farmer at seat 1 leads and wins directly.
	c.State.CurrentPlayerIdx = 1
	players[1].queue(shared.CardsFromValues([]int{5}))
	if err := c.PlayTurn(); err != nil {
		t.Fatalf("Winning play failed: %v", err)
	}

	result := c.GameResult()
	if result.Result != "farmers win" {
		t.Errorf("Result = %q, want farmers win", result.Result)
	}
	if players[0].Score() != -2 || players[1].Score() != 1 || players[2].Score() != 1 {
		t.Errorf("Scores = %d/%d/%d, want -2/1/1",
			players[0].Score(), players[1].Score(), players[2].Score())
	}
}

func TestGameInfoSnapshot(t *testing.T) {
	c, players := playingGame(t, [3][]int{{5, 5, 3}, {6, 9}, {7, 8}}, 0)
	players[0].queue(shared.CardsFromValues([]int{5, 5}))
	if err := c.PlayTurn(); err != nil {
		t.Fatalf("Opening play failed: %v", err)
	}

	info := c.State.Info()
	if info.Phase != Playing {
		t.Errorf("Info phase = %s, want %s", info.Phase, Playing)
	}
	if info.CurrentPlayerIdx != 1 {
		t.Errorf("Info current player = %d, want 1", info.CurrentPlayerIdx)
	}
	if info.LastPlay == nil {
		t.Fatal("Info missing last play")
	}
	if info.LastPlay.CardType != rules.Pair || info.LastPlay.PlayerIdx != 0 {
		t.Errorf("Info last play = %+v", info.LastPlay)
	}
	if info.PlayersCardCount != [3]int{1, 2, 2} {
		t.Errorf("Info card counts = %v, want [1 2 2]", info.PlayersCardCount)
	}
	if info.RoundCount != 1 {
		t.Errorf("Info round count = %d, want 1", info.RoundCount)
	}
}
