package server

import (
	"log"
	"time"

	"doudizhu-game/internal/ai"
	"doudizhu-game/internal/database"
	"doudizhu-game/internal/game"
	"doudizhu-game/internal/protocol"
	"doudizhu-game/internal/rules"
	"doudizhu-game/internal/shared"

	"github.com/google/uuid"
)

// MessageSender delivers a message to one client by ID. The hub provides the
// implementation.
type MessageSender func(clientID string, message []byte)

// maxBidAttempts bounds redeals when nobody bids for landlord.
const maxBidAttempts = 10

// NetworkPlayer bridges a remote client into the synchronous Player
// contract: each decision sends a request over the websocket and blocks
// until the hub forwards the client's answer.
type NetworkPlayer struct {
	game.BasePlayer
	clientID string
	sender   MessageSender
	bids     chan bool
	moves    chan []shared.Card
	quit     chan struct{}
}

func newNetworkPlayer(clientID, name string, sender MessageSender, quit chan struct{}) *NetworkPlayer {
	return &NetworkPlayer{
		BasePlayer: game.NewBasePlayer(name),
		clientID:   clientID,
		sender:     sender,
		bids:       make(chan bool, 1),
		moves:      make(chan []shared.Card, 1),
		quit:       quit,
	}
}

// DecideLandlord asks the remote client and blocks for the answer. A closed
// room reads as a declined bid.
func (p *NetworkPlayer) DecideLandlord(bottomCards []shared.Card) bool {
	msg, _ := protocol.NewMessage("bid_request", protocol.BidRequestPayload{BottomCards: bottomCards})
	p.sender(p.clientID, msg)

	select {
	case bid := <-p.bids:
		return bid
	case <-p.quit:
		return false
	}
}

// ChooseCardsToPlay asks the remote client for a move. A closed room reads
// as a pass; the room loop notices the closed state before re-prompting.
func (p *NetworkPlayer) ChooseCardsToPlay(last *rules.CardPattern, info game.GameInfo) []shared.Card {
	payload := protocol.YourTurnPayload{PlayerID: p.clientID, LastPlay: info.LastPlay, Info: info}
	msg, _ := protocol.NewMessage("your_turn", payload)
	p.sender(p.clientID, msg)

	select {
	case cards := <-p.moves:
		return cards
	case <-p.quit:
		return nil
	}
}

// Room owns one game instance and the goroutine that drives it.
type Room struct {
	Code       string
	ID         string
	controller *game.GameController
	players    []game.Player
	sender     MessageSender
	db         *database.Service
	quit       chan struct{}
}

// NewRoom creates a room for the given seats. Seats may mix NetworkPlayer
// and AI players.
func NewRoom(code string, players []game.Player, sender MessageSender, db *database.Service, quit chan struct{}) *Room {
	return &Room{
		Code:       code,
		ID:         uuid.NewString(),
		controller: game.NewController(),
		players:    players,
		sender:     sender,
		db:         db,
		quit:       quit,
	}
}

// DeliverBid forwards a client's landlord answer to its waiting seat.
func (r *Room) DeliverBid(clientID string, bid bool) {
	if p := r.networkPlayer(clientID); p != nil {
		select {
		case p.bids <- bid:
		default:
			log.Printf("Room %s: discarding unsolicited bid from %s.", r.Code, clientID)
		}
	}
}

// DeliverMove forwards a client's play (or pass, as an empty list) to its
// waiting seat.
func (r *Room) DeliverMove(clientID string, cards []shared.Card) {
	if p := r.networkPlayer(clientID); p != nil {
		select {
		case p.moves <- cards:
		default:
			log.Printf("Room %s: discarding unsolicited move from %s.", r.Code, clientID)
		}
	}
}

// Close abandons the room; pending decision waits unblock.
func (r *Room) Close() {
	select {
	case <-r.quit:
	default:
		close(r.quit)
	}
}

func (r *Room) closed() bool {
	select {
	case <-r.quit:
		return true
	default:
		return false
	}
}

func (r *Room) networkPlayer(clientID string) *NetworkPlayer {
	for _, p := range r.players {
		if np, ok := p.(*NetworkPlayer); ok && np.clientID == clientID {
			return np
		}
	}
	return nil
}

// Run drives one full game: deal, bid (redealing if nobody bids), the turn
// loop, scoring, persistence and the game-over broadcast. It is started in
// its own goroutine by the hub; the controller itself stays synchronous.
func (r *Room) Run() {
	log.Printf("Room %s: starting game %s.", r.Code, r.ID)

	landlordFound := false
	for attempt := 0; attempt < maxBidAttempts && !r.closed(); attempt++ {
		if err := r.controller.StartGame(r.players); err != nil {
			log.Printf("Room %s: failed to start game: %v", r.Code, err)
			r.broadcastError("Internal server error during dealing.")
			return
		}
		r.broadcastGameStart()
		r.sendHands()

		if r.controller.BiddingPhase() {
			landlordFound = true
			break
		}
		log.Printf("Room %s: nobody bid, redealing (attempt %d).", r.Code, attempt+1)
		msg, _ := protocol.NewMessage("bidding_failed", protocol.BiddingFailedPayload{Message: "Nobody bid for landlord; redealing."})
		r.broadcast(msg)
	}
	if !landlordFound {
		if !r.closed() {
			r.broadcastError("Bidding failed repeatedly; closing room.")
		}
		return
	}
	r.broadcastLandlord()
	r.sendHands() // landlord's hand grew by the bottom cards

	rejectedStreak := 0
	for !r.controller.IsGameOver() && !r.closed() {
		state := r.controller.State
		actingIdx := state.CurrentPlayerIdx

		err := r.controller.PlayTurn()
		if err != nil {
			rejectedStreak++
			r.rejectMove(actingIdx, err)
			// A misbehaving seat (or an abandoned room) must not spin the
			// loop forever.
			if rejectedStreak >= 20 || r.closed() {
				log.Printf("Room %s: giving up after repeated rejected moves.", r.Code)
				r.broadcastError("Game aborted after repeated illegal moves.")
				return
			}
			continue
		}
		rejectedStreak = 0
		r.broadcastTurn(actingIdx, state)
	}

	if r.closed() {
		log.Printf("Room %s: abandoned before completion.", r.Code)
		return
	}

	result := r.controller.GameResult()
	r.persistResult(result)
	msg, _ := protocol.NewMessage("game_over", protocol.GameOverPayload{Result: *result})
	r.broadcast(msg)
	log.Printf("Room %s: game over, %s (winner %s).", r.Code, result.Result, result.Winner)
}

// HandlePlayerDisconnect forfeits the game when a human leaves mid-game.
func (r *Room) HandlePlayerDisconnect(clientID string) {
	if r.networkPlayer(clientID) == nil {
		return
	}
	log.Printf("Room %s: player %s disconnected, abandoning game.", r.Code, clientID)
	leftMsg, _ := protocol.NewMessage("player_left", protocol.PlayerLeftPayload{PlayerID: clientID})
	r.broadcast(leftMsg)
	r.Close()
}

func (r *Room) broadcastGameStart() {
	infos := make([]protocol.PlayerInfo, len(r.players))
	for i, p := range r.players {
		info := protocol.PlayerInfo{Name: p.Name(), Seat: i}
		if np, ok := p.(*NetworkPlayer); ok {
			info.ID = np.clientID
		}
		infos[i] = info
	}
	msg, _ := protocol.NewMessage("game_start", protocol.GameStartPayload{GameID: r.ID, Players: infos})
	r.broadcast(msg)
}

func (r *Room) sendHands() {
	for _, p := range r.players {
		np, ok := p.(*NetworkPlayer)
		if !ok {
			continue
		}
		msg, _ := protocol.NewMessage("deal_hand", protocol.DealHandPayload{Hand: p.HandCards()})
		r.sender(np.clientID, msg)
	}
}

func (r *Room) broadcastLandlord() {
	state := r.controller.State
	payload := protocol.LandlordPayload{
		Seat:        state.LandlordIdx,
		BottomCards: state.BottomCards,
	}
	if np, ok := state.Landlord().(*NetworkPlayer); ok {
		payload.PlayerID = np.clientID
	}
	msg, _ := protocol.NewMessage("landlord_decided", payload)
	r.broadcast(msg)
}

func (r *Room) broadcastTurn(actingIdx int, state *game.GameState) {
	acting := state.Players[actingIdx]
	played := protocol.PlayedPayload{Seat: actingIdx, Passed: true}
	if np, ok := acting.(*NetworkPlayer); ok {
		played.PlayerID = np.clientID
	}
	// The accepted play for this turn is the last history entry.
	if n := len(state.History); n > 0 {
		entry := state.History[n-1]
		if entry.Type == "play_cards" || entry.Type == "game_end" {
			if entry.Type == "game_end" && n > 1 {
				entry = state.History[n-2]
			}
			played.Passed = false
			played.Cards = entry.Cards
			played.CardType = string(entry.CardType)
		}
	}
	playedMsg, _ := protocol.NewMessage("played", played)
	r.broadcast(playedMsg)

	stateMsg, _ := protocol.NewMessage("game_state_update", protocol.GameStatePayload{Info: state.Info()})
	r.broadcast(stateMsg)
}

func (r *Room) rejectMove(actingIdx int, err error) {
	np, ok := r.players[actingIdx].(*NetworkPlayer)
	if !ok {
		log.Printf("Room %s: AI seat %d produced a rejected move: %v", r.Code, actingIdx, err)
		return
	}

	reason := "illegal_pattern"
	message := "Those cards do not form a valid shape."
	switch err {
	case game.ErrHandMismatch:
		reason, message = "hand_mismatch", "You do not hold those cards."
	case game.ErrCannotFollow:
		reason, message = "cannot_follow", "That shape is too small to follow the last play."
	case game.ErrOpeningPass:
		reason, message = "opening_pass", "You must play when opening a trick."
	}
	msg, _ := protocol.NewMessage("move_rejected", protocol.MoveRejectedPayload{Reason: reason, Message: message})
	r.sender(np.clientID, msg)
}

func (r *Room) persistResult(result *game.GameResult) {
	if r.db == nil {
		return
	}
	state := r.controller.State
	record := database.GameRecord{
		ID:        r.ID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Rounds:    result.Rounds,
		Landlord:  result.Landlord,
		Winner:    result.Winner,
		Result:    result.Result,
	}
	for i, p := range state.Players {
		record.PlayerNames[i] = p.Name()
		record.PlayerScores[i] = p.Score()
	}
	if err := r.db.Insert(record); err != nil {
		log.Printf("Room %s: failed to persist game result: %v", r.Code, err)
	}
}

func (r *Room) broadcast(message []byte) {
	for _, p := range r.players {
		if np, ok := p.(*NetworkPlayer); ok {
			r.sender(np.clientID, message)
		}
	}
}

func (r *Room) broadcastError(errorMsg string) {
	msg, _ := protocol.NewMessage("error", protocol.ErrorPayload{Message: errorMsg})
	r.broadcast(msg)
}

// NewAISeats builds AI players to fill empty chairs.
func NewAISeats(count int, difficulty ai.Difficulty) []game.Player {
	names := []string{"AI East", "AI West", "AI North"}
	players := make([]game.Player, 0, count)
	for i := 0; i < count; i++ {
		players = append(players, ai.NewAIPlayer(names[i%len(names)], difficulty))
	}
	return players
}
