package protocol

import (
	"encoding/json"

	"doudizhu-game/internal/game"
	"doudizhu-game/internal/shared"
)

// Message is the generic WebSocket envelope.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Client -> Server payloads ---

type CreateGamePayload struct {
	Name string `json:"name"`
	// FillWithAI seats heuristic AI players in the remaining chairs so the
	// game starts immediately.
	FillWithAI bool `json:"fill_with_ai"`
}

type JoinGamePayload struct {
	Name     string `json:"name"`
	GameCode string `json:"game_code"`
}

// BidPayload answers the landlord question.
type BidPayload struct {
	Bid bool `json:"bid"`
}

// PlayCardsPayload carries an attempted play; an empty Cards list is a pass.
type PlayCardsPayload struct {
	Cards []shared.Card `json:"cards"`
}

// --- Server -> Client payloads ---

type GameCreatedPayload struct {
	GameCode string `json:"game_code"`
}

type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Seat int    `json:"seat"`
}

type LobbyUpdatePayload struct {
	Players []PlayerInfo `json:"players"`
}

type JoinErrorPayload struct {
	Message string `json:"message"`
}

type GameStartPayload struct {
	GameID  string       `json:"game_id"`
	Players []PlayerInfo `json:"players"`
}

type DealHandPayload struct {
	Hand []shared.Card `json:"hand"`
}

// BidRequestPayload asks one player whether they bid for landlord.
type BidRequestPayload struct {
	BottomCards []shared.Card `json:"bottom_cards"`
}

type LandlordPayload struct {
	PlayerID    string        `json:"player_id"`
	Seat        int           `json:"seat"`
	BottomCards []shared.Card `json:"bottom_cards"`
}

// BiddingFailedPayload signals that nobody bid and the hand is redealt.
type BiddingFailedPayload struct {
	Message string `json:"message"`
}

// YourTurnPayload asks the current player for a move.
type YourTurnPayload struct {
	PlayerID string             `json:"player_id"`
	LastPlay *game.LastPlayInfo `json:"last_play,omitempty"`
	Info     game.GameInfo      `json:"info"`
}

// GameStatePayload is broadcast after every accepted turn.
type GameStatePayload struct {
	Info game.GameInfo `json:"info"`
}

// PlayedPayload announces an accepted play or pass.
type PlayedPayload struct {
	PlayerID string        `json:"player_id"`
	Seat     int           `json:"seat"`
	Cards    []shared.Card `json:"cards,omitempty"`
	CardType string        `json:"card_type,omitempty"`
	Passed   bool          `json:"passed"`
}

// MoveRejectedPayload tells a player why their move was refused. Reason is
// one of "hand_mismatch", "illegal_pattern", "cannot_follow",
// "opening_pass".
type MoveRejectedPayload struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type GameOverPayload struct {
	Result game.GameResult `json:"result"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
}

// NewMessage builds a JSON message with the given type and payload.
func NewMessage(msgType string, payload interface{}) ([]byte, error) {
	if payload == nil {
		return json.Marshal(Message{Type: msgType})
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: msgType, Payload: payloadBytes})
}
