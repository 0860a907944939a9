package game

import (
	"doudizhu-game/internal/rules"
	"doudizhu-game/internal/shared"
)

// Phase represents the stage of a game. Transitions only move forward:
// Dealing -> Bidding -> Playing -> Ended.
type Phase string

const (
	Dealing Phase = "dealing"
	Bidding Phase = "bidding"
	Playing Phase = "playing"
	Ended   Phase = "ended"
)

// NumPlayers is fixed: Dou Dizhu is always a three-seat game.
const NumPlayers = 3

// Action records one entry of the game history.
type Action struct {
	Round      int            `json:"round"`
	PlayerIdx  int            `json:"player_idx"`
	PlayerName string         `json:"player_name"`
	Type       string         `json:"action_type"`
	Cards      []shared.Card  `json:"cards,omitempty"`
	CardType   rules.CardType `json:"card_type,omitempty"`
}

// LastPlayInfo is the read-only view of the last accepted play handed to
// players inside GameInfo.
type LastPlayInfo struct {
	Cards     []int          `json:"cards"`
	CardType  rules.CardType `json:"card_type"`
	PlayerIdx int            `json:"player_idx"`
}

// GameInfo is the read-only snapshot passed to a player each turn.
type GameInfo struct {
	Phase            Phase           `json:"phase"`
	CurrentPlayerIdx int             `json:"current_player_idx"`
	LandlordIdx      int             `json:"landlord_idx"`
	LastPlay         *LastPlayInfo   `json:"last_play,omitempty"`
	PlayersCardCount [NumPlayers]int `json:"players_card_count"`
	PassCount        int             `json:"pass_count"`
	RoundCount       int             `json:"round_count"`
}

// GameState is the mutable aggregate for one game. It is created fresh per
// game by the controller, mutated only by the controller, and read-only once
// the phase reaches Ended. Index fields use -1 for "absent".
type GameState struct {
	Players          [NumPlayers]Player
	CurrentPlayerIdx int
	Phase            Phase
	LandlordIdx      int
	BottomCards      []shared.Card
	LastPlay         *rules.CardPattern
	LastPlayerIdx    int
	PassCount        int
	RoundCount       int
	WinnerIdx        int
	History          []Action
}

// NewGameState creates an empty pre-deal state.
func NewGameState() *GameState {
	return &GameState{
		Phase:         Dealing,
		LandlordIdx:   -1,
		LastPlayerIdx: -1,
		WinnerIdx:     -1,
	}
}

// CurrentPlayer returns the player whose turn it is.
func (s *GameState) CurrentPlayer() Player {
	return s.Players[s.CurrentPlayerIdx]
}

// Landlord returns the landlord player, or nil before bidding resolves.
func (s *GameState) Landlord() Player {
	if s.LandlordIdx < 0 {
		return nil
	}
	return s.Players[s.LandlordIdx]
}

// SetLandlord records the landlord seat and updates every player's role.
func (s *GameState) SetLandlord(playerIdx int) {
	s.LandlordIdx = playerIdx
	for i, p := range s.Players {
		p.SetLandlord(i == playerIdx)
	}
}

// NextPlayer advances the turn to the next seat.
func (s *GameState) NextPlayer() {
	s.CurrentPlayerIdx = (s.CurrentPlayerIdx + 1) % NumPlayers
}

// ShouldClearLastPlay reports whether two consecutive passes have ended the
// trick, freeing the last player to open any shape.
func (s *GameState) ShouldClearLastPlay() bool {
	return s.PassCount >= 2
}

// LogAction appends an entry to the game history.
func (s *GameState) LogAction(actionType string, playerIdx int, cards []shared.Card, cardType rules.CardType) {
	name := ""
	if playerIdx >= 0 && s.Players[playerIdx] != nil {
		name = s.Players[playerIdx].Name()
	}
	s.History = append(s.History, Action{
		Round:      s.RoundCount,
		PlayerIdx:  playerIdx,
		PlayerName: name,
		Type:       actionType,
		Cards:      cards,
		CardType:   cardType,
	})
}

// Info builds the read-only snapshot handed to players.
func (s *GameState) Info() GameInfo {
	info := GameInfo{
		Phase:            s.Phase,
		CurrentPlayerIdx: s.CurrentPlayerIdx,
		LandlordIdx:      s.LandlordIdx,
		PassCount:        s.PassCount,
		RoundCount:       s.RoundCount,
	}
	for i, p := range s.Players {
		if p != nil {
			info.PlayersCardCount[i] = p.CardCount()
		}
	}
	if s.LastPlay != nil {
		values := make([]int, len(s.LastPlay.Cards))
		for i, c := range s.LastPlay.Cards {
			values[i] = c.Value
		}
		info.LastPlay = &LastPlayInfo{
			Cards:     values,
			CardType:  s.LastPlay.Type,
			PlayerIdx: s.LastPlayerIdx,
		}
	}
	return info
}
