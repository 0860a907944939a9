package server

import (
	"encoding/json"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"doudizhu-game/internal/ai"
	"doudizhu-game/internal/database"
	"doudizhu-game/internal/game"
	"doudizhu-game/internal/protocol"

	"github.com/google/uuid"
)

// clientMessage is a helper struct to pass messages along with the client reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

const gameCodeLength = 5 // Length of the unique game code

// Hub manages active WebSocket connections, lobbies, and game rooms.
type Hub struct {
	clients        map[*Client]bool
	lobbies        map[string][]*Client // game code -> clients waiting for seats
	rooms          map[string]*Room     // game code -> running game
	clientToGame   map[*Client]string
	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client
	clientMu       sync.RWMutex
	lobbyMu        sync.RWMutex
	roomMu         sync.RWMutex
	rng            *rand.Rand
	db             *database.Service
	aiDifficulty   ai.Difficulty
	llm            *ai.LLMConfig
}

// NewHub creates a new Hub instance. A non-nil llm config upgrades one AI
// seat per room to the LLM-backed player.
func NewHub(db *database.Service, aiDifficulty ai.Difficulty, llm *ai.LLMConfig) *Hub {
	source := rand.NewSource(time.Now().UnixNano())

	return &Hub{
		clients:        make(map[*Client]bool),
		lobbies:        make(map[string][]*Client),
		rooms:          make(map[string]*Room),
		clientToGame:   make(map[*Client]string),
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		rng:            rand.New(source),
		db:             db,
		aiDifficulty:   aiDifficulty,
		llm:            llm,
	}
}

// generateGameCode creates a unique alphanumeric game code.
func (h *Hub) generateGameCode() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for {
		var sb strings.Builder
		for i := 0; i < gameCodeLength; i++ {
			sb.WriteByte(letters[h.rng.Intn(len(letters))])
		}
		code := sb.String()

		h.lobbyMu.RLock()
		_, lobbyExists := h.lobbies[code]
		h.lobbyMu.RUnlock()

		h.roomMu.RLock()
		_, roomExists := h.rooms[code]
		h.roomMu.RUnlock()

		if !lobbyExists && !roomExists {
			return code
		}
		log.Printf("Generated game code %s collided, retrying...", code)
	}
}

// Run starts the Hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			client.ID = uuid.NewString()
			log.Printf("Client %s (%s) connected", client.ID, client.conn.RemoteAddr())
			h.clientMu.Lock()
			h.clients[client] = true
			h.clientMu.Unlock()

		case client := <-h.unregister:
			h.handleUnregister(client)

		case clientMsg := <-h.processMessage:
			h.handleMessage(clientMsg.client, clientMsg.message)
		}
	}
}

func (h *Hub) handleUnregister(client *Client) {
	h.clientMu.Lock()
	gameCode, inGameOrLobby := h.clientToGame[client]
	_, clientExists := h.clients[client]

	if clientExists {
		delete(h.clients, client)
		delete(h.clientToGame, client)
		close(client.send)
		log.Printf("Client %s (%s) disconnected", client.ID, client.Name)
	}
	h.clientMu.Unlock()

	if !inGameOrLobby {
		if clientExists {
			log.Printf("Client %s disconnected before joining/creating a game.", client.ID)
		}
		return
	}

	h.lobbyMu.Lock()
	lobby, lobbyExists := h.lobbies[gameCode]
	if lobbyExists {
		newLobby := []*Client{}
		for _, c := range lobby {
			if c != client {
				newLobby = append(newLobby, c)
			}
		}
		if len(newLobby) > 0 {
			h.lobbies[gameCode] = newLobby
			log.Printf("Client %s removed from lobby %s.", client.ID, gameCode)
			h.broadcastLobbyUpdate(gameCode, newLobby)
		} else {
			delete(h.lobbies, gameCode)
			log.Printf("Client %s left lobby %s. Lobby deleted.", client.ID, gameCode)
		}
		h.lobbyMu.Unlock()
		return
	}
	h.lobbyMu.Unlock()

	h.roomMu.Lock()
	room, roomExists := h.rooms[gameCode]
	if roomExists {
		delete(h.rooms, gameCode)
	}
	h.roomMu.Unlock()

	if roomExists {
		log.Printf("Client %s was in room %s. Notifying game.", client.ID, gameCode)
		go room.HandlePlayerDisconnect(client.ID)
	} else {
		log.Printf("Client %s disconnected but was mapped to non-existent game/lobby code %s", client.ID, gameCode)
	}
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	switch msg.Type {
	case "create_game":
		h.handleCreateGame(client, msg)
	case "join_game":
		h.handleJoinGame(client, msg)
	case "bid", "play_cards":
		h.handleGameAction(client, msg)
	case "ping":
		pongMsg, _ := protocol.NewMessage("pong", nil)
		client.send <- pongMsg
	default:
		log.Printf("Received unknown message type '%s' from client %s (%s)", msg.Type, client.ID, client.Name)
		h.sendErrorToClient(client, "Unknown message type.")
	}
}

// handleCreateGame handles a request to create a new game.
func (h *Hub) handleCreateGame(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	_, alreadyInGame := h.clientToGame[client]
	h.clientMu.RUnlock()
	if alreadyInGame {
		log.Printf("Client %s tried to create game but is already associated with one.", client.ID)
		h.sendErrorToClient(client, "Already in a game or lobby.")
		return
	}

	var payload protocol.CreateGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling create_game payload from client %s: %v", client.ID, err)
		h.sendErrorToClient(client, "Invalid create_game message format.")
		return
	}
	if payload.Name == "" {
		log.Printf("Client %s tried to create game with an empty name.", client.ID)
		h.sendErrorToClient(client, "Name cannot be empty.")
		return
	}

	gameCode := h.generateGameCode()

	h.clientMu.Lock()
	client.Name = payload.Name
	h.clientToGame[client] = gameCode
	h.clientMu.Unlock()

	createdPayload := protocol.GameCreatedPayload{GameCode: gameCode}
	createdMsg, _ := protocol.NewMessage("game_created", createdPayload)
	h.sendMessageToClient(client.ID, createdMsg)

	if payload.FillWithAI {
		// Solo play: seat the creator with two AI players and start at once.
		log.Printf("Client %s (%s) created solo game %s with AI seats.", client.ID, client.Name, gameCode)
		h.startRoom(gameCode, []*Client{client})
		return
	}

	h.lobbyMu.Lock()
	h.lobbies[gameCode] = []*Client{client}
	h.lobbyMu.Unlock()

	log.Printf("Client %s (%s) created lobby %s", client.ID, client.Name, gameCode)
	h.broadcastLobbyUpdate(gameCode, []*Client{client})
}

// handleJoinGame handles a request to join an existing game lobby.
func (h *Hub) handleJoinGame(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	_, alreadyInGame := h.clientToGame[client]
	h.clientMu.RUnlock()
	if alreadyInGame {
		log.Printf("Client %s tried to join game but is already associated with one.", client.ID)
		h.sendJoinError(client, "Already in a game or lobby.")
		return
	}

	var payload protocol.JoinGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling join_game payload from client %s: %v", client.ID, err)
		h.sendJoinError(client, "Invalid join_game message format.")
		return
	}
	if payload.Name == "" {
		log.Printf("Client %s tried to join with an empty name.", client.ID)
		h.sendJoinError(client, "Name cannot be empty.")
		return
	}
	if payload.GameCode == "" {
		log.Printf("Client %s tried to join without a game code.", client.ID)
		h.sendJoinError(client, "Game code cannot be empty.")
		return
	}
	gameCode := strings.ToUpper(payload.GameCode)

	h.lobbyMu.Lock()
	lobby, lobbyExists := h.lobbies[gameCode]
	if !lobbyExists {
		h.lobbyMu.Unlock()
		log.Printf("Client %s tried to join non-existent lobby %s", client.ID, gameCode)
		h.sendJoinError(client, "Game code not found.")
		return
	}

	if len(lobby) >= game.NumPlayers {
		h.lobbyMu.Unlock()
		log.Printf("Client %s tried to join full lobby %s", client.ID, gameCode)
		h.sendJoinError(client, "Game lobby is full.")
		return
	}

	for _, existingClient := range lobby {
		if existingClient.Name == payload.Name {
			h.lobbyMu.Unlock()
			log.Printf("Client %s tried to join lobby %s with duplicate name '%s'", client.ID, gameCode, payload.Name)
			h.sendJoinError(client, "Name already taken in this lobby.")
			return
		}
	}

	client.Name = payload.Name
	newLobby := append(lobby, client)
	h.lobbies[gameCode] = newLobby
	lobbyFull := len(newLobby) == game.NumPlayers
	if lobbyFull {
		delete(h.lobbies, gameCode)
	}
	h.lobbyMu.Unlock()

	h.clientMu.Lock()
	h.clientToGame[client] = gameCode
	h.clientMu.Unlock()

	log.Printf("Client %s (%s) joined lobby %s. Lobby size: %d", client.ID, client.Name, gameCode, len(newLobby))
	h.broadcastLobbyUpdate(gameCode, newLobby)

	if lobbyFull {
		log.Printf("Lobby %s is full. Starting game...", gameCode)
		h.startRoom(gameCode, newLobby)
	}
}

// startRoom seats the given clients, fills the remaining chairs with AI, and
// launches the game goroutine.
func (h *Hub) startRoom(gameCode string, clients []*Client) {
	quit := make(chan struct{})
	players := make([]game.Player, 0, game.NumPlayers)
	for _, c := range clients {
		players = append(players, newNetworkPlayer(c.ID, c.Name, h.sendMessageToClient, quit))
	}
	aiSeats := game.NumPlayers - len(players)
	if h.llm != nil && aiSeats > 0 {
		players = append(players, ai.NewLLMPlayer("AI Oracle", *h.llm))
		aiSeats--
	}
	players = append(players, NewAISeats(aiSeats, h.aiDifficulty)...)

	room := NewRoom(gameCode, players, h.sendMessageToClient, h.db, quit)

	h.roomMu.Lock()
	h.rooms[gameCode] = room
	h.roomMu.Unlock()

	log.Printf("Room created for code %s with game ID %s.", gameCode, room.ID)
	go func() {
		room.Run()
		h.roomMu.Lock()
		delete(h.rooms, gameCode)
		h.roomMu.Unlock()
	}()
}

// handleGameAction forwards bids and plays to the correct room.
func (h *Hub) handleGameAction(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	gameCode, inGame := h.clientToGame[client]
	h.clientMu.RUnlock()

	if !inGame {
		log.Printf("Received '%s' from client %s not in any game/lobby.", msg.Type, client.ID)
		h.sendErrorToClient(client, "You are not in an active game or lobby.")
		return
	}

	h.roomMu.RLock()
	room, roomExists := h.rooms[gameCode]
	h.roomMu.RUnlock()

	if !roomExists {
		log.Printf("Received '%s' from client %s for game code %s, but no running game found.", msg.Type, client.ID, gameCode)
		h.sendErrorToClient(client, "Game not found or not active.")
		return
	}

	switch msg.Type {
	case "bid":
		var payload protocol.BidPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			log.Printf("Error unmarshalling bid payload from client %s: %v", client.ID, err)
			h.sendErrorToClient(client, "Invalid bid message.")
			return
		}
		room.DeliverBid(client.ID, payload.Bid)
	case "play_cards":
		var payload protocol.PlayCardsPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			log.Printf("Error unmarshalling play_cards payload from client %s: %v", client.ID, err)
			h.sendErrorToClient(client, "Invalid play_cards message.")
			return
		}
		room.DeliverMove(client.ID, payload.Cards)
	}
}

// sendMessageToClient delivers a message to one client by ID. It is passed
// to rooms as their MessageSender.
func (h *Hub) sendMessageToClient(clientID string, message []byte) {
	h.clientMu.RLock()
	var targetClient *Client
	for client := range h.clients {
		if client.ID == clientID {
			targetClient = client
			break
		}
	}
	h.clientMu.RUnlock()

	if targetClient == nil {
		log.Printf("Could not find client %s to send message (already disconnected?).", clientID)
		return
	}

	select {
	case targetClient.send <- message:
	default:
		log.Printf("Failed to send message to client %s (channel full or closed), initiating cleanup.", clientID)
		go func() {
			h.clientMu.RLock()
			_, stillConnected := h.clients[targetClient]
			h.clientMu.RUnlock()
			if stillConnected {
				h.unregister <- targetClient
			}
		}()
	}
}

// broadcastLobbyUpdate sends the current list of players in the lobby.
func (h *Hub) broadcastLobbyUpdate(gameCode string, lobby []*Client) {
	playerInfos := make([]protocol.PlayerInfo, len(lobby))
	for i, c := range lobby {
		if c != nil {
			playerInfos[i] = protocol.PlayerInfo{ID: c.ID, Name: c.Name, Seat: i}
		}
	}
	msgBytes, err := protocol.NewMessage("lobby_update", protocol.LobbyUpdatePayload{Players: playerInfos})
	if err != nil {
		log.Printf("Error creating lobby_update message for lobby %s: %v", gameCode, err)
		return
	}
	for _, client := range lobby {
		if client != nil {
			h.sendMessageToClient(client.ID, msgBytes)
		}
	}
}

// sendErrorToClient sends a generic error message to a specific client.
func (h *Hub) sendErrorToClient(client *Client, errorMsg string) {
	msgBytes, err := protocol.NewMessage("error", protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		log.Printf("Error creating error message for client %s: %v", client.ID, err)
		return
	}
	h.sendMessageToClient(client.ID, msgBytes)
}

// sendJoinError sends a specific join error message to a client.
func (h *Hub) sendJoinError(client *Client, errorMsg string) {
	msgBytes, err := protocol.NewMessage("join_error", protocol.JoinErrorPayload{Message: errorMsg})
	if err != nil {
		log.Printf("Error creating join_error message for client %s: %v", client.ID, err)
		return
	}
	h.sendMessageToClient(client.ID, msgBytes)
}
