package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"doudizhu-game/internal/game"
	"doudizhu-game/internal/rules"
	"doudizhu-game/internal/shared"
)

// LLMConfig holds the settings for an OpenAI-compatible chat-completion API.
type LLMConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
}

// LLMClient is a minimal chat-completion client over the OpenAI wire format.
type LLMClient struct {
	config LLMConfig
	http   *http.Client
}

// NewLLMClient creates a client with a bounded request timeout.
func NewLLMClient(config LLMConfig) *LLMClient {
	if config.MaxTokens == 0 {
		config.MaxTokens = 1000
	}
	return &LLMClient{
		config: config,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// ChatCompletion sends a single-user-message completion request and returns
// the assistant text.
func (c *LLMClient) ChatCompletion(prompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an expert Dou Dizhu player. Answer only with the JSON the user asks for."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(c.config.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm api returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("llm api returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// LLMPlayer is a seat implementation backed by a language model. Every model
// answer is parsed and legality-checked; on API failure or an illegal answer
// it falls back to the heuristic strategy so a game never stalls.
type LLMPlayer struct {
	game.BasePlayer
	client   *LLMClient
	fallback Strategy
}

// NewLLMPlayer creates an LLM-backed player with a medium-difficulty fallback.
func NewLLMPlayer(name string, config LLMConfig) *LLMPlayer {
	return &LLMPlayer{
		BasePlayer: game.NewBasePlayer(name),
		client:     NewLLMClient(config),
		fallback:   Strategy{Difficulty: Medium},
	}
}

// DecideLandlord asks the model whether to bid; on failure it falls back to
// a simple high-card count.
func (p *LLMPlayer) DecideLandlord(bottomCards []shared.Card) bool {
	prompt := p.landlordPrompt(bottomCards)
	answer, err := p.client.ChatCompletion(prompt)
	if err != nil {
		log.Printf("%s: llm bid call failed (%v), using fallback.", p.Name(), err)
		high := 0
		for _, c := range append(p.HandCards(), bottomCards...) {
			if c.Value >= shared.ValueAce {
				high++
			}
		}
		return high >= 3
	}
	return strings.Contains(strings.ToLower(answer), "\"bid\": true") ||
		strings.Contains(strings.ToLower(answer), "\"bid\":true")
}

// ChooseCardsToPlay asks the model for card values, maps them onto held
// cards, and re-validates. Anything unusable degrades to the heuristic
// strategy.
func (p *LLMPlayer) ChooseCardsToPlay(last *rules.CardPattern, info game.GameInfo) []shared.Card {
	prompt := p.playPrompt(last, info)
	answer, err := p.client.ChatCompletion(prompt)
	if err != nil {
		log.Printf("%s: llm play call failed (%v), using fallback.", p.Name(), err)
		return p.fallback.ChooseCardsToPlay(p.HandCards(), last, info)
	}

	cards, pass, ok := p.parsePlayAnswer(answer)
	if !ok {
		log.Printf("%s: llm answer unparseable, using fallback.", p.Name())
		return p.fallback.ChooseCardsToPlay(p.HandCards(), last, info)
	}
	if pass {
		if last == nil {
			// Passing while free to open stalls the game; lead instead.
			return p.fallback.ChooseCardsToPlay(p.HandCards(), nil, info)
		}
		return nil
	}
	if !shared.NewHand(p.HandCards()...).Has(cards) || !rules.CanFollow(cards, last) {
		log.Printf("%s: llm proposed an illegal move, using fallback.", p.Name())
		return p.fallback.ChooseCardsToPlay(p.HandCards(), last, info)
	}
	return cards
}

func (p *LLMPlayer) landlordPrompt(bottomCards []shared.Card) string {
	return fmt.Sprintf(
		"Your Dou Dizhu hand is %s. The bottom cards are %s. "+
			"Decide whether to bid for landlord. Answer with JSON: {\"bid\": true} or {\"bid\": false}.",
		cardValuesString(p.HandCards()), cardValuesString(bottomCards))
}

func (p *LLMPlayer) playPrompt(last *rules.CardPattern, info game.GameInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Your Dou Dizhu hand is %s. ", cardValuesString(p.HandCards()))
	if last != nil {
		fmt.Fprintf(&sb, "The last play was a %s with main value %s: %s. You must beat it or pass. ",
			rules.TypeName(last.Type), shared.ValueName(last.MainValue), cardValuesString(last.Cards))
	} else {
		sb.WriteString("You are free to open the trick with any legal shape. ")
	}
	fmt.Fprintf(&sb, "Opponents hold %d and %d cards. ",
		info.PlayersCardCount[(info.CurrentPlayerIdx+1)%game.NumPlayers],
		info.PlayersCardCount[(info.CurrentPlayerIdx+2)%game.NumPlayers])
	sb.WriteString("Answer with JSON: {\"play\": [values]} using numeric values " +
		"(3-13 for ranks, 14 ace, 15 two, 16 small joker, 17 big joker), or {\"play\": []} to pass.")
	return sb.String()
}

// parsePlayAnswer extracts the {"play": [...]} object from the model answer,
// tolerating surrounding prose.
func (p *LLMPlayer) parsePlayAnswer(answer string) (cards []shared.Card, pass bool, ok bool) {
	start := strings.Index(answer, "{")
	end := strings.LastIndex(answer, "}")
	if start < 0 || end <= start {
		return nil, false, false
	}

	var parsed struct {
		Play []int `json:"play"`
	}
	if err := json.Unmarshal([]byte(answer[start:end+1]), &parsed); err != nil {
		return nil, false, false
	}
	if len(parsed.Play) == 0 {
		return nil, true, true
	}

	// Map requested values onto actual held cards so suits line up with the
	// hand contents.
	hand := shared.NewHand(p.HandCards()...)
	taken := map[shared.Card]int{}
	for _, value := range parsed.Play {
		found := false
		for _, c := range hand.Cards {
			if c.Value == value && taken[c] == 0 {
				cards = append(cards, c)
				taken[c] = 1
				found = true
				break
			}
		}
		if !found {
			return nil, false, false
		}
	}
	return cards, false, true
}

func cardValuesString(cards []shared.Card) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = shared.ValueName(c.Value)
	}
	return strings.Join(names, " ")
}
