package ai

import (
	"math/rand/v2"
	"sort"

	"doudizhu-game/internal/game"
	"doudizhu-game/internal/rules"
	"doudizhu-game/internal/shared"
)

// Difficulty selects how aggressively the heuristic strategy bids and plays.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var bidThresholds = map[Difficulty]int{
	Easy:   20,
	Medium: 30,
	Hard:   35,
}

// Strategy is the rule-based decision engine behind AIPlayer. Every move it
// returns is already RuleEngine-legal; the controller's re-validation is a
// safety net, not a crutch.
type Strategy struct {
	Difficulty Difficulty
}

// DecideLandlord scores the hand plus bottom cards against a difficulty
// threshold. Lower difficulties add jitter so games don't play out the same.
func (s Strategy) DecideLandlord(handCards, bottomCards []shared.Card) bool {
	structure := AnalyzeHand(append(append([]shared.Card{}, handCards...), bottomCards...))
	threshold := bidThresholds[s.Difficulty]
	switch s.Difficulty {
	case Easy:
		threshold += rand.IntN(21) - 10
	case Medium:
		threshold += rand.IntN(11) - 5
	}
	return BidScore(structure) >= threshold
}

// ChooseCardsToPlay picks a move for the current turn, or nil to pass.
func (s Strategy) ChooseCardsToPlay(handCards []shared.Card, last *rules.CardPattern, info game.GameInfo) []shared.Card {
	if last == nil {
		return s.chooseLead(handCards, info)
	}
	return s.chooseFollow(handCards, last, info)
}

// chooseLead opens a trick. Leading never passes: some single always
// classifies, so a legal move always exists.
func (s Strategy) chooseLead(handCards []shared.Card, info game.GameInfo) []shared.Card {
	structure := AnalyzeHand(handCards)

	// Endgame: dump the biggest shape we have.
	if len(handCards) <= 5 {
		if play := s.biggestShape(handCards, structure); play != nil {
			return play
		}
	}

	// Shed small combined shapes first, then small pairs, then the lowest
	// single, keeping bombs and the rocket intact.
	if play := smallestStraight(handCards); play != nil {
		return play
	}
	if len(structure.Triples) > 0 {
		triple := cardsOfValue(handCards, structure.Triples[0], 3)
		if kicker := smallestKicker(handCards, structure, structure.Triples[0]); kicker != nil {
			return append(triple, kicker...)
		}
		return triple
	}
	if len(structure.Pairs) > 0 {
		return cardsOfValue(handCards, structure.Pairs[0], 2)
	}

	sorted := append([]shared.Card{}, handCards...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })
	return sorted[:1]
}

// chooseFollow answers the last play with the cheapest dominating shape, or
// passes when nothing reasonable is available. Bombs and the rocket are held
// back unless the difficulty is aggressive or an opponent is nearly out.
func (s Strategy) chooseFollow(handCards []shared.Card, last *rules.CardPattern, info game.GameInfo) []shared.Card {
	if play := cheapestFollow(handCards, last); play != nil {
		return play
	}

	if s.shouldBombNow(info) {
		structure := AnalyzeHand(handCards)
		if len(structure.Bombs) > 0 {
			bomb := cardsOfValue(handCards, structure.Bombs[0], 4)
			if rules.CanFollow(bomb, last) {
				return bomb
			}
		}
		if structure.HasRocket {
			rocket := []shared.Card{{Value: shared.ValueSmallJoker}, {Value: shared.ValueBigJoker}}
			if rules.CanFollow(rocket, last) {
				return rocket
			}
		}
	}

	return nil
}

func (s Strategy) shouldBombNow(info game.GameInfo) bool {
	if s.Difficulty == Hard {
		return true
	}
	for i, count := range info.PlayersCardCount {
		if i != info.CurrentPlayerIdx && count <= 2 {
			return true
		}
	}
	return s.Difficulty == Medium && rand.IntN(2) == 0
}

// cheapestFollow finds the same-shape dominating play with the lowest main
// value, without breaking up bombs or the rocket.
func cheapestFollow(handCards []shared.Card, last *rules.CardPattern) []shared.Card {
	counts := map[int]int{}
	for _, c := range handCards {
		counts[c.Value]++
	}

	need, ok := groupSizeFor(last.Type)
	if !ok {
		return nil
	}

	var candidates []int
	for value, count := range counts {
		if count >= need && count < 4 && value > last.MainValue {
			candidates = append(candidates, value)
		}
	}
	sort.Ints(candidates)

	for _, value := range candidates {
		base := cardsOfValue(handCards, value, need)
		play := base
		switch last.Type {
		case rules.TripleWithSingle:
			kicker := smallestKicker(handCards, AnalyzeHand(handCards), value)
			if kicker == nil {
				continue
			}
			play = append(base, kicker...)
		case rules.TripleWithPair:
			pair := smallestPairKicker(handCards, value)
			if pair == nil {
				continue
			}
			play = append(base, pair...)
		}
		if rules.CanFollow(play, last) {
			return play
		}
	}

	// Run shapes are rare enough to brute-force over the shrinking endgame
	// hand; FindPossiblePlays is exponential, so only small hands qualify.
	if isRunShape(last.Type) && len(handCards) <= 12 {
		for _, play := range rules.FindPossiblePlays(handCards, last) {
			if rules.Analyze(play).Type == last.Type {
				return play
			}
		}
	}
	return nil
}

func groupSizeFor(t rules.CardType) (int, bool) {
	switch t {
	case rules.Single:
		return 1, true
	case rules.Pair:
		return 2, true
	case rules.Triple, rules.TripleWithSingle, rules.TripleWithPair:
		return 3, true
	default:
		return 0, false
	}
}

func isRunShape(t rules.CardType) bool {
	switch t {
	case rules.Straight, rules.PairStraight, rules.TripleStraight,
		rules.TripleStraightWithSingles, rules.TripleStraightWithPairs:
		return true
	}
	return false
}

// smallestKicker picks the lowest single to attach to a triple, avoiding the
// triple's own value and never splitting a bomb.
func smallestKicker(handCards []shared.Card, structure HandStructure, tripleValue int) []shared.Card {
	for _, v := range structure.Singles {
		if v != tripleValue && v < shared.ValueSmallJoker {
			return cardsOfValue(handCards, v, 1)
		}
	}
	for _, v := range structure.Pairs {
		if v != tripleValue {
			return cardsOfValue(handCards, v, 1)
		}
	}
	return nil
}

// smallestPairKicker picks the lowest whole pair to attach to a triple.
func smallestPairKicker(handCards []shared.Card, tripleValue int) []shared.Card {
	structure := AnalyzeHand(handCards)
	for _, v := range structure.Pairs {
		if v != tripleValue {
			return cardsOfValue(handCards, v, 2)
		}
	}
	return nil
}

// smallestStraight finds the lowest five-card straight fully made of values
// the hand holds.
func smallestStraight(handCards []shared.Card) []shared.Card {
	counts := map[int]int{}
	for _, c := range handCards {
		counts[c.Value]++
	}
	for start := 3; start+4 < shared.ValueTwo; start++ {
		run := true
		for v := start; v < start+5; v++ {
			if counts[v] == 0 {
				run = false
				break
			}
		}
		if !run {
			continue
		}
		play := make([]shared.Card, 0, 5)
		for v := start; v < start+5; v++ {
			play = append(play, cardsOfValue(handCards, v, 1)...)
		}
		return play
	}
	return nil
}

// biggestShape returns the largest leadable shape in a short hand, used to
// finish the game quickly.
func (s Strategy) biggestShape(handCards []shared.Card, structure HandStructure) []shared.Card {
	if structure.HasRocket && len(handCards) == 2 {
		return []shared.Card{{Value: shared.ValueSmallJoker}, {Value: shared.ValueBigJoker}}
	}
	if len(structure.Bombs) > 0 && len(handCards) == 4 {
		return cardsOfValue(handCards, structure.Bombs[0], 4)
	}
	if len(structure.Triples) > 0 {
		triple := cardsOfValue(handCards, structure.Triples[len(structure.Triples)-1], 3)
		if len(handCards) == 4 {
			if kicker := smallestKicker(handCards, structure, triple[0].Value); kicker != nil {
				return append(triple, kicker...)
			}
		}
		return triple
	}
	if len(structure.Pairs) > 0 && len(handCards) == 2 {
		return cardsOfValue(handCards, structure.Pairs[len(structure.Pairs)-1], 2)
	}
	return nil
}
