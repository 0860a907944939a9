package ai

import (
	"sort"

	"doudizhu-game/internal/shared"
)

// HandStructure is the shape inventory of a hand: which values occur as
// singles, pairs, triples and bombs, whether both jokers are held, and how
// many cards are in straight-eligible runs.
type HandStructure struct {
	Singles         []int
	Pairs           []int
	Triples         []int
	Bombs           []int
	HasRocket       bool
	StraightRunSize int
	TotalCards      int
}

// AnalyzeHand builds the shape inventory for a set of cards.
func AnalyzeHand(cards []shared.Card) HandStructure {
	counts := map[int]int{}
	for _, c := range cards {
		counts[c.Value]++
	}

	s := HandStructure{TotalCards: len(cards)}
	for value, count := range counts {
		switch count {
		case 1:
			s.Singles = append(s.Singles, value)
		case 2:
			s.Pairs = append(s.Pairs, value)
		case 3:
			s.Triples = append(s.Triples, value)
		case 4:
			s.Bombs = append(s.Bombs, value)
		}
	}
	sort.Ints(s.Singles)
	sort.Ints(s.Pairs)
	sort.Ints(s.Triples)
	sort.Ints(s.Bombs)

	s.HasRocket = counts[shared.ValueSmallJoker] > 0 && counts[shared.ValueBigJoker] > 0
	s.StraightRunSize = longestRun(counts)
	return s
}

// longestRun finds the longest consecutive run of distinct values below "2".
func longestRun(counts map[int]int) int {
	best, run := 0, 0
	for value := 3; value < shared.ValueTwo; value++ {
		if counts[value] > 0 {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

// BidScore rates how strong a prospective landlord hand is. Rocket and bombs
// dominate the estimate, triples and pairs add body.
func BidScore(s HandStructure) int {
	score := 0
	if s.HasRocket {
		score += 30
	}
	score += len(s.Bombs) * 25
	score += len(s.Triples) * 8
	score += len(s.Pairs) * 3
	for _, v := range s.Singles {
		if v >= shared.ValueAce {
			score += 5
		}
	}
	return score
}

// cardsOfValue picks up to n cards of the given value out of the hand.
func cardsOfValue(cards []shared.Card, value, n int) []shared.Card {
	picked := make([]shared.Card, 0, n)
	for _, c := range cards {
		if c.Value == value {
			picked = append(picked, c)
			if len(picked) == n {
				break
			}
		}
	}
	return picked
}
