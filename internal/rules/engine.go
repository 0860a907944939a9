package rules

import (
	"sort"

	"doudizhu-game/internal/shared"
)

// Analyze classifies an unordered group of cards into exactly one pattern.
// Shapes are checked most-specific first; anything unmatched is Invalid.
func Analyze(cards []shared.Card) CardPattern {
	if len(cards) == 0 {
		return CardPattern{Type: Invalid}
	}

	values := make([]int, len(cards))
	for i, c := range cards {
		values[i] = c.Value
	}
	sort.Ints(values)

	counts := map[int]int{}
	for _, v := range values {
		counts[v]++
	}

	cardCount := len(cards)
	uniqueValues := len(counts)
	owned := append([]shared.Card{}, cards...)

	if cardCount == 1 {
		return CardPattern{Cards: owned, Type: Single, MainValue: values[0]}
	}

	// The rocket is checked before generic pair logic: the two jokers differ
	// in value, so it would otherwise fall through to Invalid.
	if cardCount == 2 {
		if values[0] == shared.ValueSmallJoker && values[1] == shared.ValueBigJoker {
			return CardPattern{Cards: owned, Type: Rocket, MainValue: shared.ValueBigJoker}
		}
		if uniqueValues == 1 {
			return CardPattern{Cards: owned, Type: Pair, MainValue: values[0]}
		}
	}

	if cardCount == 3 && uniqueValues == 1 {
		return CardPattern{Cards: owned, Type: Triple, MainValue: values[0]}
	}

	if cardCount == 4 && uniqueValues == 2 {
		for value, count := range counts {
			if count == 3 {
				return CardPattern{Cards: owned, Type: TripleWithSingle, MainValue: value}
			}
		}
	}

	if cardCount == 5 && uniqueValues == 2 {
		tripleValue, pairValue := 0, 0
		for value, count := range counts {
			switch count {
			case 3:
				tripleValue = value
			case 2:
				pairValue = value
			}
		}
		if tripleValue != 0 && pairValue != 0 {
			return CardPattern{Cards: owned, Type: TripleWithPair, MainValue: tripleValue}
		}
	}

	if cardCount == 4 && uniqueValues == 1 {
		return CardPattern{Cards: owned, Type: Bomb, MainValue: values[0]}
	}

	if cardCount == 6 && uniqueValues == 3 {
		for value, count := range counts {
			if count == 4 {
				return CardPattern{Cards: owned, Type: FourWithTwoSingles, MainValue: value}
			}
		}
	}

	if cardCount == 8 && uniqueValues == 3 {
		fourValue, pairCount := 0, 0
		for value, count := range counts {
			switch count {
			case 4:
				fourValue = value
			case 2:
				pairCount++
			}
		}
		if fourValue != 0 && pairCount == 2 {
			return CardPattern{Cards: owned, Type: FourWithTwoPairs, MainValue: fourValue}
		}
	}

	if cardCount >= 5 && uniqueValues == cardCount && isConsecutiveRun(values) {
		return CardPattern{Cards: owned, Type: Straight, MainValue: values[len(values)-1], Length: cardCount}
	}

	if cardCount >= 6 && cardCount%2 == 0 && uniqueValues == cardCount/2 {
		allPairs := true
		for _, count := range counts {
			if count != 2 {
				allPairs = false
				break
			}
		}
		if allPairs {
			distinct := sortedKeys(counts)
			if isConsecutiveRun(distinct) {
				return CardPattern{Cards: owned, Type: PairStraight, MainValue: distinct[len(distinct)-1], Length: len(distinct)}
			}
		}
	}

	// Airplane family: a run of at least two consecutive triples, bare or
	// with one single or one pair attached per triple.
	var tripleValues []int
	for value, count := range counts {
		if count == 3 {
			tripleValues = append(tripleValues, value)
		}
	}
	if len(tripleValues) >= 2 {
		sort.Ints(tripleValues)
		if isConsecutiveRun(tripleValues) {
			run := len(tripleValues)
			top := tripleValues[run-1]
			switch cardCount {
			case run * 3:
				return CardPattern{Cards: owned, Type: TripleStraight, MainValue: top, Length: run}
			case run * 4:
				return CardPattern{Cards: owned, Type: TripleStraightWithSingles, MainValue: top, Length: run}
			case run * 5:
				return CardPattern{Cards: owned, Type: TripleStraightWithPairs, MainValue: top, Length: run}
			}
		}
	}

	return CardPattern{Cards: owned, Type: Invalid}
}

// isConsecutiveRun reports whether the sorted values form a consecutive run
// that never touches "2" or the jokers.
func isConsecutiveRun(values []int) bool {
	if len(values) < 2 {
		return false
	}
	for _, v := range values {
		if v >= shared.ValueTwo {
			return false
		}
	}
	for i := 1; i < len(values); i++ {
		if values[i]-values[i-1] != 1 {
			return false
		}
	}
	return true
}

func sortedKeys(counts map[int]int) []int {
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// IsValidCards reports whether the cards classify into any recognized shape.
func IsValidCards(cards []shared.Card) bool {
	return Analyze(cards).Type != Invalid
}

// CanFollow reports whether the candidate cards may be played over the last
// accepted pattern. With no last pattern (opening a trick) any recognized
// shape is accepted; otherwise the candidate must classify and dominate.
func CanFollow(cards []shared.Card, last *CardPattern) bool {
	if last == nil || last.Type == Invalid {
		return IsValidCards(cards)
	}
	pattern := Analyze(cards)
	if pattern.Type == Invalid {
		return false
	}
	return pattern.Beats(*last)
}

// FindPossiblePlays enumerates every subset of the hand that legally follows
// the last pattern (or opens a trick when last is nil). Enumeration is
// exponential in hand size; callers that need speed must bound the subset
// size or precompute shape inventories instead of calling this on full
// 17-card hands.
func FindPossiblePlays(hand []shared.Card, last *CardPattern) [][]shared.Card {
	var plays [][]shared.Card

	// Every size must be visited even when following: a 4-card bomb or the
	// 2-card rocket beats shapes of any length.
	for size := 1; size <= len(hand); size++ {
		forEachCombination(hand, size, func(combo []shared.Card) {
			if CanFollow(combo, last) {
				plays = append(plays, append([]shared.Card{}, combo...))
			}
		})
	}
	return plays
}

// forEachCombination visits every size-k combination of cards. The callback
// must copy combo if it keeps it.
func forEachCombination(cards []shared.Card, k int, visit func([]shared.Card)) {
	combo := make([]shared.Card, 0, k)
	var walk func(start int)
	walk = func(start int) {
		if len(combo) == k {
			visit(combo)
			return
		}
		// Not enough cards left to complete the combination.
		if len(cards)-start < k-len(combo) {
			return
		}
		for i := start; i < len(cards); i++ {
			combo = append(combo, cards[i])
			walk(i + 1)
			combo = combo[:len(combo)-1]
		}
	}
	walk(0)
}
