package rules

import "doudizhu-game/internal/shared"

// CardType identifies one of the closed set of legal combination shapes.
type CardType string

const (
	Invalid                   CardType = "invalid"
	Single                    CardType = "single"
	Pair                      CardType = "pair"
	Triple                    CardType = "triple"
	TripleWithSingle          CardType = "triple_with_single"
	TripleWithPair            CardType = "triple_with_pair"
	Straight                  CardType = "straight"
	PairStraight              CardType = "pair_straight"
	TripleStraight            CardType = "triple_straight"
	TripleStraightWithSingles CardType = "triple_straight_with_singles"
	TripleStraightWithPairs   CardType = "triple_straight_with_pairs"
	FourWithTwoSingles        CardType = "four_with_two_singles"
	FourWithTwoPairs          CardType = "four_with_two_pairs"
	Bomb                      CardType = "bomb"
	Rocket                    CardType = "rocket"
)

var typeNames = map[CardType]string{
	Single:                    "single",
	Pair:                      "pair",
	Triple:                    "triple",
	TripleWithSingle:          "triple with single",
	TripleWithPair:            "triple with pair",
	Straight:                  "straight",
	PairStraight:              "chain of pairs",
	TripleStraight:            "airplane",
	TripleStraightWithSingles: "airplane with singles",
	TripleStraightWithPairs:   "airplane with pairs",
	FourWithTwoSingles:        "four with two singles",
	FourWithTwoPairs:          "four with two pairs",
	Bomb:                      "bomb",
	Rocket:                    "rocket",
	Invalid:                   "invalid",
}

// TypeName returns a human-readable name for a card type.
func TypeName(t CardType) string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// CardPattern is the immutable result of classifying a candidate set of
// cards. MainValue is the rank used for dominance comparison; Length is only
// meaningful for the run-based shapes (straight, chain of pairs, airplanes).
type CardPattern struct {
	Cards     []shared.Card `json:"cards"`
	Type      CardType      `json:"card_type"`
	MainValue int           `json:"main_value"`
	Length    int           `json:"length,omitempty"`
}

// Beats reports whether p dominates other. The relation is a strict partial
// order: a rocket beats everything else, a bomb beats any non-bomb non-rocket
// and a bigger bomb, and every other shape is comparable only against the
// same shape with the same card count.
func (p CardPattern) Beats(other CardPattern) bool {
	if p.Type == Rocket {
		return other.Type != Rocket
	}

	if p.Type == Bomb {
		switch other.Type {
		case Rocket:
			return false
		case Bomb:
			return p.MainValue > other.MainValue
		default:
			return true
		}
	}

	if p.Type == Invalid || p.Type != other.Type || len(p.Cards) != len(other.Cards) {
		return false
	}
	return p.MainValue > other.MainValue
}
