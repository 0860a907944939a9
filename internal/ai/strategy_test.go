package ai

import (
	"testing"

	"doudizhu-game/internal/game"
	"doudizhu-game/internal/rules"
	"doudizhu-game/internal/shared"
)

func hand(values ...int) []shared.Card {
	return shared.CardsFromValues(values)
}

// calmInfo is a snapshot where no opponent is close to going out.
func calmInfo() game.GameInfo {
	return game.GameInfo{
		Phase:            game.Playing,
		CurrentPlayerIdx: 0,
		PlayersCardCount: [game.NumPlayers]int{10, 10, 10},
	}
}

func TestBidScore(t *testing.T) {
	strong := AnalyzeHand(hand(16, 17, 9, 9, 9, 9, 12, 12, 12, 14, 15))
	weak := AnalyzeHand(hand(3, 4, 6, 8, 10, 12))

	if got := BidScore(strong); got < bidThresholds[Hard] {
		t.Errorf("Strong hand scored %d, below the hard threshold", got)
	}
	if got := BidScore(weak); got != 0 {
		t.Errorf("Weak hand scored %d, want 0", got)
	}
}

func TestDecideLandlordHard(t *testing.T) {
	s := Strategy{Difficulty: Hard}

	// Hard has no jitter, so the decision is deterministic.
	if !s.DecideLandlord(hand(16, 17, 9, 9, 9, 9, 12, 12, 12), hand(14, 15, 3)) {
		t.Error("Hard declined with rocket plus bomb in hand")
	}
	if s.DecideLandlord(hand(3, 4, 6, 8, 10, 12), hand(5, 7, 9)) {
		t.Error("Hard bid on a hand of scattered low singles")
	}
}

func TestChooseLeadNeverPasses(t *testing.T) {
	s := Strategy{Difficulty: Medium}
	hands := [][]shared.Card{
		hand(5, 9, 15),
		hand(3, 4, 5, 6, 7, 10),
		hand(8, 8, 8, 4),
		hand(11, 11),
		hand(17),
		hand(3, 3, 3, 3, 6, 6, 12, 14, 14, 15, 16, 17),
	}

	for _, h := range hands {
		play := s.ChooseCardsToPlay(h, nil, calmInfo())
		if len(play) == 0 {
			t.Fatalf("Lead passed with hand %v", h)
		}
		if !rules.IsValidCards(play) {
			t.Errorf("Lead %v does not classify", play)
		}
		if !shared.NewHand(h...).Has(play) {
			t.Errorf("Lead %v uses cards outside hand %v", play, h)
		}
	}
}

func TestChooseLeadPrefersStraight(t *testing.T) {
	s := Strategy{Difficulty: Medium}
	play := s.ChooseCardsToPlay(hand(3, 4, 5, 6, 7, 10), nil, calmInfo())

	p := rules.Analyze(play)
	if p.Type != rules.Straight || p.MainValue != 7 {
		t.Fatalf("Lead = %v (%s), want the 3-7 straight", play, p.Type)
	}
}

func TestChooseLeadEndgameDumpsTriple(t *testing.T) {
	s := Strategy{Difficulty: Medium}
	play := s.ChooseCardsToPlay(hand(8, 8, 8, 4), nil, calmInfo())

	if got := rules.Analyze(play).Type; got != rules.TripleWithSingle {
		t.Fatalf("Endgame lead = %v (%s), want triple with single", play, got)
	}
}

func TestChooseFollowCheapest(t *testing.T) {
	s := Strategy{Difficulty: Easy}
	last := rules.Analyze(hand(5, 5))
	play := s.ChooseCardsToPlay(hand(6, 6, 8, 8, 13), &last, calmInfo())

	p := rules.Analyze(play)
	if p.Type != rules.Pair || p.MainValue != 6 {
		t.Fatalf("Follow = %v (%s main %d), want the pair of sixes", play, p.Type, p.MainValue)
	}
}

func TestChooseFollowPassesWhenOutgunned(t *testing.T) {
	s := Strategy{Difficulty: Easy}
	last := rules.Analyze(hand(14, 14))

	if play := s.ChooseCardsToPlay(hand(3, 3, 4), &last, calmInfo()); play != nil {
		t.Fatalf("Expected a pass against a pair of aces, got %v", play)
	}
}

func TestChooseFollowHoldsBombWhenCalm(t *testing.T) {
	s := Strategy{Difficulty: Easy}
	last := rules.Analyze(hand(14, 14))

	// Easy never spends a bomb while every opponent still holds plenty.
	if play := s.ChooseCardsToPlay(hand(9, 9, 9, 9, 3), &last, calmInfo()); play != nil {
		t.Fatalf("Easy spent a bomb without pressure: %v", play)
	}
}

func TestChooseFollowBombsUnderPressure(t *testing.T) {
	last := rules.Analyze(hand(14, 14))
	h := hand(9, 9, 9, 9, 3)

	info := calmInfo()
	info.PlayersCardCount = [game.NumPlayers]int{5, 1, 10}

	s := Strategy{Difficulty: Easy}
	play := s.ChooseCardsToPlay(h, &last, info)
	if got := rules.Analyze(play).Type; got != rules.Bomb {
		t.Fatalf("Expected a bomb with an opponent nearly out, got %v (%s)", play, got)
	}

	// Hard bombs regardless of pressure.
	s = Strategy{Difficulty: Hard}
	play = s.ChooseCardsToPlay(h, &last, calmInfo())
	if got := rules.Analyze(play).Type; got != rules.Bomb {
		t.Fatalf("Expected hard to bomb, got %v (%s)", play, got)
	}
}

func TestChooseFollowAlwaysLegal(t *testing.T) {
	s := Strategy{Difficulty: Hard}
	scenarios := []struct {
		hand []shared.Card
		last []shared.Card
	}{
		{hand(6, 6, 8, 8, 13), hand(5, 5)},
		{hand(7, 7, 7, 4, 10), hand(6, 6, 6)},
		{hand(9, 9, 9, 9, 16, 17), hand(15, 15)},
		{hand(4, 5, 6, 7, 8, 9), hand(3, 4, 5, 6, 7)},
		{hand(3, 4), hand(14, 14, 14)},
	}

	for _, sc := range scenarios {
		last := rules.Analyze(sc.last)
		play := s.ChooseCardsToPlay(sc.hand, &last, calmInfo())
		if play == nil {
			continue
		}
		if !rules.CanFollow(play, &last) {
			t.Errorf("Follow %v cannot beat %v", play, sc.last)
		}
		if !shared.NewHand(sc.hand...).Has(play) {
			t.Errorf("Follow %v uses cards outside hand %v", play, sc.hand)
		}
	}
}

func TestAnalyzeHandInventory(t *testing.T) {
	s := AnalyzeHand(hand(3, 5, 5, 7, 7, 7, 9, 9, 9, 9, 16, 17))

	if got := s.Singles; len(got) != 3 || got[0] != 3 {
		t.Errorf("Singles = %v, want [3 16 17]", got)
	}
	if got := s.Pairs; len(got) != 1 || got[0] != 5 {
		t.Errorf("Pairs = %v, want [5]", got)
	}
	if got := s.Triples; len(got) != 1 || got[0] != 7 {
		t.Errorf("Triples = %v, want [7]", got)
	}
	if got := s.Bombs; len(got) != 1 || got[0] != 9 {
		t.Errorf("Bombs = %v, want [9]", got)
	}
	if !s.HasRocket {
		t.Error("Rocket not detected")
	}
	if s.TotalCards != 12 {
		t.Errorf("TotalCards = %d, want 12", s.TotalCards)
	}
}

func TestLongestRun(t *testing.T) {
	// 12 13 14 counts as a run; 15 ("2") must not extend it.
	s := AnalyzeHand(hand(12, 13, 14, 15, 16))
	if s.StraightRunSize != 3 {
		t.Errorf("StraightRunSize = %d, want 3", s.StraightRunSize)
	}
}
