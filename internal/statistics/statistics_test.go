package statistics

import "testing"

func TestRecordHand(t *testing.T) {
	var s SessionStats

	s.RecordHand(OutcomeWin, 100)
	s.RecordHand(OutcomeBlackjack, 150)
	s.RecordHand(OutcomeLoss, -100)
	s.RecordHand(OutcomeSurrender, -50)
	s.RecordHand(OutcomePush, 0)

	if s.HandsPlayed != 5 {
		t.Errorf("hands played: got %d, want 5", s.HandsPlayed)
	}
	if s.HandsWon != 2 {
		t.Errorf("hands won: got %d, want 2", s.HandsWon)
	}
	if s.HandsLost != 2 {
		t.Errorf("hands lost: got %d, want 2", s.HandsLost)
	}
	if s.HandsPushed != 1 {
		t.Errorf("hands pushed: got %d, want 1", s.HandsPushed)
	}
	if s.Blackjacks != 1 {
		t.Errorf("blackjacks: got %d, want 1", s.Blackjacks)
	}
	if s.Surrenders != 1 {
		t.Errorf("surrenders: got %d, want 1", s.Surrenders)
	}
	if s.TotalWon != 250 {
		t.Errorf("total won: got %d, want 250", s.TotalWon)
	}
	if s.TotalLost != 150 {
		t.Errorf("total lost: got %d, want 150", s.TotalLost)
	}
	if s.Net() != 100 {
		t.Errorf("net: got %d, want 100", s.Net())
	}
	if err := s.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestObserveChips(t *testing.T) {
	var s SessionStats
	s.ObserveChips(1000)
	s.ObserveChips(800)
	if s.HighestChips != 1000 {
		t.Errorf("watermark dropped: got %d", s.HighestChips)
	}
	s.ObserveChips(1500)
	if s.HighestChips != 1500 {
		t.Errorf("watermark did not rise: got %d", s.HighestChips)
	}
}

func TestReset(t *testing.T) {
	var s SessionStats
	s.RecordHand(OutcomeWin, 100)
	s.ObserveChips(1100)
	s.Reset()
	if s != (SessionStats{}) {
		t.Errorf("reset left state behind: %+v", s)
	}
}

func TestValidateCatchesInconsistency(t *testing.T) {
	s := SessionStats{HandsPlayed: 3, HandsWon: 1}
	if err := s.Validate(); err == nil {
		t.Error("expected error for outcome counts not summing to hands played")
	}

	s = SessionStats{HandsPlayed: 1, HandsWon: 1, Blackjacks: 2}
	if err := s.Validate(); err == nil {
		t.Error("expected error for blackjacks exceeding wins")
	}
}
