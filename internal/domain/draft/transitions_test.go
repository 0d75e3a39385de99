package draft

import (
	"errors"
	"testing"
	"time"
)

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func fixedNow() time.Time { return time.Date(2026, 8, 28, 21, 0, 0, 0, time.UTC) }

func TestApply_OwnedRequiresCost(t *testing.T) {
	s := NewState("user-1", "league-1", "player-1")

	if _, err := Apply(s, Change{Status: StatusOwned}, fixedNow()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition without cost, got %v", err)
	}
	if _, err := Apply(s, Change{Status: StatusOwned, Cost: int64Ptr(0)}, fixedNow()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for zero cost, got %v", err)
	}

	next, err := Apply(s, Change{Status: StatusOwned, Cost: int64Ptr(42)}, fixedNow())
	if err != nil {
		t.Fatalf("owned transition failed: %v", err)
	}
	if next.Cost != 42 || next.AcquiredAt == nil || next.RemovedAt != nil {
		t.Fatalf("unexpected owned state: %+v", next)
	}
	if err := next.Validate(); err != nil {
		t.Fatalf("owned state invalid: %v", err)
	}
}

func TestApply_TakenByOtherRequiresBuyer(t *testing.T) {
	s := NewState("user-1", "league-1", "player-1")

	if _, err := Apply(s, Change{Status: StatusTakenByOther}, fixedNow()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition without buyer, got %v", err)
	}

	next, err := Apply(s, Change{Status: StatusTakenByOther, Buyer: strPtr("Marco"), Cost: int64Ptr(30)}, fixedNow())
	if err != nil {
		t.Fatalf("taken_by_other transition failed: %v", err)
	}
	if next.Buyer != "Marco" || next.Cost != 30 || next.AcquiredAt == nil {
		t.Fatalf("unexpected taken_by_other state: %+v", next)
	}
}

func TestApply_RemovedClearsCostAndBuyer(t *testing.T) {
	s := NewState("user-1", "league-1", "player-1")
	owned, err := Apply(s, Change{Status: StatusOwned, Cost: int64Ptr(42)}, fixedNow())
	if err != nil {
		t.Fatalf("owned transition failed: %v", err)
	}

	removed, err := Apply(owned, Change{Status: StatusRemoved}, fixedNow().Add(time.Minute))
	if err != nil {
		t.Fatalf("removed transition failed: %v", err)
	}
	if removed.Cost != 0 || removed.Buyer != "" {
		t.Fatalf("removed must clear cost and buyer: %+v", removed)
	}
	if removed.RemovedAt == nil || removed.AcquiredAt != nil {
		t.Fatalf("removed timestamps wrong: %+v", removed)
	}
}

func TestApply_RoundTripOwnedToAvailable(t *testing.T) {
	s := NewState("user-1", "league-1", "player-1")
	owned, err := Apply(s, Change{Status: StatusOwned, Cost: int64Ptr(100)}, fixedNow())
	if err != nil {
		t.Fatalf("owned transition failed: %v", err)
	}

	back, err := Apply(owned, Change{Status: StatusAvailable}, fixedNow().Add(time.Minute))
	if err != nil {
		t.Fatalf("available transition failed: %v", err)
	}
	if back.Cost != 0 || back.Buyer != "" || back.AcquiredAt != nil || back.RemovedAt != nil {
		t.Fatalf("round trip must restore defaults: %+v", back)
	}
}

func TestReset_ClearsNoteAndPriceKeepsTier(t *testing.T) {
	s := NewState("user-1", "league-1", "player-1")
	s.Tier = "Top"
	s.Note = "target at 30+"
	s.ExpectedPrice = 35

	owned, err := Apply(s, Change{Status: StatusOwned, Cost: int64Ptr(38)}, fixedNow())
	if err != nil {
		t.Fatalf("owned transition failed: %v", err)
	}

	reset := Reset(owned, fixedNow().Add(time.Hour))
	if reset.Status != StatusAvailable {
		t.Fatalf("expected available after reset, got %s", reset.Status)
	}
	if reset.Note != "" || reset.ExpectedPrice != 0 || reset.Cost != 0 {
		t.Fatalf("reset must clear note, expected price and cost: %+v", reset)
	}
	if reset.Tier != "Top" {
		t.Fatalf("reset must keep the tier, got %q", reset.Tier)
	}
	if !reset.IsDefault() {
		t.Fatalf("reset row should read as default: %+v", reset)
	}
}

func TestValidate_RejectsIllegalFieldCombinations(t *testing.T) {
	now := fixedNow()
	s := NewState("user-1", "league-1", "player-1")
	s.Status = StatusOwned
	s.Cost = 10
	s.AcquiredAt = &now
	s.RemovedAt = &now
	if err := s.Validate(); err == nil {
		t.Fatal("owned row with removed timestamp must be invalid")
	}

	s = NewState("user-1", "league-1", "player-1")
	s.Status = StatusRemoved
	if err := s.Validate(); err == nil {
		t.Fatal("removed row without timestamp must be invalid")
	}
}
