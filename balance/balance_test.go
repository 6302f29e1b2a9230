package balance

import (
	"testing"
	"time"
)

func TestValidate_RejectsUnknownAction(t *testing.T) {
	result := Validate(Request{Action: "not_a_real_action"})
	if result.Valid {
		t.Fatalf("expected unknown action to be invalid")
	}
}

func TestValidate_RejectsInsufficientResources(t *testing.T) {
	result := Validate(Request{Action: ActionQueueBuilding, ResourceCost: 500, EmpireResources: 100})
	if result.Valid {
		t.Fatalf("expected insufficient resources to be invalid")
	}
}

func TestValidate_EnforcesCooldown(t *testing.T) {
	now := time.Now()
	result := Validate(Request{
		Action:            ActionInitiateCombat,
		EmpireResources:   1000,
		LastActionOfClass: now.Add(-1 * time.Minute),
		Now:               now,
	})
	if result.Valid {
		t.Fatalf("expected action inside the 5-minute attack cooldown to be invalid")
	}
}

func TestValidate_AllowsActionOutsideCooldown(t *testing.T) {
	now := time.Now()
	result := Validate(Request{
		Action:            ActionInitiateCombat,
		EmpireResources:   1000,
		LastActionOfClass: now.Add(-10 * time.Minute),
		Now:               now,
	})
	if !result.Valid {
		t.Fatalf("expected action outside cooldown to be valid, got violations: %+v", result.Violations)
	}
}

func TestScaledCostMultiplier_CapsAtTwo(t *testing.T) {
	if m := ScaledCostMultiplier(5); m != 1.0 {
		t.Fatalf("expected no scaling at 5 colonies, got %f", m)
	}
	if m := ScaledCostMultiplier(15); m != 2.0 {
		t.Fatalf("expected multiplier capped at 2.0, got %f", m)
	}
	if m := ScaledCostMultiplier(10); m != 1.5 {
		t.Fatalf("expected multiplier of 1.5 at 10 colonies, got %f", m)
	}
}

func TestExploitLimiter_FlagsBurstAboveThreshold(t *testing.T) {
	limiter := NewExploitLimiter()
	flaggedAny := false
	for i := 0; i < actionsPerMinuteThreshold+5; i++ {
		if limiter.CheckRate("player-1") {
			flaggedAny = true
		}
	}
	if !flaggedAny {
		t.Fatalf("expected a burst beyond the per-minute threshold to be flagged")
	}
}
