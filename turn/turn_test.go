package turn

import (
	"errors"
	"testing"
	"time"
)

func TestPhaseFor_Thresholds(t *testing.T) {
	cases := map[float64]Phase{
		0:    PhaseActive,
		0.5:  PhaseActive,
		0.79: PhaseActive,
		0.80: PhaseWarning,
		0.94: PhaseWarning,
		0.95: PhaseFinal,
		1.0:  PhaseFinal,
	}
	for fraction, want := range cases {
		if got := PhaseFor(fraction); got != want {
			t.Fatalf("PhaseFor(%.2f) = %s, want %s", fraction, got, want)
		}
	}
}

func TestGetCurrent_DerivesFromStartTime(t *testing.T) {
	start := time.Now().Add(-20 * time.Hour)
	s := &State{TurnNumber: 5, StartTime: start, Duration: DefaultDuration}
	snap := GetCurrent(s, start.Add(20*time.Hour))
	if snap.Phase != PhaseWarning {
		t.Fatalf("expected warning phase at 20/24h elapsed, got %s", snap.Phase)
	}
	if snap.TurnNumber != 5 {
		t.Fatalf("expected turn number carried through, got %d", snap.TurnNumber)
	}
}

func TestBeginProcessing_RejectsSecondCaller(t *testing.T) {
	s := &State{TurnNumber: 10}
	if err := BeginProcessing(s); err != nil {
		t.Fatalf("expected first BeginProcessing to succeed: %v", err)
	}
	if err := BeginProcessing(s); !errors.Is(err, ErrAlreadyProcessing) {
		t.Fatalf("expected ErrAlreadyProcessing on second call, got %v", err)
	}
}

func TestAdvance_IncrementsTurnNumberAndResetsProcessing(t *testing.T) {
	now := time.Now()
	current := &State{TurnNumber: 10, StartTime: now.Add(-24 * time.Hour), Duration: DefaultDuration, IsProcessing: true}
	next := Advance(current, now)
	if next.TurnNumber != 11 {
		t.Fatalf("expected turn 11, got %d", next.TurnNumber)
	}
	if next.IsProcessing {
		t.Fatalf("expected is_processing reset to false on the new turn row")
	}
	if next.Digest == "" {
		t.Fatalf("expected a non-empty turn digest")
	}
}

func TestAllocateActionPoints_Idempotent(t *testing.T) {
	shouldCreate, points := AllocateActionPoints(true, 0)
	if shouldCreate {
		t.Fatalf("expected no-op when a ledger row already exists")
	}
	shouldCreate, points = AllocateActionPoints(false, 0)
	if !shouldCreate || points != DefaultActionPoints {
		t.Fatalf("expected default allocation of %d points, got create=%v points=%d", DefaultActionPoints, shouldCreate, points)
	}
}

func TestGCCutoffTurn_NeverBelowOne(t *testing.T) {
	if GCCutoffTurn(2) != 1 {
		t.Fatalf("expected cutoff floored at 1, got %d", GCCutoffTurn(2))
	}
	if GCCutoffTurn(10) != 5 {
		t.Fatalf("expected cutoff of 5 at turn 10, got %d", GCCutoffTurn(10))
	}
}
