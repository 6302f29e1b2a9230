// Package turn implements the Turn Manager (§4.H): the global turn
// singleton, phase derivation, and the per-empire pipeline-step contract;
// the end-of-turn pipeline itself is orchestrated by package pipeline.
//
// Grounded on the Version-int64 optimistic-lock idiom applied elsewhere in
// this module to a singleton row, and on EverforgeWorks-Galaxies-Server's
// DataLock-guarded global state pattern generalized into a
// transaction-scoped CompareAndSwap instead of a process-wide mutex.
// turn_digest uses lukechampine.com/blake3 the way Vitadek-OwnWorld's
// consensus.go hashes state for replay/audit.
package turn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"lukechampine.com/blake3"

	"github.com/stellarforge/empirecore/internal/store"
)

// Phase is a coarse, informational label on a live turn derived from
// elapsed fraction (glossary; §4.H). The turn-start-time derivation is
// canonical per the Open Question resolution in §9; a wall-clock
// hour-of-day variant is dead code not reproduced here.
type Phase string

const (
	PhaseActive  Phase = "active"
	PhaseWarning Phase = "warning"
	PhaseFinal   Phase = "final"
)

// DefaultDuration is the default turn duration (§6 env config
// "turn duration (default 24h)").
const DefaultDuration = 24 * time.Hour

// DefaultActionPoints is the default per-player, per-turn action-point
// allocation (§6 env config "action points per turn (default 10)").
const DefaultActionPoints = 10

// LedgerRetentionTurns bounds how many past turns' ledger rows `advance()`
// keeps before garbage-collecting them (§4.H).
const LedgerRetentionTurns = 5

// ErrAlreadyInitialized and ErrAlreadyProcessing are the two state-machine
// violations this package reports (§4.H, §5, and end-to-end scenario 3).
var (
	ErrAlreadyInitialized = errors.New("turn: already initialized")
	ErrAlreadyProcessing  = errors.New("turn: already processing")
)

// State is the singleton current-turn row (§3 "global game_state
// singleton").
type State struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	TurnNumber    int64         `bson:"turnNumber"`
	StartTime     time.Time     `bson:"startTime"`
	Duration      time.Duration `bson:"duration"`
	IsProcessing  bool          `bson:"isProcessing"`
	Digest        string        `bson:"digest,omitempty"`

	Version   int64     `bson:"version"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// GetVersion and SetVersion satisfy store.Versioned.
func (s *State) GetVersion() int64  { return s.Version }
func (s *State) SetVersion(v int64) { s.Version = v }

// Snapshot is the result of getCurrent() (§4.H).
type Snapshot struct {
	TurnNumber    int64
	StartTime     time.Time
	EndTime       time.Time
	TimeRemaining time.Duration
	Phase         Phase
	IsProcessing  bool
}

// elapsedFraction returns how far through the turn duration now falls,
// clamped to [0, 1].
func elapsedFraction(s *State, now time.Time) float64 {
	if s.Duration <= 0 {
		return 1
	}
	f := float64(now.Sub(s.StartTime)) / float64(s.Duration)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// PhaseFor derives phase from elapsed fraction (§4.H: <80% active, 80-95%
// warning, >=95% final).
func PhaseFor(fraction float64) Phase {
	switch {
	case fraction >= 0.95:
		return PhaseFinal
	case fraction >= 0.80:
		return PhaseWarning
	default:
		return PhaseActive
	}
}

// GetCurrent implements getCurrent() (§4.H).
func GetCurrent(s *State, now time.Time) Snapshot {
	fraction := elapsedFraction(s, now)
	end := s.StartTime.Add(s.Duration)
	remaining := end.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return Snapshot{
		TurnNumber:    s.TurnNumber,
		StartTime:     s.StartTime,
		EndTime:       end,
		TimeRemaining: remaining,
		Phase:         PhaseFor(fraction),
		IsProcessing:  s.IsProcessing,
	}
}

// Initialize implements initialize() (§4.H): one-time creation of turn 1.
// Callers check for an existing row first (e.g. Count(ctx, bson.M{}) == 0)
// inside the same transaction and pass ErrAlreadyInitialized through on
// conflict.
func Initialize(now time.Time, duration time.Duration) *State {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &State{
		TurnNumber:   1,
		StartTime:    now,
		Duration:     duration,
		IsProcessing: false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// BeginProcessing implements the `is_processing` compare-and-set §4.H/§5
// describes: exactly one concurrent advance() may flip it. Callers read s
// then call BeginProcessing and persist via CompareAndSwap; a version
// conflict on that write is itself a second line of defense against two
// concurrent advances racing past this in-memory check.
func BeginProcessing(s *State) error {
	if s.IsProcessing {
		return ErrAlreadyProcessing
	}
	s.IsProcessing = true
	return nil
}

// Digest computes a deterministic turn_digest over the turn's observable
// state, for audit/replay purposes — not consulted by game logic.
func Digest(turnNumber int64, startTime time.Time) string {
	sum := blake3.Sum256([]byte(fmt.Sprintf("%d|%d", turnNumber, startTime.UnixNano())))
	return fmt.Sprintf("%x", sum)
}

// Advance implements the non-pipeline half of advance() (§4.H): it does
// not run the end-of-turn pipeline itself (that is orchestrated by the
// pipeline package, which has visibility into every domain repository);
// it only produces the new turn row once the caller confirms the pipeline
// ran. now is supplied by the caller.
func Advance(current *State, now time.Time) *State {
	next := &State{
		TurnNumber:   current.TurnNumber + 1,
		StartTime:    now,
		Duration:     current.Duration,
		IsProcessing: false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	next.Digest = Digest(next.TurnNumber, next.StartTime)
	return next
}

// AllocateActionPoints implements allocateActionPoints(player) (§4.H):
// idempotent per (player, turn). exists reports whether a ledger row for
// this (player, turn) is already on record; callers look this up via
// ledgers.Find before calling.
func AllocateActionPoints(exists bool, pointsAvailable int) (shouldCreate bool, points int) {
	if exists {
		return false, 0
	}
	if pointsAvailable <= 0 {
		pointsAvailable = DefaultActionPoints
	}
	return true, pointsAvailable
}

// GCCutoffTurn returns the oldest turn number whose ledger rows must be
// kept; rows for turns strictly below this are garbage-collected by
// advance() per §4.H.
func GCCutoffTurn(currentTurn int64) int64 {
	cutoff := currentTurn - LedgerRetentionTurns
	if cutoff < 1 {
		return 1
	}
	return cutoff
}

// store is referenced only by the Versioned assertion at the end of this
// file; PipelineStep documents the per-empire failure-isolation
// contract every end-of-turn step follows (§4.H: "Any step may fail
// per-empire; failures are logged... but do not halt the pipeline").
type PipelineStep func(ctx context.Context, empireID bson.ObjectID) error

// RunPipelineStep executes step for empireID, converting a returned error
// into a logged failure rather than propagating it, so one empire's
// failure never halts the sweep over the rest (§4.H, §7).
func RunPipelineStep(ctx context.Context, step PipelineStep, empireID bson.ObjectID, onError func(bson.ObjectID, error)) {
	if err := step(ctx, empireID); err != nil && onError != nil {
		onError(empireID, err)
	}
}

var _ store.Versioned = (*State)(nil)
