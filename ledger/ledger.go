// Package ledger implements the Action-Point Ledger (§4.G): the two-phase
// reserve/commit/release budget every state-changing action draws against,
// with a TTL-bounded reservation so a handler that dies mid-action cannot
// permanently lock up a player's budget.
//
// Grounded on internal/store's Versioned/Repository pattern (the ledger row
// is itself a Version-int64 optimistic-locked document, same as every other
// aggregate in this module); reservation ids use google/uuid the way the
// correlation-id idiom does elsewhere in this module.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/stellarforge/empirecore/internal/store"
)

// ReservationTTL is how long a reservation holds its points before the
// sweep frees them (§4.G, §5).
const ReservationTTL = 30 * time.Second

// EmergencyMultiplier is the fixed factor emergency actions multiply their
// required points by (§4.G).
const EmergencyMultiplier = 2

// ErrInsufficientActionPoints is returned by Reserve when the player's
// available budget is below the required amount.
type ErrInsufficientActionPoints struct {
	Required  int
	Available int
}

func (e *ErrInsufficientActionPoints) Error() string {
	return "ledger: insufficient action points"
}

// ErrReservationNotFound and ErrReservationExpired are Commit failures.
var (
	ErrReservationNotFound = errors.New("ledger: reservation not found")
	ErrReservationExpired  = errors.New("ledger: reservation expired")
)

// Reservation is one in-flight two-phase hold on a player's budget (§3
// "action_point_reservations").
type Reservation struct {
	ID        string    `bson:"_id"`
	PlayerID  bson.ObjectID `bson:"playerId"`
	Turn      int64     `bson:"turn"`
	Points    int       `bson:"points"`
	ExpiresAt time.Time `bson:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt"`
}

// Ledger is the per-(player, turn) action-point row (§3 "player_actions" +
// the implied ledger row).
type Ledger struct {
	ID               bson.ObjectID          `bson:"_id,omitempty"`
	PlayerID         bson.ObjectID          `bson:"playerId"`
	Turn             int64                  `bson:"turn"`
	PointsAvailable  int                    `bson:"pointsAvailable"`
	PointsUsed       int                    `bson:"pointsUsed"`
	Reservations     map[string]Reservation `bson:"reservations"`

	Version   int64     `bson:"version"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// GetVersion and SetVersion satisfy store.Versioned.
func (l *Ledger) GetVersion() int64  { return l.Version }
func (l *Ledger) SetVersion(v int64) { l.Version = v }

// New builds a fresh per-turn ledger row with the given per-turn budget.
func New(playerID bson.ObjectID, turn int64, pointsAvailable int, now time.Time) *Ledger {
	return &Ledger{
		PlayerID:        playerID,
		Turn:            turn,
		PointsAvailable: pointsAvailable,
		Reservations:    make(map[string]Reservation),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// reservedPoints sums every non-expired reservation's points, the
// Σ(active reservations) term in the §4.G available formula.
func (l *Ledger) reservedPoints(now time.Time) int {
	total := 0
	for _, r := range l.Reservations {
		if r.ExpiresAt.After(now) {
			total += r.Points
		}
	}
	return total
}

// Available computes `points_available - points_used - Σ(active
// reservations)` (§4.G).
func (l *Ledger) Available(now time.Time) int {
	return l.PointsAvailable - l.PointsUsed - l.reservedPoints(now)
}

// Reserve implements the reserve phase (§4.G step 1), mutating l in place.
// Callers persist the mutation via CompareAndSwap inside the same
// transaction that read l, realizing the row's `SELECT ... FOR UPDATE`.
func (l *Ledger) Reserve(required int, emergency bool, now time.Time) (string, error) {
	if emergency {
		required *= EmergencyMultiplier
	}
	available := l.Available(now)
	if available < required {
		return "", &ErrInsufficientActionPoints{Required: required, Available: available}
	}
	id := uuid.NewString()
	l.Reservations[id] = Reservation{
		ID:        id,
		PlayerID:  l.PlayerID,
		Turn:      l.Turn,
		Points:    required,
		ExpiresAt: now.Add(ReservationTTL),
		CreatedAt: now,
	}
	l.UpdatedAt = now
	return id, nil
}

// Commit implements the commit phase (§4.G step 2): the reservation's
// points move from "reserved" to "used" and the hold is released. Returns
// an immutable log entry, carrying the committed point cost, that the
// caller appends to the action log collection.
func (l *Ledger) Commit(reservationID string, actionType string, now time.Time) (ActionLogEntry, error) {
	res, ok := l.Reservations[reservationID]
	if !ok {
		return ActionLogEntry{}, ErrReservationNotFound
	}
	if now.After(res.ExpiresAt) {
		delete(l.Reservations, reservationID)
		return ActionLogEntry{}, ErrReservationExpired
	}
	delete(l.Reservations, reservationID)
	l.PointsUsed += res.Points
	l.UpdatedAt = now
	return ActionLogEntry{
		PlayerID:   l.PlayerID,
		Turn:       l.Turn,
		ActionType: actionType,
		Points:     res.Points,
		OccurredAt: now,
	}, nil
}

// Release implements the best-effort release phase (§4.G step 3), called
// on domain-op failure. Releasing an unknown or already-expired
// reservation is not an error: the sweep or a prior release may have
// already removed it.
func (l *Ledger) Release(reservationID string) {
	delete(l.Reservations, reservationID)
}

// Sweep implements the periodic sweep (§4.G step 4): deletes every
// reservation whose TTL has passed as of now, returning how many were
// freed.
func (l *Ledger) Sweep(now time.Time) int {
	freed := 0
	for id, r := range l.Reservations {
		if !r.ExpiresAt.After(now) {
			delete(l.Reservations, id)
			freed++
		}
	}
	return freed
}

// ActionLogEntry is one immutable row appended on Commit (§3
// "player_actions").
type ActionLogEntry struct {
	PlayerID   bson.ObjectID `bson:"playerId"`
	Turn       int64         `bson:"turn"`
	ActionType string        `bson:"actionType"`
	Points     int           `bson:"points"`
	OccurredAt time.Time     `bson:"occurredAt"`
}

// Sweeper runs Sweep across every ledger row in the store, per the §4.G
// periodic-sweep contract. Grounded on the Repository/Transactor boundary
// used throughout this module.
func Sweeper(ctx context.Context, ledgers store.Repository[*Ledger], now time.Time) (int, error) {
	rows, err := ledgers.Find(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	total := 0
	for _, l := range rows {
		version := l.GetVersion()
		freed := l.Sweep(now)
		if freed == 0 {
			continue
		}
		l.UpdatedAt = now
		if err := ledgers.CompareAndSwap(ctx, l.ID, version, l); err != nil {
			continue
		}
		total += freed
	}
	return total, nil
}
