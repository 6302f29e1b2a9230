// Package diplomacy implements the Diplomacy Processor (§4.D): trust-level
// relations between empires, proposal lifecycle, materialized agreements,
// and trade-route settlement.
//
// Grounded on diplomacy/state.go's Pair/normalizePair canonicalization and
// diplomacy/memory_provider.go's relation-state shape, generalized from an
// enum Relation onto a scalar trust_level plus derived trust_category.
package diplomacy

import (
	"bytes"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Category is the fixed-threshold label derived from a relation's
// trust_level (§3).
type Category string

const (
	Hostile    Category = "hostile"
	Unfriendly Category = "unfriendly"
	Neutral    Category = "neutral"
	Friendly   Category = "friendly"
	Allied     Category = "allied"
)

// CategoryOf derives the trust_category from a trust_level scalar using a
// fixed set of thresholds.
func CategoryOf(trustLevel int) Category {
	switch {
	case trustLevel <= -60:
		return Hostile
	case trustLevel <= -20:
		return Unfriendly
	case trustLevel < 20:
		return Neutral
	case trustLevel < 60:
		return Friendly
	default:
		return Allied
	}
}

// TradeModifier and ResearchSharingAllowed are the two derived values each
// trust_category yields (§4.D).
func (c Category) TradeModifier() float64 {
	switch c {
	case Hostile:
		return 0 // trade is not possible at all
	case Unfriendly:
		return 0.8
	case Neutral:
		return 1.0
	case Friendly:
		return 1.1
	case Allied:
		return 1.25
	default:
		return 1.0
	}
}

func (c Category) ResearchSharingAllowed() bool {
	return c == Friendly || c == Allied
}

// Pair canonicalizes an unordered empire pair by min/max id, so relation
// rows are addressed identically regardless of argument order.
type Pair struct {
	A bson.ObjectID
	B bson.ObjectID
}

// NormalizePair returns the canonical Pair for (a, b).
func NormalizePair(a, b bson.ObjectID) Pair {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return Pair{A: a, B: b}
	}
	return Pair{A: b, B: a}
}

// TrustMin and TrustMax bound trust_level (§3, §8 universal invariant).
const (
	TrustMin = -100
	TrustMax = 100
)

// ClampTrust enforces the trust_level invariant.
func ClampTrust(v int) int {
	if v < TrustMin {
		return TrustMin
	}
	if v > TrustMax {
		return TrustMax
	}
	return v
}

// Relation is one row per unordered pair of empires (§3).
type Relation struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	EmpireA    bson.ObjectID `bson:"empireA"`
	EmpireB    bson.ObjectID `bson:"empireB"`
	TrustLevel int           `bson:"trustLevel"`

	Agreements []Agreement `bson:"agreements,omitempty"`

	Version   int64     `bson:"version"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// GetVersion and SetVersion satisfy store.Versioned.
func (r *Relation) GetVersion() int64  { return r.Version }
func (r *Relation) SetVersion(v int64) { r.Version = v }

// Category returns the relation's current trust_category.
func (r *Relation) Category() Category {
	return CategoryOf(r.TrustLevel)
}

// NewRelation creates the eagerly-materialized zero-trust relation between
// two empires on first interaction (§4.D).
func NewRelation(a, b bson.ObjectID, now time.Time) *Relation {
	pair := NormalizePair(a, b)
	return &Relation{
		EmpireA:    pair.A,
		EmpireB:    pair.B,
		TrustLevel: 0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// AdjustTrust applies delta to TrustLevel, clamped to [-100, 100].
func (r *Relation) AdjustTrust(delta int, now time.Time) {
	r.TrustLevel = ClampTrust(r.TrustLevel + delta)
	r.UpdatedAt = now
}

// ActiveAgreement returns the first non-expired agreement of kind, if any.
func (r *Relation) ActiveAgreement(kind AgreementKind, now time.Time) (*Agreement, bool) {
	for i := range r.Agreements {
		a := &r.Agreements[i]
		if a.Kind == kind && a.EffectiveAt.Before(now.Add(time.Nanosecond)) && (a.ExpiresAt.IsZero() || a.ExpiresAt.After(now)) {
			return a, true
		}
	}
	return nil, false
}

// CanAttack reports whether either empire of the pair can legally attack
// the other: no active non_aggression_pact or alliance stands in the way.
func (r *Relation) CanAttack(now time.Time) bool {
	if _, ok := r.ActiveAgreement(NonAggressionPact, now); ok {
		return false
	}
	if _, ok := r.ActiveAgreement(Alliance, now); ok {
		return false
	}
	return true
}

// CanTrade reports whether the pair has an active trade_agreement and is
// not hostile.
func (r *Relation) CanTrade(now time.Time) bool {
	if r.Category() == Hostile {
		return false
	}
	_, ok := r.ActiveAgreement(TradeAgreement, now)
	return ok
}

// CanShareResearch reports whether the pair's trust_category and an active
// research_sharing agreement both permit technology sharing.
func (r *Relation) CanShareResearch(now time.Time) bool {
	if !r.Category().ResearchSharingAllowed() {
		return false
	}
	_, ok := r.ActiveAgreement(ResearchSharing, now)
	return ok
}
