package diplomacy

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrDuplicateProposal and ErrInsufficientTrust are Conflict/Validation
// failures when creating a proposal (§4.D).
var (
	ErrDuplicateProposal    = errors.New("diplomacy: a pending proposal of this type already exists between this pair")
	ErrInsufficientTrust    = errors.New("diplomacy: relation trust_level is below this proposal type's required_trust")
	ErrProposalNotPending   = errors.New("diplomacy: proposal is not pending")
)

// ProposalType names one proposal kind; each maps to a fixed config row
// (§4.D).
type ProposalType string

const (
	ProposeNonAggression    ProposalType = "non_aggression_pact"
	ProposeAlliance         ProposalType = "alliance"
	ProposeTradeAgreement   ProposalType = "trade_agreement"
	ProposeResearchSharing  ProposalType = "research_sharing"
	ProposeMilitaryCoop     ProposalType = "military_cooperation"
	ProposeTradeRoute       ProposalType = "trade_route"
)

// ProposalConfig is the fixed {required_trust, duration_days,
// trust_change_accept, trust_change_reject} row per proposal_type (§4.D).
type ProposalConfig struct {
	RequiredTrust     int
	DurationDays      int
	TrustChangeAccept int
	TrustChangeReject int
}

// ProposalConfigs is the closed allow-list of proposal types and their
// terms. Concrete values are not enumerated in the distilled spec text
// (which names only the shape of the config row); filled in here with
// harsher requirements for higher-commitment proposal types.
var ProposalConfigs = map[ProposalType]ProposalConfig{
	ProposeNonAggression:   {RequiredTrust: -20, DurationDays: 30, TrustChangeAccept: 5, TrustChangeReject: -2},
	ProposeTradeAgreement:  {RequiredTrust: -10, DurationDays: 60, TrustChangeAccept: 5, TrustChangeReject: -2},
	ProposeTradeRoute:      {RequiredTrust: 0, DurationDays: 30, TrustChangeAccept: 3, TrustChangeReject: -1},
	ProposeResearchSharing: {RequiredTrust: 30, DurationDays: 90, TrustChangeAccept: 10, TrustChangeReject: -5},
	ProposeMilitaryCoop:    {RequiredTrust: 40, DurationDays: 90, TrustChangeAccept: 10, TrustChangeReject: -5},
	ProposeAlliance:        {RequiredTrust: 60, DurationDays: 180, TrustChangeAccept: 15, TrustChangeReject: -10},
}

// DefaultProposalExpiry is the default proposal lifetime (§4.D).
const DefaultProposalExpiry = 7 * 24 * time.Hour

// ProposalStatus tracks a proposal through its lifecycle (§3).
type ProposalStatus string

const (
	ProposalPending   ProposalStatus = "pending"
	ProposalAccepted  ProposalStatus = "accepted"
	ProposalRejected  ProposalStatus = "rejected"
	ProposalCountered ProposalStatus = "countered"
	ProposalExpired   ProposalStatus = "expired"
)

// Proposal is a pending or resolved diplomatic offer between two empires
// (§3).
type Proposal struct {
	ID               bson.ObjectID  `bson:"_id,omitempty"`
	InitiatorEmpire  bson.ObjectID  `bson:"initiatorEmpire"`
	TargetEmpire     bson.ObjectID  `bson:"targetEmpire"`
	Type             ProposalType   `bson:"type"`
	Terms            bson.M         `bson:"terms,omitempty"`
	Status           ProposalStatus `bson:"status"`
	ExpiresAt        time.Time      `bson:"expiresAt"`

	Version   int64     `bson:"version"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// GetVersion and SetVersion satisfy store.Versioned.
func (p *Proposal) GetVersion() int64  { return p.Version }
func (p *Proposal) SetVersion(v int64) { p.Version = v }

// IsExpired reports whether p's expiry has passed as of now.
func (p *Proposal) IsExpired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && now.After(p.ExpiresAt)
}

// NewProposal validates the §4.D creation preconditions and builds a
// pending Proposal. existingPending must be the caller's lookup of any
// pending proposal of the same type between the same pair.
func NewProposal(initiator, target bson.ObjectID, pType ProposalType, terms bson.M, relation *Relation, existingPending bool, now time.Time) (*Proposal, error) {
	cfg, ok := ProposalConfigs[pType]
	if !ok {
		return nil, errors.New("diplomacy: unknown proposal type")
	}
	if existingPending {
		return nil, ErrDuplicateProposal
	}
	if relation.TrustLevel < cfg.RequiredTrust {
		return nil, ErrInsufficientTrust
	}
	return &Proposal{
		InitiatorEmpire: initiator,
		TargetEmpire:    target,
		Type:            pType,
		Terms:           terms,
		Status:          ProposalPending,
		ExpiresAt:       now.Add(DefaultProposalExpiry),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Accept implements the accept response (§4.D): the proposal moves to
// accepted, an Agreement materializes with expires_at = now +
// duration_days, and the relation's trust adjusts by trust_change_accept.
// Callers persist proposal, relation, and the new agreement inside one
// transaction.
func (p *Proposal) Accept(relation *Relation, now time.Time) (Agreement, error) {
	if p.Status != ProposalPending {
		return Agreement{}, ErrProposalNotPending
	}
	cfg := ProposalConfigs[p.Type]
	p.Status = ProposalAccepted
	p.UpdatedAt = now

	agreement := Agreement{
		Kind:        AgreementKind(p.Type),
		EffectiveAt: now,
		ExpiresAt:   now.Add(time.Duration(cfg.DurationDays) * 24 * time.Hour),
		Terms:       p.Terms,
	}
	relation.AdjustTrust(cfg.TrustChangeAccept, now)
	return agreement, nil
}

// Reject implements the reject response (§4.D).
func (p *Proposal) Reject(relation *Relation, now time.Time) error {
	if p.Status != ProposalPending {
		return ErrProposalNotPending
	}
	cfg := ProposalConfigs[p.Type]
	p.Status = ProposalRejected
	p.UpdatedAt = now
	relation.AdjustTrust(cfg.TrustChangeReject, now)
	return nil
}

// Counter implements the counter response (§4.D): no trust change; counter
// terms replace Terms on the same row. The original proposer may submit a
// fresh NewProposal afterward.
func (p *Proposal) Counter(counterTerms bson.M, now time.Time) error {
	if p.Status != ProposalPending {
		return ErrProposalNotPending
	}
	p.Status = ProposalCountered
	p.Terms = counterTerms
	p.UpdatedAt = now
	return nil
}

// ExpirePending flips a still-pending proposal whose expiry has passed to
// expired, per the turn pipeline's expiry sweep (§4.H step 5).
func (p *Proposal) ExpirePending(now time.Time) bool {
	if p.Status == ProposalPending && p.IsExpired(now) {
		p.Status = ProposalExpired
		p.UpdatedAt = now
		return true
	}
	return false
}

// AgreementKind enumerates materialized agreement kinds (§3).
type AgreementKind string

const (
	TradeAgreement    AgreementKind = "trade_agreement"
	NonAggressionPact AgreementKind = "non_aggression_pact"
	Alliance          AgreementKind = "alliance"
	ResearchSharing   AgreementKind = "research_sharing"
	MilitaryCoop      AgreementKind = "military_cooperation"
	WarDeclaration    AgreementKind = "war_declaration"
	TradeRouteKind    AgreementKind = "trade_route"
)

// Agreement is materialized from an accepted proposal (§3).
type Agreement struct {
	Kind        AgreementKind `bson:"kind"`
	EffectiveAt time.Time     `bson:"effectiveAt"`
	ExpiresAt   time.Time     `bson:"expiresAt,omitempty"`
	Terms       bson.M        `bson:"terms,omitempty"`
}

// IsExpired reports whether the agreement's expiry has passed as of now.
func (a Agreement) IsExpired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && now.After(a.ExpiresAt)
}
