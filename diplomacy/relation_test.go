package diplomacy

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestAdjustTrust_ClampsToBounds(t *testing.T) {
	r := NewRelation(bson.NewObjectID(), bson.NewObjectID(), time.Now())
	r.AdjustTrust(-500, time.Now())
	if r.TrustLevel != TrustMin {
		t.Fatalf("expected trust clamped to %d, got %d", TrustMin, r.TrustLevel)
	}
	r.AdjustTrust(1000, time.Now())
	if r.TrustLevel != TrustMax {
		t.Fatalf("expected trust clamped to %d, got %d", TrustMax, r.TrustLevel)
	}
}

func TestCategoryOf_Thresholds(t *testing.T) {
	cases := map[int]Category{
		-100: Hostile,
		-60:  Hostile,
		-59:  Unfriendly,
		-20:  Unfriendly,
		0:    Neutral,
		19:   Neutral,
		20:   Friendly,
		59:   Friendly,
		60:   Allied,
		100:  Allied,
	}
	for trust, want := range cases {
		if got := CategoryOf(trust); got != want {
			t.Fatalf("CategoryOf(%d) = %s, want %s", trust, got, want)
		}
	}
}

func TestNormalizePair_OrderIndependent(t *testing.T) {
	a, b := bson.NewObjectID(), bson.NewObjectID()
	if NormalizePair(a, b) != NormalizePair(b, a) {
		t.Fatalf("expected NormalizePair to be order-independent")
	}
}

func TestProposal_AcceptCreatesAgreementAndAdjustsTrust(t *testing.T) {
	now := time.Now()
	relation := NewRelation(bson.NewObjectID(), bson.NewObjectID(), now)
	proposal, err := NewProposal(relation.EmpireA, relation.EmpireB, ProposeTradeAgreement, nil, relation, false, now)
	if err != nil {
		t.Fatalf("NewProposal failed: %v", err)
	}
	agreement, err := proposal.Accept(relation, now)
	if err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if proposal.Status != ProposalAccepted {
		t.Fatalf("expected status accepted, got %s", proposal.Status)
	}
	if agreement.Kind != TradeAgreement {
		t.Fatalf("expected trade_agreement kind, got %s", agreement.Kind)
	}
	if relation.TrustLevel != ProposalConfigs[ProposeTradeAgreement].TrustChangeAccept {
		t.Fatalf("expected trust to move by trust_change_accept, got %d", relation.TrustLevel)
	}
}

func TestProposal_AcceptTwiceFailsWithConflict(t *testing.T) {
	now := time.Now()
	relation := NewRelation(bson.NewObjectID(), bson.NewObjectID(), now)
	proposal, _ := NewProposal(relation.EmpireA, relation.EmpireB, ProposeTradeAgreement, nil, relation, false, now)
	if _, err := proposal.Accept(relation, now); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}
	if _, err := proposal.Accept(relation, now); err != ErrProposalNotPending {
		t.Fatalf("expected ErrProposalNotPending on second accept, got %v", err)
	}
}

func TestNewProposal_RejectsDuplicatePending(t *testing.T) {
	now := time.Now()
	relation := NewRelation(bson.NewObjectID(), bson.NewObjectID(), now)
	if _, err := NewProposal(relation.EmpireA, relation.EmpireB, ProposeTradeAgreement, nil, relation, true, now); err != ErrDuplicateProposal {
		t.Fatalf("expected ErrDuplicateProposal, got %v", err)
	}
}

func TestNewProposal_RejectsInsufficientTrust(t *testing.T) {
	now := time.Now()
	relation := NewRelation(bson.NewObjectID(), bson.NewObjectID(), now)
	relation.TrustLevel = -50
	if _, err := NewProposal(relation.EmpireA, relation.EmpireB, ProposeAlliance, nil, relation, false, now); err != ErrInsufficientTrust {
		t.Fatalf("expected ErrInsufficientTrust, got %v", err)
	}
}
