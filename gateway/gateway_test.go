package gateway

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/stellarforge/empirecore/balance"
	"github.com/stellarforge/empirecore/internal/apperr"
	"github.com/stellarforge/empirecore/ledger"
)

func testDeps(l *ledger.Ledger) Dependencies {
	return Dependencies{
		LoadLedger: func(ctx context.Context, playerID bson.ObjectID) (*ledger.Ledger, error) { return l, nil },
		SaveLedger: func(ctx context.Context, l *ledger.Ledger) error { return nil },
		Now:        func() time.Time { return time.Now() },
	}
}

func TestDispatch_RejectsOnValidationFailure(t *testing.T) {
	playerID := bson.NewObjectID()
	l := ledger.New(playerID, 1, 10, time.Now())
	called := false
	op := func(ctx context.Context) (any, error) { called = true; return nil, nil }

	_, appErr := Dispatch(context.Background(), testDeps(l), Request{
		PlayerID: playerID,
		Balance:  balance.Request{Action: "not_a_real_action"},
		Points:   1,
	}, op, "queue_building")

	if appErr == nil || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected ValidationError, got %+v", appErr)
	}
	if called {
		t.Fatalf("expected domain op to never run when validation fails")
	}
}

func TestDispatch_RejectsOnInsufficientActionPoints(t *testing.T) {
	playerID := bson.NewObjectID()
	l := ledger.New(playerID, 1, 2, time.Now())
	op := func(ctx context.Context) (any, error) { return nil, nil }

	_, appErr := Dispatch(context.Background(), testDeps(l), Request{
		PlayerID: playerID,
		Balance:  balance.Request{Action: balance.ActionQueueBuilding, EmpireResources: 1000},
		Points:   5,
	}, op, "queue_building")

	if appErr == nil || appErr.Kind != apperr.KindInsufficientPoints {
		t.Fatalf("expected InsufficientActionPoints, got %+v", appErr)
	}
	if len(l.Reservations) != 0 {
		t.Fatalf("expected no lingering reservation after a failed reserve")
	}
}

func TestDispatch_ReleasesReservationOnOpFailure(t *testing.T) {
	playerID := bson.NewObjectID()
	l := ledger.New(playerID, 1, 10, time.Now())
	opErr := apperr.Conflict("fleet already in combat")
	op := func(ctx context.Context) (any, error) { return nil, opErr }

	_, appErr := Dispatch(context.Background(), testDeps(l), Request{
		PlayerID: playerID,
		Balance:  balance.Request{Action: balance.ActionQueueBuilding, EmpireResources: 1000},
		Points:   3,
	}, op, "queue_building")

	if appErr != opErr {
		t.Fatalf("expected the domain op's error to propagate unchanged, got %+v", appErr)
	}
	if len(l.Reservations) != 0 {
		t.Fatalf("expected the reservation to be released after op failure")
	}
	if l.PointsUsed != 0 {
		t.Fatalf("expected no points committed after op failure, got %d", l.PointsUsed)
	}
}

func TestDispatch_CommitsOnSuccess(t *testing.T) {
	playerID := bson.NewObjectID()
	l := ledger.New(playerID, 1, 10, time.Now())
	op := func(ctx context.Context) (any, error) { return "ok", nil }

	result, appErr := Dispatch(context.Background(), testDeps(l), Request{
		PlayerID: playerID,
		Balance:  balance.Request{Action: balance.ActionQueueBuilding, EmpireResources: 1000},
		Points:   3,
	}, op, "queue_building")

	if appErr != nil {
		t.Fatalf("expected success, got %+v", appErr)
	}
	if result != "ok" {
		t.Fatalf("expected op result to propagate, got %v", result)
	}
	if l.PointsUsed != 3 {
		t.Fatalf("expected 3 points committed, got %d", l.PointsUsed)
	}
}
