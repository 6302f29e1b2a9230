// Package gateway implements the Action Gateway (§4.I): the single
// entrypoint every state-changing request passes through, orchestrating
// Balance.validate, Ledger.reserve/commit/release, and the domain
// operation's own transaction.
//
// Grounded on EverforgeWorks-Galaxies-Server's main.go/handlers.go request
// shape (decode -> lock -> mutate -> encode, SIGHUP/SIGINT lifecycle) and
// generalized per Design Notes §9 ("Global singletons... become
// process-wide state whose lifecycle is owned by the Action Gateway").
package gateway

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/stellarforge/empirecore/balance"
	"github.com/stellarforge/empirecore/internal/apperr"
	"github.com/stellarforge/empirecore/internal/idgen"
	"github.com/stellarforge/empirecore/ledger"
)

// DomainOp is one state-changing operation run inside a transaction once
// the gateway has reserved its action-point budget (§4.I step 4: "the
// domain op does its own SELECT FOR UPDATE where needed").
type DomainOp func(ctx context.Context) (any, error)

// Request bundles what Dispatch needs from the caller to run the five-step
// orchestration (§4.I).
type Request struct {
	PlayerID bson.ObjectID
	Balance  balance.Request
	Points   int
	Emergency bool
}

// Dependencies are the collaborators Dispatch pulls from for one call.
// LoadLedger/SaveLedger let the caller supply its own transaction-bound
// persistence without this package depending on a concrete store type.
type Dependencies struct {
	LoadLedger func(ctx context.Context, playerID bson.ObjectID) (*ledger.Ledger, error)
	SaveLedger func(ctx context.Context, l *ledger.Ledger) error
	Now        func() time.Time
}

// Dispatch runs the §4.I five-step orchestration:
//  1. resolve player -> empire is the caller's job before building Request;
//  2. Balance.validate — hard violations reject;
//  3. Ledger.reserve — failure rejects 429;
//  4. op runs inside its own transaction;
//  5. success commits the reservation, failure releases it and the error
//     propagates.
func Dispatch(ctx context.Context, deps Dependencies, req Request, op DomainOp, actionType string) (any, *apperr.Error) {
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	validation := balance.Validate(req.Balance)
	if !validation.Valid {
		return nil, apperr.Validation(violationMessages(validation))
	}

	l, err := deps.LoadLedger(ctx, req.PlayerID)
	if err != nil {
		return nil, apperr.Internal(idgen.CorrelationID(), err)
	}

	reservationID, rerr := l.Reserve(req.Points, req.Emergency, now)
	if rerr != nil {
		if ipErr, ok := rerr.(*ledger.ErrInsufficientActionPoints); ok {
			return nil, apperr.InsufficientActionPoints(ipErr.Required, ipErr.Available)
		}
		return nil, apperr.Internal(idgen.CorrelationID(), rerr)
	}
	if err := deps.SaveLedger(ctx, l); err != nil {
		return nil, apperr.Internal(idgen.CorrelationID(), err)
	}

	result, opErr := op(ctx)
	if opErr != nil {
		l.Release(reservationID)
		_ = deps.SaveLedger(ctx, l)
		if appErr, ok := opErr.(*apperr.Error); ok {
			return nil, appErr
		}
		return nil, apperr.Internal(idgen.CorrelationID(), opErr)
	}

	if _, cerr := l.Commit(reservationID, actionType, now); cerr != nil {
		return nil, apperr.Internal(idgen.CorrelationID(), cerr)
	}
	if err := deps.SaveLedger(ctx, l); err != nil {
		return nil, apperr.Internal(idgen.CorrelationID(), err)
	}

	return result, nil
}

func violationMessages(r balance.Result) string {
	if len(r.Violations) == 0 {
		return "validation failed"
	}
	msg := r.Violations[0].Code
	if r.Violations[0].Message != "" {
		msg = r.Violations[0].Message
	}
	return msg
}
