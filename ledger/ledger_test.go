package ledger

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestReserve_FailsWhenInsufficientPoints(t *testing.T) {
	now := time.Now()
	l := New(bson.NewObjectID(), 7, 10, now)
	l.PointsUsed = 8

	_, err := l.Reserve(3, false, now)
	if err == nil {
		t.Fatalf("expected insufficient action points error")
	}
	ipErr, ok := err.(*ErrInsufficientActionPoints)
	if !ok {
		t.Fatalf("expected *ErrInsufficientActionPoints, got %T", err)
	}
	if ipErr.Required != 3 || ipErr.Available != 2 {
		t.Fatalf("expected required=3 available=2, got required=%d available=%d", ipErr.Required, ipErr.Available)
	}
	if len(l.Reservations) != 0 {
		t.Fatalf("expected no reservation mutation on failure")
	}
}

func TestReserveCommit_MovesPointsFromReservedToUsed(t *testing.T) {
	now := time.Now()
	l := New(bson.NewObjectID(), 1, 10, now)

	id, err := l.Reserve(3, false, now)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if l.Available(now) != 7 {
		t.Fatalf("expected 7 available points after a 3-point reservation, got %d", l.Available(now))
	}

	entry, err := l.Commit(id, "queue_building", now)
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if entry.Points != 3 {
		t.Fatalf("expected logged points of 3, got %d", entry.Points)
	}
	if l.PointsUsed != 3 {
		t.Fatalf("expected points_used=3, got %d", l.PointsUsed)
	}
	if len(l.Reservations) != 0 {
		t.Fatalf("expected reservation removed after commit")
	}
}

func TestReserveRelease_RestoresAvailableExactly(t *testing.T) {
	now := time.Now()
	l := New(bson.NewObjectID(), 1, 10, now)
	before := l.Available(now)

	id, err := l.Reserve(4, false, now)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	l.Release(id)

	if l.Available(now) != before {
		t.Fatalf("expected release to restore available points exactly: before=%d after=%d", before, l.Available(now))
	}
	if l.PointsUsed != 0 {
		t.Fatalf("expected points_used untouched by release, got %d", l.PointsUsed)
	}
}

func TestSweep_FreesExpiredReservations(t *testing.T) {
	now := time.Now()
	l := New(bson.NewObjectID(), 1, 10, now)
	id, _ := l.Reserve(3, false, now)

	freed := l.Sweep(now.Add(ReservationTTL + time.Second))
	if freed != 1 {
		t.Fatalf("expected 1 reservation freed, got %d", freed)
	}
	if _, ok := l.Reservations[id]; ok {
		t.Fatalf("expected expired reservation removed")
	}
}

func TestCommit_FailsOnExpiredReservation(t *testing.T) {
	now := time.Now()
	l := New(bson.NewObjectID(), 1, 10, now)
	id, _ := l.Reserve(3, false, now)

	_, err := l.Commit(id, "queue_building", now.Add(ReservationTTL+time.Second))
	if err != ErrReservationExpired {
		t.Fatalf("expected ErrReservationExpired, got %v", err)
	}
}

func TestReserve_EmergencyMultipliesRequiredPoints(t *testing.T) {
	now := time.Now()
	l := New(bson.NewObjectID(), 1, 10, now)
	_, err := l.Reserve(6, true, now)
	if err == nil {
		t.Fatalf("expected emergency 2x multiplier (12 points) to exceed the 10-point budget")
	}
}
