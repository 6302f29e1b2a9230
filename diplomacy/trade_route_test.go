package diplomacy

import (
	"testing"

	"github.com/stellarforge/empirecore/players"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestSettle_SkipsOnInsufficientFunds(t *testing.T) {
	route := &TradeRoute{
		ID:           bson.NewObjectID(),
		Empire1:      bson.NewObjectID(),
		Empire2:      bson.NewObjectID(),
		Empire1Gives: map[players.Resource]int64{players.Metal: 100},
		Empire2Gives: map[players.Resource]int64{players.Energy: 50},
		Maintenance:  map[players.Resource]int64{},
	}
	e1 := map[players.Resource]int64{players.Metal: 50}
	e2 := map[players.Resource]int64{players.Energy: 1000}

	breach := Settle(route, e1, e2)
	if breach == nil {
		t.Fatalf("expected a breach when empire1 cannot afford its outbound flow")
	}
	if breach.FaultEmpire != route.Empire1 {
		t.Fatalf("expected empire1 to be at fault, got %v", breach.FaultEmpire)
	}
	if e1[players.Metal] != 50 {
		t.Fatalf("expected no mutation on a skipped settlement, got %d", e1[players.Metal])
	}
	if e2[players.Energy] != 1000 {
		t.Fatalf("expected empire2 resources untouched on a skipped settlement, got %d", e2[players.Energy])
	}
}

func TestSettle_ExchangesResourcesOnSuccess(t *testing.T) {
	route := &TradeRoute{
		Empire1:      bson.NewObjectID(),
		Empire2:      bson.NewObjectID(),
		Empire1Gives: map[players.Resource]int64{players.Metal: 100},
		Empire2Gives: map[players.Resource]int64{players.Energy: 50},
		Maintenance:  map[players.Resource]int64{players.Food: 5},
	}
	e1 := map[players.Resource]int64{players.Metal: 200, players.Food: 10}
	e2 := map[players.Resource]int64{players.Energy: 200, players.Food: 10}

	if breach := Settle(route, e1, e2); breach != nil {
		t.Fatalf("expected no breach, got %+v", breach)
	}
	if e1[players.Metal] != 100 || e1[players.Energy] != 50 || e1[players.Food] != 5 {
		t.Fatalf("unexpected empire1 resources after settlement: %+v", e1)
	}
	if e2[players.Energy] != 150 || e2[players.Metal] != 100 || e2[players.Food] != 5 {
		t.Fatalf("unexpected empire2 resources after settlement: %+v", e2)
	}
}
