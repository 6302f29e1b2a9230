package territory

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stellarforge/empirecore/internal/storemem"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func fields(p *Planet) bson.M {
	return bson.M{"sector": p.Sector, "status": string(p.Status)}
}

func TestExploreSectorTx_GeneratesPlanetsOnce(t *testing.T) {
	repo := storemem.New[*Planet](fields)
	rng := rand.New(rand.NewSource(42))
	charges := 0
	debit := func(ctx context.Context) error { charges++; return nil }

	result, err := ExploreSectorTx(context.Background(), repo, "5,5", Scout, rng, 0, debit)
	if err != nil {
		t.Fatalf("first exploration failed: %v", err)
	}
	if !result.Generated {
		t.Fatalf("expected first call to generate planets")
	}
	if len(result.Planets) < 1 || len(result.Planets) > 3 {
		t.Fatalf("scout exploration should yield 1-3 planets, got %d", len(result.Planets))
	}
	if charges != 1 {
		t.Fatalf("expected exactly one debit call, got %d", charges)
	}
}

func TestExploreSectorTx_IdempotentOnSecondCall(t *testing.T) {
	repo := storemem.New[*Planet](fields)
	rng := rand.New(rand.NewSource(7))
	debit := func(ctx context.Context) error { return nil }

	first, err := ExploreSectorTx(context.Background(), repo, "5,5", Scout, rng, 0, debit)
	if err != nil {
		t.Fatalf("first exploration failed: %v", err)
	}

	charges := 0
	debit2 := func(ctx context.Context) error { charges++; return nil }
	second, err := ExploreSectorTx(context.Background(), repo, "5,5", Scout, rng, 0, debit2)
	if err != nil {
		t.Fatalf("second exploration failed: %v", err)
	}
	if second.Generated {
		t.Fatalf("expected second call to be idempotent replay, not a fresh generation")
	}
	if charges != 0 {
		t.Fatalf("expected no charge on idempotent replay")
	}
	if len(second.Planets) != len(first.Planets) {
		t.Fatalf("expected idempotent replay to return the same planet set, got %d vs %d", len(second.Planets), len(first.Planets))
	}
}
