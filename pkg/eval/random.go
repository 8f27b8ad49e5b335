package eval

import (
	"context"
	"math/rand"

	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/shogi"
)

// Random adds a small amount of noise to evaluations, useful for breaking
// ties deterministically-but-unpredictably across otherwise-equal moves.
// limit bounds the noise to [-limit/2, limit/2] centipawns; the zero value
// always returns zero.
type Random struct {
	rand  *rand.Rand
	limit int
}

// NewRandom creates a Random noise generator bounded by limit, seeded for
// reproducible runs.
func NewRandom(limit int, seed int64) Random {
	return Random{
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

// Evaluate returns a random score in [-limit/2, limit/2], or zero if
// unconfigured.
func (n Random) Evaluate(_ context.Context, _ *board.Board, _ shogi.Side, _ *shogi.Hands) Score {
	if n.limit <= 0 || n.rand == nil {
		return 0
	}
	return Score(n.rand.Intn(n.limit) - n.limit/2)
}

var _ Evaluator = Random{}

// randomized combines a base evaluator with noise.
type randomized struct {
	base  Evaluator
	noise Random
}

// Randomize wraps base with a bounded amount of random noise, seeded by
// seed. A limit of zero leaves base unchanged.
func Randomize(base Evaluator, limit int, seed int64) Evaluator {
	return randomized{base: base, noise: NewRandom(limit, seed)}
}

func (r randomized) Evaluate(ctx context.Context, b *board.Board, side shogi.Side, hands *shogi.Hands) Score {
	return Crop(r.base.Evaluate(ctx, b, side, hands) + r.noise.Evaluate(ctx, b, side, hands))
}

var _ Evaluator = randomized{}
