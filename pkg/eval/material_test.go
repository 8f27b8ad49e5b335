package eval_test

import (
	"context"
	"testing"

	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/eval"
	"github.com/herohde/shogo/pkg/shogi"
	sfen "github.com/herohde/shogo/pkg/shogi/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInitialBoard(t *testing.T) *board.Board {
	t.Helper()
	placements, turn, hands, moveNum, err := sfen.Decode(sfen.Initial)
	require.NoError(t, err)

	var bp []board.Placement
	for _, pl := range placements {
		bp = append(bp, board.Placement{Square: pl.Square, Piece: pl.Piece})
	}
	pos, err := board.NewPosition(bp, hands)
	require.NoError(t, err)

	zt := board.NewTable(1)
	return board.NewBoard(zt, pos, turn, moveNum)
}

func TestTaperedMaterialInitialPositionIsBalanced(t *testing.T) {
	b := newInitialBoard(t)
	m := eval.TaperedMaterial{Values: eval.Classic}
	var hands shogi.Hands

	black := m.Evaluate(context.Background(), b, shogi.Black, &hands)
	white := m.Evaluate(context.Background(), b, shogi.White, &hands)

	assert.Equal(t, eval.Score(0), black)
	assert.Equal(t, eval.Score(0), white)
}

func TestTaperedMaterialRewardsHandAdvantage(t *testing.T) {
	b := newInitialBoard(t)
	m := eval.TaperedMaterial{Values: eval.Classic}

	var hands shogi.Hands
	hands.Add(shogi.Black, shogi.Rook)

	score := m.Evaluate(context.Background(), b, shogi.Black, &hands)
	assert.Greater(t, score, eval.Score(0))
}

func TestBuiltinValueSetsValidate(t *testing.T) {
	assert.NoError(t, eval.Classic.Validate())
	assert.NoError(t, eval.Research.Validate())
}

func TestMateDistanceRoundTrips(t *testing.T) {
	s := eval.Mate
	inc := eval.IncrementMateDistance(s)
	assert.Equal(t, s, eval.DecrementMateDistance(inc))
	assert.True(t, inc.IsMate())
	assert.False(t, eval.Score(500).IsMate())
}

func TestRandomizeIsDeterministicPerSeed(t *testing.T) {
	b := newInitialBoard(t)
	var hands shogi.Hands

	a := eval.Randomize(eval.TaperedMaterial{Values: eval.Classic}, 20, 7).
		Evaluate(context.Background(), b, shogi.Black, &hands)
	c := eval.Randomize(eval.TaperedMaterial{Values: eval.Classic}, 20, 7).
		Evaluate(context.Background(), b, shogi.Black, &hands)
	assert.Equal(t, a, c, "same seed should reproduce the same noise on first draw")
}

func TestLoadValueSetRejectsUnknownExtension(t *testing.T) {
	_, err := eval.LoadValueSet("values.yaml")
	assert.Error(t, err)
}
