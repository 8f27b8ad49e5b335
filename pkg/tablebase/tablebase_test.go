package tablebase_test

import (
	"context"
	"testing"

	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/engine"
	"github.com/herohde/shogo/pkg/shogi"
	sfen "github.com/herohde/shogo/pkg/shogi/fen"
	"github.com/herohde/shogo/pkg/tablebase"
	"github.com/seekerror/stdlib/pkg/lang"
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

func TestProbeMiss(t *testing.T) {
	ctx := context.Background()

	db, err := tablebase.Open(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	b := newInitialBoard(t)
	hands := b.Position().Hands()

	_, ok := db.Probe(ctx, b, b.Turn(), &hands)
	assert.False(t, ok)
}

func TestPutThenProbe(t *testing.T) {
	ctx := context.Background()

	db, err := tablebase.Open(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	b := newInitialBoard(t)
	move, err := shogi.ParseMove("7g7f")
	require.NoError(t, err)

	want := engine.TablebaseResult{
		Outcome:  engine.TablebaseWin,
		BestMove: lang.Some(move),
		DTM:      lang.Some(3),
	}
	require.NoError(t, db.Put(b, want))

	hands := b.Position().Hands()
	got, ok := db.Probe(ctx, b, b.Turn(), &hands)
	require.True(t, ok)
	assert.Equal(t, engine.TablebaseWin, got.Outcome)

	m, ok := got.BestMove.V()
	require.True(t, ok)
	assert.Equal(t, move, m)

	dtm, ok := got.DTM.V()
	require.True(t, ok)
	assert.Equal(t, 3, dtm)
}

func TestDBAsEngineTablebase(t *testing.T) {
	db, err := tablebase.Open(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	var _ engine.Tablebase = db
}
