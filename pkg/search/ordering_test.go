package search_test

import (
	"testing"

	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/search"
	"github.com/herohde/shogo/pkg/shogi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveListOrdersByPriorityHighestFirst(t *testing.T) {
	a := shogi.Move{From: 0, To: 1}
	b := shogi.Move{From: 2, To: 3}
	c := shogi.Move{From: 4, To: 5}

	priority := map[shogi.Move]search.Priority{a: 1, b: 10, c: 5}
	ml := search.NewMoveList([]shogi.Move{a, b, c}, func(m shogi.Move) search.Priority { return priority[m] })

	var order []shogi.Move
	for {
		m, ok := ml.Next()
		if !ok {
			break
		}
		order = append(order, m)
	}
	assert.Equal(t, []shogi.Move{b, c, a}, order)
}

func TestFirstPromotesPreferredMoveAboveEverything(t *testing.T) {
	preferred := shogi.Move{From: 9, To: 10}
	other := shogi.Move{From: 1, To: 2}

	base := func(m shogi.Move) search.Priority { return 500 }
	fn := search.First(preferred, base)

	assert.Greater(t, fn(preferred), fn(other))
}

func TestMVVLVARanksByVictimThenAttacker(t *testing.T) {
	rookFrom := shogi.NewSquare(5, 5)
	bishopFrom := shogi.NewSquare(1, 5)
	to := shogi.NewSquare(5, 3)

	placements := []board.Placement{
		{Square: shogi.NewSquare(5, 9), Piece: shogi.Piece{Type: shogi.King, Side: shogi.Black}},
		{Square: shogi.NewSquare(5, 1), Piece: shogi.Piece{Type: shogi.King, Side: shogi.White}},
		{Square: rookFrom, Piece: shogi.Piece{Type: shogi.Rook, Side: shogi.Black}},
		{Square: bishopFrom, Piece: shogi.Piece{Type: shogi.Bishop, Side: shogi.Black}},
	}
	pos, err := board.NewPosition(placements, shogi.Hands{})
	require.NoError(t, err)

	mvvlva := search.MVVLVA(pos)

	rookCapturesRook := shogi.Move{From: rookFrom, To: to, Capture: shogi.Piece{Type: shogi.Rook, Side: shogi.White}}
	rookCapturesPawn := shogi.Move{From: rookFrom, To: to, Capture: shogi.Piece{Type: shogi.Pawn, Side: shogi.White}}
	bishopCapturesRook := shogi.Move{From: bishopFrom, To: to, Capture: shogi.Piece{Type: shogi.Rook, Side: shogi.White}}

	assert.Greater(t, mvvlva(rookCapturesRook), mvvlva(rookCapturesPawn), "bigger victim ranks higher")
	assert.Greater(t, mvvlva(bishopCapturesRook), mvvlva(rookCapturesRook), "same victim, cheaper attacker ranks higher")
}
