package shogi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquareRoundTrip(t *testing.T) {
	for _, s := range []string{"7g", "5e", "1a", "9i"} {
		sq, err := ParseSquareStr(s)
		require.NoError(t, err)
		assert.Equal(t, s, sq.String())
	}
}

func TestPromoteDemoteRoundTrip(t *testing.T) {
	for _, pt := range []PieceType{Pawn, Lance, Knight, Silver, Bishop, Rook} {
		assert.True(t, pt.IsPromotable())
		assert.Equal(t, pt, pt.Promote().Demote())
		assert.True(t, pt.Promote().IsPromoted())
	}
	assert.False(t, Gold.IsPromotable())
	assert.False(t, King.IsPromotable())
}

func TestHandsAddRemove(t *testing.T) {
	var h Hands
	h.Add(Black, PromotedRook) // captured piece demotes into hand
	assert.Equal(t, uint8(1), h.Count(Black, Rook))

	h.Remove(Black, Rook)
	assert.True(t, h.IsEmpty(Black))
}

func TestHandsRemoveEmptyPanics(t *testing.T) {
	var h Hands
	assert.Panics(t, func() { h.Remove(White, Pawn) })
}

func TestParseMoveDropAndPromote(t *testing.T) {
	m, err := ParseMove("P*5e")
	require.NoError(t, err)
	assert.True(t, m.IsDrop)
	assert.Equal(t, Pawn, m.Piece)

	m2, err := ParseMove("7g7f+")
	require.NoError(t, err)
	assert.True(t, m2.Promote)
	assert.False(t, m2.IsDrop)
}
