package board

import (
	"testing"

	"github.com/herohde/shogo/pkg/shogi"
	sfen "github.com/herohde/shogo/pkg/shogi/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePosition(t *testing.T, s string) (*Position, shogi.Side) {
	t.Helper()
	placements, turn, hands, _, err := sfen.Decode(s)
	require.NoError(t, err)

	var bp []Placement
	for _, pl := range placements {
		bp = append(bp, Placement{Square: pl.Square, Piece: pl.Piece})
	}
	pos, err := NewPosition(bp, hands)
	require.NoError(t, err)
	return pos, turn
}

func TestInitialPositionMoveCount(t *testing.T) {
	pos, turn := decodePosition(t, sfen.Initial)
	moves := pos.LegalMoves(turn)
	// The exact count is not checked here, only that it is nonzero and
	// that every listed move applies.
	assert.NotEmpty(t, moves)
	for _, m := range moves {
		_, ok := pos.Move(turn, m)
		assert.True(t, ok, "move %v should apply", m)
	}
}

func TestNifuForbidsSecondPawnOnFile(t *testing.T) {
	sfenStr := "9/9/9/9/4k4/4P4/9/9/4K4 b P 1"
	pos, turn := decodePosition(t, sfenStr)

	for _, m := range pos.PseudoLegalMoves(turn) {
		if m.IsDrop && m.Piece == shogi.Pawn {
			t.Fatalf("nifu: pawn drop on occupied file should be excluded: %v", m)
		}
	}
}

func TestForcedPromotionOnLastRank(t *testing.T) {
	sfenStr := "9/P8/9/9/4k4/9/9/9/4K4 b - 1"
	pos, turn := decodePosition(t, sfenStr)

	from, err := shogi.ParseSquareStr("9b")
	require.NoError(t, err)

	var sawPromote, sawNonPromote bool
	for _, m := range pos.PseudoLegalMoves(turn) {
		if m.IsDrop || m.From != from {
			continue
		}
		if m.Promote {
			sawPromote = true
		} else {
			sawNonPromote = true
		}
	}
	assert.True(t, sawPromote)
	assert.False(t, sawNonPromote, "pawn reaching the last rank must promote")
}

func TestCapturedPieceEntersCapturersHand(t *testing.T) {
	sfenStr := "9/9/4p4/4P4/4k4/9/9/9/4K4 b - 1"
	pos, turn := decodePosition(t, sfenStr)

	var captureMove shogi.Move
	found := false
	for _, m := range pos.PseudoLegalMoves(turn) {
		if m.Capture.IsValid() {
			captureMove = m
			found = true
			break
		}
	}
	require.True(t, found)

	next, ok := pos.Move(turn, captureMove)
	require.True(t, ok)
	assert.Equal(t, uint8(1), next.Hands().Count(turn, shogi.Pawn))
}
