package fen

import (
	"testing"

	"github.com/herohde/shogo/pkg/shogi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInitial(t *testing.T) {
	placements, turn, hands, moveNum, err := Decode(Initial)
	require.NoError(t, err)
	assert.Equal(t, shogi.Black, turn)
	assert.Equal(t, 1, moveNum)
	assert.True(t, hands.IsEmpty(shogi.Black))
	assert.True(t, hands.IsEmpty(shogi.White))
	assert.Len(t, placements, 40)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	placements, turn, hands, moveNum, err := Decode(Initial)
	require.NoError(t, err)

	out := Encode(placements, turn, hands, moveNum)
	assert.Equal(t, Initial, out)
}

func TestDecodeWithHandsInHand(t *testing.T) {
	sfen := "9/9/9/9/4k4/9/9/9/4K4 b 2P1r 5"
	_, _, hands, moveNum, err := Decode(sfen)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), hands.Count(shogi.Black, shogi.Pawn))
	assert.Equal(t, uint8(1), hands.Count(shogi.White, shogi.Rook))
	assert.Equal(t, 5, moveNum)
}

func TestDecodeRejectsWrongFieldCount(t *testing.T) {
	_, _, _, _, err := Decode("lnsgkgsnl/9/9/9/9/9/9/9/LNSGKGSNL b -")
	assert.Error(t, err)
}
