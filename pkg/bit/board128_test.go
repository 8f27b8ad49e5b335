package bit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskSetClear(t *testing.T) {
	for _, sq := range []int{0, 1, 63, 64, 65, 80} {
		b := Mask(sq)
		require.True(t, b.IsSet(sq))
		require.Equal(t, 1, b.PopCount())

		c := b.Clear(sq)
		require.True(t, c.IsZero())
	}
}

func TestPopCountAcrossWords(t *testing.T) {
	b := Mask(10).Or(Mask(70)).Or(Mask(80))
	assert.Equal(t, 3, b.PopCount())
}

func TestBitScanForwardAndReverse(t *testing.T) {
	b := Mask(5).Or(Mask(77))
	assert.Equal(t, 5, b.BitScanForward())
	assert.Equal(t, 77, b.BitScanReverse())

	assert.Equal(t, NumSquares, Empty.BitScanForward())
	assert.Equal(t, -1, Empty.BitScanReverse())
}

func TestClearLSBIteratesAllSquares(t *testing.T) {
	b := Mask(0).Or(Mask(40)).Or(Mask(80))
	var got []int
	for t2 := b; !t2.IsZero(); t2 = t2.ClearLSB() {
		got = append(got, t2.BitScanForward())
	}
	assert.Equal(t, []int{0, 40, 80}, got)
}

func TestSubsetsEnumeratesAllCombinations(t *testing.T) {
	mask := Mask(1).Or(Mask(64)).Or(Mask(80))
	seen := map[Board128]bool{}
	mask.Subsets(func(sub Board128) {
		seen[sub] = true
		require.Equal(t, sub, sub.And(mask))
	})
	assert.Len(t, seen, 1<<mask.PopCount())
	assert.True(t, seen[Empty])
	assert.True(t, seen[mask])
}

func TestHiWordNeverLeaksAboveSquare80(t *testing.T) {
	b := Full
	assert.Equal(t, NumSquares, b.PopCount())
	assert.Equal(t, uint64(0), b.Hi&^hiMask)
}

func TestPopcountSWARMatchesHardware(t *testing.T) {
	for _, x := range []uint64{0, 1, 0xffffffffffffffff, 0x0123456789abcdef} {
		assert.Equal(t, popcountImpl(x), popcountSWAR(x))
	}
}
