package magic

import (
	"bytes"
	"testing"

	"github.com/herohde/shogo/pkg/bit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRookAttacksMatchRaycast(t *testing.T) {
	occ := bit.Mask(sq(4, 4)).Or(bit.Mask(sq(4, 7))).Or(bit.Mask(sq(1, 4)))
	for s := 0; s < 81; s++ {
		got := Rook.Attacks(s, occ)
		want := RaycastAttacks(s, RookDeltas, occ)
		assert.Equal(t, want, got, "square %d", s)
	}
}

func TestBishopAttacksMatchRaycast(t *testing.T) {
	occ := bit.Mask(sq(2, 2)).Or(bit.Mask(sq(6, 6)))
	for s := 0; s < 81; s++ {
		got := Bishop.Attacks(s, occ)
		want := RaycastAttacks(s, BishopDeltas, occ)
		assert.Equal(t, want, got, "square %d", s)
	}
}

func TestLanceAttacksMatchRaycast(t *testing.T) {
	occ := bit.Mask(sq(3, 5))
	for side := 0; side < 2; side++ {
		for s := 0; s < 81; s++ {
			got := Lance[side].Attacks(s, occ)
			want := RaycastAttacks(s, LanceDeltas[side], occ)
			assert.Equal(t, want, got)
		}
	}
}

func TestSaveLoadTableRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SaveTable(&buf, Bishop))

	loaded, err := LoadTable(&buf, BishopDeltas)
	require.NoError(t, err)

	occ := bit.Mask(sq(2, 2))
	for s := 0; s < 81; s++ {
		assert.Equal(t, Bishop.Attacks(s, occ), loaded.Attacks(s, occ))
	}
}

func TestLoadTableRejectsCorruptChecksum(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SaveTable(&buf, Bishop))
	corrupt := buf.Bytes()
	corrupt[10] ^= 0xff

	_, err := LoadTable(bytes.NewReader(corrupt), BishopDeltas)
	assert.Error(t, err)
}
