// Package magic generates sliding-piece attack tables for the 9x9 board
// using magic bitboard perfect hashing, plus the stepping-piece attack
// tables (king, gold, silver, knight, pawn) needed alongside them.
//
// The search technique (mask-the-border, Carry-Rippler subset enumeration,
// random-magic trial with collision verification) mirrors the classic
// magic bitboard construction. Because a square's relevant occupancy can
// span both words of a bit.Board128, the hash folds the two words through
// two independent multiplies summed together before the final shift,
// rather than the single 64-bit multiply a one-word board allows.
package magic

import (
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/cespare/xxhash/v2"
	"github.com/herohde/shogo/pkg/bit"
)

// Delta is a (rank, file) step.
type Delta struct{ DR, DF int }

var (
	RookDeltas   = []Delta{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	BishopDeltas = []Delta{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
)

func sq(r, f int) int { return r*9 + f }

func inBounds(r, f int) bool { return r >= 0 && r < 9 && f >= 0 && f < 9 }

// slidingAttack rays out from sq in the given deltas over the board,
// stopping at (and including) the first occupied square in each
// direction.
func slidingAttack(s int, deltas []Delta, occ bit.Board128) bit.Board128 {
	r0, f0 := s/9, s%9
	out := bit.Empty
	for _, d := range deltas {
		r, f := r0, f0
		for {
			r, f = r+d.DR, f+d.DF
			if !inBounds(r, f) {
				break
			}
			t := sq(r, f)
			out = out.Set(t)
			if occ.IsSet(t) {
				break
			}
		}
	}
	return out
}

// relevanceMask is the attack set on an empty board with the board-edge
// squares stripped (edge squares never affect blocking, since a slide
// into the edge is terminal regardless of what's there).
func relevanceMask(s int, deltas []Delta) bit.Board128 {
	full := slidingAttack(s, deltas, bit.Empty)
	r0, f0 := s/9, s%9
	masked := bit.Empty
	for _, t := range full.Squares() {
		r, f := t/9, t%9
		if r0 != r && (r == 0 || r == 8) {
			continue
		}
		if f0 != f && (f == 0 || f == 8) {
			continue
		}
		masked = masked.Set(t)
	}
	return masked
}

// Table is a perfect-hash attack table for one sliding piece kind.
type Table struct {
	Deltas  []Delta
	Entries [81]Entry
}

// Entry is the per-square magic hash parameters and attack store.
type Entry struct {
	Mask           bit.Board128
	MagicLo, MagicHi uint64
	Shift            uint
	Store            []bit.Board128
}

func (e *Entry) index(occ bit.Board128) uint32 {
	masked := occ.And(e.Mask)
	h := masked.Lo*e.MagicLo + masked.Hi*e.MagicHi
	return uint32(h >> e.Shift)
}

// Attacks returns the slider's attack set from square s given occupancy occ.
func (e *Entry) Attacks(occ bit.Board128) bit.Board128 {
	return e.Store[e.index(occ)]
}

// Build constructs the perfect-hash table for the given deltas by random
// magic search, deterministic given seed so builds are reproducible.
func Build(deltas []Delta, seed int64) *Table {
	t := &Table{Deltas: deltas}
	rnd := rand.New(rand.NewSource(seed))

	for s := 0; s < 81; s++ {
		mask := relevanceMask(s, deltas)
		bits := mask.PopCount()
		shift := uint(64 - bits)

		var refs, occs []bit.Board128
		mask.Subsets(func(sub bit.Board128) {
			refs = append(refs, sub)
			occs = append(occs, slidingAttack(s, deltas, sub))
		})

		e := &Entry{Mask: mask, Shift: shift}
		store := make([]bit.Board128, 1<<bits)
		for {
			magicLo := randMagic(rnd)
			magicHi := randMagic(rnd)
			for i := range store {
				store[i] = bit.Empty
			}

			ok := true
			for i, ref := range refs {
				h := uint32((ref.Lo*magicLo + ref.Hi*magicHi) >> shift)
				if !store[h].IsZero() && store[h] != occs[i] {
					ok = false
					break
				}
				store[h] = occs[i]
			}
			if ok {
				e.MagicLo, e.MagicHi = magicLo, magicHi
				e.Store = append([]bit.Board128(nil), store...)
				break
			}
		}
		t.Entries[s] = *e
	}
	return t
}

func randMagic(rnd *rand.Rand) uint64 {
	return rnd.Uint64() & rnd.Uint64() & rnd.Uint64()
}

// Attacks returns the attack set for the slider rooted at s given occupancy.
func (t *Table) Attacks(s int, occ bit.Board128) bit.Board128 {
	return t.Entries[s].Attacks(occ)
}

// RaycastAttacks recomputes the attack set by direct ray walking, ignoring
// the magic table entirely. Used to cross-check Attacks in tests.
func RaycastAttacks(s int, deltas []Delta, occ bit.Board128) bit.Board128 {
	return slidingAttack(s, deltas, occ)
}

// Fingerprint returns an xxhash digest over every entry's mask and magic
// numbers, a cheap way to tell two tables (or a table before/after a
// persist.SaveTable/LoadTable round trip) apart without comparing every
// attack store entry by entry. Logged as a one-line search diagnostic when
// the package-level tables are built.
func (t *Table) Fingerprint() uint64 {
	var buf [24]byte
	h := xxhash.New()
	for i := range t.Entries {
		e := &t.Entries[i]
		binary.LittleEndian.PutUint64(buf[0:8], e.Mask.Lo)
		binary.LittleEndian.PutUint64(buf[8:16], e.Mask.Hi)
		binary.LittleEndian.PutUint64(buf[16:24], e.MagicLo^e.MagicHi)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

func init() {
	if sq(0, 0) != 0 || sq(8, 8) != 80 {
		panic(fmt.Sprintf("magic: square indexing invariant broken"))
	}
}
