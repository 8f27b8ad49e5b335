package bit

import (
	"math/bits"

	"golang.org/x/sys/cpu"
)

// popcountImpl is chosen once at init time between the hardware-backed
// math/bits implementation and the portable SWAR fallback, per the "one
// runtime-selected implementation, never re-dispatched per call site" design
// note: a per-call feature check would cost more than the branch it avoids.
var popcountImpl = func(x uint64) int { return bits.OnesCount64(x) }

func init() {
	if !hasHardwarePopcount() {
		popcountImpl = popcountSWAR
	}
}

// hasHardwarePopcount reports whether the running CPU exposes a POPCNT
// instruction math/bits.OnesCount64 can compile down to. On architectures
// golang.org/x/sys/cpu doesn't probe for POPCNT (anything but amd64/arm64),
// we conservatively assume the portable SWAR path.
func hasHardwarePopcount() bool {
	switch {
	case cpu.X86.HasPOPCNT:
		return true
	case cpu.ARM64.HasATOMICS:
		// arm64 baseline (ARMv8) always has the VCNT family of instructions
		// math/bits lowers population count to; ATOMICS is just a convenient
		// always-true ARMv8 feature flag to branch on without a version probe.
		return true
	default:
		return false
	}
}

// popcountSWAR is a portable bit-twiddling popcount used on platforms where
// math/bits isn't backed by a hardware POPCNT instruction. Selected once
// in init, never re-dispatched per call.
func popcountSWAR(x uint64) int {
	const (
		m1 = 0x5555555555555555
		m2 = 0x3333333333333333
		m4 = 0x0f0f0f0f0f0f0f0f
		h1 = 0x0101010101010101
	)
	x -= (x >> 1) & m1
	x = (x & m2) + ((x >> 2) & m2)
	x = (x + (x >> 4)) & m4
	return int((x * h1) >> 56)
}
