package magic

import (
	"context"

	"github.com/seekerror/logw"
)

// Rook, Bishop are the package-level magic tables built once at process
// start, mirroring the teacher's approach of precomputing attack tables
// in init() rather than lazily. The fixed seeds make the generated tables
// deterministic across runs and platforms.
var (
	Rook   = Build(RookDeltas, 0x526f6f6b)
	Bishop = Build(BishopDeltas, 0x42697368)

	// Lance has one table per side, since its single ray direction is
	// side-dependent.
	Lance = [2]*Table{
		Build(LanceDeltas[0], 0x4c616e6365424c4b),
		Build(LanceDeltas[1], 0x4c616e636557484d),
	}
)

func init() {
	ctx := context.Background()
	logw.Debugf(ctx, "Magic tables built: rook=%x bishop=%x lance[b]=%x lance[w]=%x",
		Rook.Fingerprint(), Bishop.Fingerprint(), Lance[0].Fingerprint(), Lance[1].Fingerprint())
}
