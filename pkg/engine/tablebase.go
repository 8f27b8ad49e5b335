package engine

import (
	"context"
	"fmt"

	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/eval"
	"github.com/herohde/shogo/pkg/search"
	"github.com/herohde/shogo/pkg/shogi"
	"github.com/seekerror/stdlib/pkg/lang"
)

// TablebaseOutcome is the side-to-move's result in a tablebase-solved
// position.
type TablebaseOutcome int

const (
	// TablebaseUnknown means the position is outside the tablebase's
	// coverage; the engine falls back to search.
	TablebaseUnknown TablebaseOutcome = iota
	TablebaseWin
	TablebaseLoss
	TablebaseDraw
)

func (o TablebaseOutcome) String() string {
	switch o {
	case TablebaseWin:
		return "win"
	case TablebaseLoss:
		return "loss"
	case TablebaseDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// TablebaseResult is the outcome of a tablebase probe, mirroring spec §6.3's
// probe contract: Option<{outcome, best_move?, dtm?}>.
type TablebaseResult struct {
	Outcome  TablebaseOutcome
	BestMove lang.Optional[shogi.Move]
	DTM      lang.Optional[int] // distance to mate/loss/draw, in plies
}

func (r TablebaseResult) String() string {
	if m, ok := r.BestMove.V(); ok {
		return fmt.Sprintf("{%v, move=%v, dtm=%v}", r.Outcome, m, r.DTM)
	}
	return fmt.Sprintf("{%v, dtm=%v}", r.Outcome, r.DTM)
}

// Tablebase is the micro-tablebase collaborator interface (spec §6.3): when
// it resolves a position, the engine returns the tablebase's verdict
// immediately instead of recursing into search.
type Tablebase interface {
	// Probe returns the tablebase's verdict for the given position, if it
	// covers it. A false second return means the position is unresolved
	// and the engine should fall back to search.
	Probe(ctx context.Context, b *board.Board, side shogi.Side, hands *shogi.Hands) (TablebaseResult, bool)
}

// tablebasePV converts a resolved TablebaseResult into the PV shape Analyze
// returns, encoding Win/Loss as a mate score at the reported distance (or
// Mate/MateThreshold+1 as a conservative bound when dtm is unknown).
func tablebasePV(res TablebaseResult) search.PV {
	var moves []shogi.Move
	if m, ok := res.BestMove.V(); ok {
		moves = []shogi.Move{m}
	}

	dtm, hasDTM := res.DTM.V()
	if !hasDTM {
		dtm = int(eval.Mate - eval.MateThreshold - 1)
	}

	var score eval.Score
	switch res.Outcome {
	case TablebaseWin:
		score = eval.Mate - eval.Score(dtm)
	case TablebaseLoss:
		score = -eval.Mate + eval.Score(dtm)
	default:
		score = 0
	}

	return search.PV{Depth: 0, Moves: moves, Score: score}
}
