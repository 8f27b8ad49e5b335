package board

import "github.com/herohde/shogo/pkg/shogi"

// Outcome is the terminal classification of a finished game.
type Outcome uint8

const (
	Undecided Outcome = iota
	WhiteWins
	BlackWins
	Draw
)

// Reason explains why a game ended, for display/logging.
type Reason uint8

const (
	NoReason Reason = iota
	Checkmate
	NoLegalMove // shogi has no stalemate: no legal move is a loss for the side to move
	Sennichite  // four-fold repetition of position+hands+side-to-move
	PerpetualCheck
	Resignation
	Impasse // entering-kings (jishogi) declaration, scored by point count
)

// Result is the outcome of a game, if decided.
type Result struct {
	Outcome Outcome
	Reason  Reason
}

// Loss returns the Outcome corresponding to side losing.
func Loss(side shogi.Side) Outcome {
	if side == shogi.Black {
		return WhiteWins
	}
	return BlackWins
}

func (r Result) String() string {
	switch r.Outcome {
	case Undecided:
		return "*"
	case Draw:
		return "1/2-1/2"
	case BlackWins:
		return "1-0"
	case WhiteWins:
		return "0-1"
	default:
		return "?"
	}
}
