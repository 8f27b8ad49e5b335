package shogi

import "fmt"

// Move represents a not-necessarily-legal board move or drop, along with
// contextual metadata used by search and move ordering.
//
// A drop has IsDrop set and From left at its zero value; the dropped piece
// type is carried in Piece rather than encoded in Promote, since drops never
// promote on the same ply they land.
type Move struct {
	IsDrop   bool
	Piece    PieceType // piece being dropped, for drop moves
	From, To Square
	Promote  bool  // whether a board move promotes on arrival
	Capture  Piece // captured piece, if any (NoPiece otherwise)
	Score    int32 // move-ordering score, not part of move identity
}

// Equals compares moves ignoring the ordering Score.
func (m Move) Equals(o Move) bool {
	if m.IsDrop != o.IsDrop {
		return false
	}
	if m.IsDrop {
		return m.Piece == o.Piece && m.To == o.To
	}
	return m.From == o.From && m.To == o.To && m.Promote == o.Promote
}

// ParseMove parses USI-style move notation: "7g7f" for a board move,
// "7g7f+" for a promoting move, or "P*5e" for a drop.
func ParseMove(str string) (Move, error) {
	runes := []rune(str)
	if len(runes) >= 4 && runes[1] == '*' {
		pt, ok := parsePieceLetter(runes[0])
		if !ok {
			return Move{}, fmt.Errorf("invalid drop piece: %q", str)
		}
		to, err := ParseSquareStr(string(runes[2:4]))
		if err != nil {
			return Move{}, fmt.Errorf("invalid drop square: %q: %w", str, err)
		}
		return Move{IsDrop: true, Piece: pt, To: to}, nil
	}

	if len(runes) < 4 || len(runes) > 5 {
		return Move{}, fmt.Errorf("invalid move: %q", str)
	}
	from, err := ParseSquareStr(string(runes[0:2]))
	if err != nil {
		return Move{}, fmt.Errorf("invalid from: %q: %w", str, err)
	}
	to, err := ParseSquareStr(string(runes[2:4]))
	if err != nil {
		return Move{}, fmt.Errorf("invalid to: %q: %w", str, err)
	}
	promote := false
	if len(runes) == 5 {
		if runes[4] != '+' {
			return Move{}, fmt.Errorf("invalid move suffix: %q", str)
		}
		promote = true
	}
	return Move{From: from, To: to, Promote: promote}, nil
}

func parsePieceLetter(r rune) (PieceType, bool) {
	switch r {
	case 'P':
		return Pawn, true
	case 'L':
		return Lance, true
	case 'N':
		return Knight, true
	case 'S':
		return Silver, true
	case 'G':
		return Gold, true
	case 'B':
		return Bishop, true
	case 'R':
		return Rook, true
	default:
		return NoPieceType, false
	}
}

func (m Move) String() string {
	if m.IsDrop {
		return fmt.Sprintf("%v*%v", m.Piece, m.To)
	}
	if m.Promote {
		return fmt.Sprintf("%v%v+", m.From, m.To)
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}
