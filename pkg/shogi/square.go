// Package shogi holds the core data model: squares, pieces, sides, hands
// and moves for the 9x9 board.
package shogi

import "fmt"

// Square is a square on the 9x9 board, files 9..1 (big-endian, as in
// standard shogi notation) by ranks 1..9, encoded 0..80 with rank-major
// file-minor layout ((rank-1)*9 + file-1) matching the bit layout used by pkg/board/magic.
type Square uint8

const (
	ZeroSquare Square = 0
	NumSquares Square = 81
)

// NewSquare builds a Square from a 1-indexed file (1..9, counted from the
// right as in shogi notation) and rank (1..9).
func NewSquare(file, rank int) Square {
	return Square((rank-1)*9 + (file - 1))
}

func (s Square) File() int { return int(s%9) + 1 }
func (s Square) Rank() int { return int(s/9) + 1 }

func (s Square) IsValid() bool { return s < NumSquares }

// ParseSquareStr parses shogi coordinate notation such as "7g" or "5e",
// file digit 1-9 followed by rank letter a-i (a=rank1 .. i=rank9, the
// USI convention).
func ParseSquareStr(str string) (Square, error) {
	runes := []rune(str)
	if len(runes) != 2 {
		return 0, fmt.Errorf("invalid square: %q", str)
	}
	file := int(runes[0] - '0')
	if file < 1 || file > 9 {
		return 0, fmt.Errorf("invalid file in square: %q", str)
	}
	rank := int(runes[1]-'a') + 1
	if rank < 1 || rank > 9 {
		return 0, fmt.Errorf("invalid rank in square: %q", str)
	}
	return NewSquare(file, rank), nil
}

func (s Square) String() string {
	return fmt.Sprintf("%d%c", s.File(), 'a'+s.Rank()-1)
}
