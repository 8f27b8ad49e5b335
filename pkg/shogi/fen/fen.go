// Package fen reads and writes positions in SFEN notation, the shogi
// analogue of chess FEN: board placement, side to move, pieces in hand,
// and a move number.
package fen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/herohde/shogo/pkg/shogi"
)

// Initial is the SFEN for the standard shogi starting position.
const Initial = "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 1"

// Placement pairs a square with the piece occupying it.
type Placement struct {
	Square shogi.Square
	Piece  shogi.Piece
}

// Decode parses an SFEN record into piece placements, side to move, hands
// in hand, and the move number.
//
// Example: lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 1
func Decode(sfen string) ([]Placement, shogi.Side, shogi.Hands, int, error) {
	parts := strings.Fields(strings.TrimSpace(sfen))
	if len(parts) != 4 {
		return nil, 0, shogi.Hands{}, 0, fmt.Errorf("invalid number of fields in sfen: %q", sfen)
	}

	placements, err := decodeBoard(parts[0])
	if err != nil {
		return nil, 0, shogi.Hands{}, 0, fmt.Errorf("invalid board in sfen %q: %w", sfen, err)
	}

	turn, ok := parseSide(parts[1])
	if !ok {
		return nil, 0, shogi.Hands{}, 0, fmt.Errorf("invalid side to move in sfen: %q", sfen)
	}

	hands, err := decodeHands(parts[2])
	if err != nil {
		return nil, 0, shogi.Hands{}, 0, fmt.Errorf("invalid hands in sfen %q: %w", sfen, err)
	}

	moveNum, err := strconv.Atoi(parts[3])
	if err != nil || moveNum < 1 {
		return nil, 0, shogi.Hands{}, 0, fmt.Errorf("invalid move number in sfen: %q", sfen)
	}

	return placements, turn, hands, moveNum, nil
}

func decodeBoard(field string) ([]Placement, error) {
	var placements []Placement

	ranks := strings.Split(field, "/")
	if len(ranks) != 9 {
		return nil, fmt.Errorf("expected 9 ranks, got %d", len(ranks))
	}

	for r, rankStr := range ranks {
		rank := r + 1
		file := 9
		promoted := false

		for _, ch := range rankStr {
			switch {
			case ch == '+':
				promoted = true

			case ch >= '1' && ch <= '9':
				file -= int(ch - '0')

			default:
				pt, side, ok := parsePieceLetter(ch)
				if !ok {
					return nil, fmt.Errorf("invalid piece %q", ch)
				}
				if promoted {
					pt = pt.Promote()
					promoted = false
				}
				if file < 1 {
					return nil, fmt.Errorf("rank %d overflows board files", rank)
				}
				sq := shogi.NewSquare(file, rank)
				placements = append(placements, Placement{Square: sq, Piece: shogi.Piece{Type: pt, Side: side}})
				file--
			}
		}
		if file != 0 {
			return nil, fmt.Errorf("rank %d has wrong number of files", rank)
		}
	}
	return placements, nil
}

func decodeHands(field string) (shogi.Hands, error) {
	var hands shogi.Hands
	if field == "-" {
		return hands, nil
	}

	count := 0
	for _, ch := range field {
		switch {
		case ch >= '0' && ch <= '9':
			count = count*10 + int(ch-'0')

		default:
			pt, side, ok := parsePieceLetter(ch)
			if !ok {
				return hands, fmt.Errorf("invalid hand piece %q", ch)
			}
			if count == 0 {
				count = 1
			}
			idx := shogi.HandIndex(pt)
			if idx < 0 {
				return hands, fmt.Errorf("piece %q cannot be held in hand", ch)
			}
			hands[side][idx] = uint8(count)
			count = 0
		}
	}
	return hands, nil
}

// Encode renders placements, side to move, hands, and move number as SFEN.
func Encode(placements []Placement, turn shogi.Side, hands shogi.Hands, moveNum int) string {
	grid := [9][9]shogi.Piece{}
	for _, p := range placements {
		grid[p.Square.Rank()-1][p.Square.File()-1] = p.Piece
	}

	var sb strings.Builder
	for rank := 0; rank < 9; rank++ {
		blanks := 0
		for file := 8; file >= 0; file-- {
			p := grid[rank][file]
			if !p.IsValid() {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteString(printPiece(p))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if rank != 8 {
			sb.WriteRune('/')
		}
	}

	sb.WriteRune(' ')
	sb.WriteString(turn.String())
	sb.WriteRune(' ')
	sb.WriteString(encodeHands(hands))
	sb.WriteRune(' ')
	sb.WriteString(strconv.Itoa(moveNum))
	return sb.String()
}

func encodeHands(hands shogi.Hands) string {
	var sb strings.Builder
	for side := shogi.Black; side < shogi.NumSides; side++ {
		for i := shogi.NumHandPieceTypes - 1; i >= 0; i-- {
			c := hands[side][i]
			if c == 0 {
				continue
			}
			pt := handPieceAt(i)
			if c > 1 {
				sb.WriteString(strconv.Itoa(int(c)))
			}
			sb.WriteString(printPiece(shogi.Piece{Type: pt, Side: side}))
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

func handPieceAt(i int) shogi.PieceType {
	order := []shogi.PieceType{shogi.Pawn, shogi.Lance, shogi.Knight, shogi.Silver, shogi.Gold, shogi.Bishop, shogi.Rook}
	return order[i]
}

func parseSide(str string) (shogi.Side, bool) {
	switch str {
	case "b":
		return shogi.Black, true
	case "w":
		return shogi.White, true
	default:
		return 0, false
	}
}

func parsePieceLetter(r rune) (shogi.PieceType, shogi.Side, bool) {
	side := shogi.Black
	letter := r
	if r >= 'a' && r <= 'z' {
		side = shogi.White
		letter = r - 32
	}
	switch letter {
	case 'P':
		return shogi.Pawn, side, true
	case 'L':
		return shogi.Lance, side, true
	case 'N':
		return shogi.Knight, side, true
	case 'S':
		return shogi.Silver, side, true
	case 'G':
		return shogi.Gold, side, true
	case 'B':
		return shogi.Bishop, side, true
	case 'R':
		return shogi.Rook, side, true
	case 'K':
		return shogi.King, side, true
	default:
		return shogi.NoPieceType, side, false
	}
}

func printPiece(p shogi.Piece) string {
	letter := byte(0)
	switch p.Type.Demote() {
	case shogi.Pawn:
		letter = 'P'
	case shogi.Lance:
		letter = 'L'
	case shogi.Knight:
		letter = 'N'
	case shogi.Silver:
		letter = 'S'
	case shogi.Gold:
		letter = 'G'
	case shogi.Bishop:
		letter = 'B'
	case shogi.Rook:
		letter = 'R'
	case shogi.King:
		letter = 'K'
	}
	if p.Side == shogi.White {
		letter += 32
	}
	prefix := ""
	if p.Type.IsPromoted() {
		prefix = "+"
	}
	return prefix + string(letter)
}
