package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/eval"
	"github.com/herohde/shogo/pkg/shogi"
	"github.com/herohde/shogo/pkg/shogi/fen"
)

// Book represents an opening book.
type Book interface {
	// Find returns a list -- potentially empty -- of candidate moves for the
	// given SFEN position, best first. Once an empty list is returned, the
	// book should not be consulted again for the game.
	Find(ctx context.Context, sfen string) ([]shogi.Move, error)
}

// Line represents an opening line: 7g7f 3c3d.
type Line []string

func (l Line) String() string {
	return strings.Join(l, " ")
}

// NoBook is an empty opening book.
var NoBook Book = &book{moves: map[string][]shogi.Move{}}

// NewBook creates an opening book from a set of opening lines, indexed by
// the position reached before each move (so Find can be called with the
// engine's current SFEN directly).
func NewBook(lines []Line) (Book, error) {
	m := map[string]map[shogi.Move]bool{}
	for _, line := range lines {
		key := fen.Initial
		for _, str := range line {
			next, err := shogi.ParseMove(str)
			if err != nil {
				return nil, fmt.Errorf("invalid line %q: %w", line, err)
			}

			placements, turn, hands, moveNum, err := fen.Decode(key)
			if err != nil {
				return nil, fmt.Errorf("invalid line %q: %w", line, err)
			}
			pos, err := board.NewPosition(toBoardPlacements(placements), hands)
			if err != nil {
				return nil, fmt.Errorf("invalid line %q: %w", line, err)
			}

			found := false
			for _, candidate := range pos.PseudoLegalMoves(turn) {
				if !candidate.Equals(next) {
					continue
				}

				np, ok := pos.Move(turn, candidate)
				if !ok {
					return nil, fmt.Errorf("invalid line %q: move %v not legal", line, next)
				}

				k := bookKey(key)
				if m[k] == nil {
					m[k] = map[shogi.Move]bool{}
				}
				m[k][candidate] = true

				key = fen.Encode(toPlacements(np), turn.Opponent(), np.Hands(), moveNum+1)
				found = true
				break
			}

			if !found {
				return nil, fmt.Errorf("invalid line %q: move %v not found", line, next)
			}
		}
	}

	dedup := map[string][]shogi.Move{}
	for k, v := range m {
		list := make([]shogi.Move, 0, len(v))
		for move := range v {
			list = append(list, move)
		}
		rankByMVVLVA(list)
		dedup[k] = list
	}
	return &book{moves: dedup}, nil
}

type book struct {
	moves map[string][]shogi.Move // cropped sfen -> []move
}

func (b *book) Find(ctx context.Context, sfen string) ([]shogi.Move, error) {
	return b.moves[bookKey(sfen)], nil
}

// bookKey crops an sfen down to the placement/turn/hands fields, dropping
// the move number so transpositions from different move orders still hit
// the same book entry.
func bookKey(sfen string) string {
	parts := strings.Split(sfen, " ")
	return strings.Join(parts[:3], " ")
}

// rankByMVVLVA orders candidate book moves by captured material, so the
// strongest-looking reply is tried first. Book lines rarely contain
// captures, so the full attacker-tiebreak used during search is overkill
// here; nominal victim value alone is enough to order the handful of
// candidates a book entry ever holds.
func rankByMVVLVA(moves []shogi.Move) {
	sort.Slice(moves, func(i, j int) bool {
		gi, gj := eval.NominalValueGain(moves[i]), eval.NominalValueGain(moves[j])
		if gi != gj {
			return gi > gj
		}
		return moves[i].String() < moves[j].String() // deterministic tiebreak: map iteration order isn't
	})
}
