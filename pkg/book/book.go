// Package book is a badger-backed opening book, an alternative to the
// engine's in-memory map (see engine.NewBook) for collections too large to
// hold comfortably as a Go map: it persists to disk, so a book built once
// from a large corpus of lines loads in constant memory regardless of size.
//
// The storage shape -- open a badger.DB, View for reads, Update for writes,
// JSON-encode the value -- mirrors hailam-chessplay's internal/storage
// package; the per-position weighted-candidate-list value shape mirrors its
// internal/book package, adapted from Polyglot's 64-bit zobrist keys to
// shogo's cropped-SFEN string keys (a shogi position has no Polyglot
// standard to follow, and the cropped SFEN is already the key the
// in-memory engine.Book uses).
package book

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/engine"
	"github.com/herohde/shogo/pkg/shogi"
	"github.com/herohde/shogo/pkg/shogi/fen"
	"github.com/herohde/shogo/pkg/shogierr"
	"github.com/seekerror/logw"
)

// entry is one candidate move recorded against a book position.
type entry struct {
	Move   string `json:"move"`
	Weight uint16 `json:"weight"`
}

// DB is a persistent opening book backed by BadgerDB. It implements
// engine.Book, so it drops into engine.WithBook(db) directly.
type DB struct {
	db *badger.DB
}

var _ engine.Book = (*DB)(nil)

// Open opens (creating if absent) a book database rooted at dir.
func Open(dir string) (*DB, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // the engine's own logw lines are the diagnostic surface

	db, err := badger.Open(opts)
	if err != nil {
		return nil, shogierr.Wrap(shogierr.ConfigInvalid, "open book", err)
	}
	return &DB{db: db}, nil
}

// Close releases the underlying database handle.
func (b *DB) Close() error {
	return b.db.Close()
}

// Find implements engine.Book: looks up the cropped SFEN key and returns the
// stored candidates, best (highest weight) first.
func (b *DB) Find(ctx context.Context, sfen string) ([]shogi.Move, error) {
	key := bookKey(sfen)

	var entries []entry
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entries)
		})
	})
	if err != nil {
		return nil, shogierr.Wrap(shogierr.ConfigInvalid, "read book entry", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Weight > entries[j].Weight })

	moves := make([]shogi.Move, 0, len(entries))
	for _, e := range entries {
		m, err := shogi.ParseMove(e.Move)
		if err != nil {
			logw.Warningf(ctx, "Skipping corrupt book move %q at %v: %v", e.Move, key, err)
			continue
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// Import adds every line to the book, weighting each recorded move by how
// often it's played across the corpus -- the same accumulate-then-store
// shape as engine.NewBook, but writing each position to badger instead of
// building an in-memory map.
func Import(ctx context.Context, db *DB, lines []engine.Line) error {
	counts := map[string]map[string]uint16{}

	for _, line := range lines {
		key := fen.Initial
		for _, str := range line {
			next, err := shogi.ParseMove(str)
			if err != nil {
				return shogierr.Wrap(shogierr.ConfigInvalid, "invalid line "+line.String(), err)
			}

			placements, turn, hands, moveNum, err := fen.Decode(key)
			if err != nil {
				return shogierr.Wrap(shogierr.ConfigInvalid, "invalid line "+line.String(), err)
			}
			pos, err := board.NewPosition(toBoardPlacements(placements), hands)
			if err != nil {
				return shogierr.Wrap(shogierr.ConfigInvalid, "invalid line "+line.String(), err)
			}

			found := false
			for _, candidate := range pos.PseudoLegalMoves(turn) {
				if !candidate.Equals(next) {
					continue
				}
				np, ok := pos.Move(turn, candidate)
				if !ok {
					return shogierr.Newf(shogierr.ConfigInvalid, "line %v: move %v not legal", line, next)
				}

				k := bookKey(key)
				if counts[k] == nil {
					counts[k] = map[string]uint16{}
				}
				counts[k][candidate.String()]++

				key = fen.Encode(toPlacements(np), turn.Opponent(), np.Hands(), moveNum+1)
				found = true
				break
			}
			if !found {
				return shogierr.Newf(shogierr.ConfigInvalid, "line %v: move %v not found", line, next)
			}
		}
	}

	return db.db.Update(func(txn *badger.Txn) error {
		for key, moves := range counts {
			entries := make([]entry, 0, len(moves))
			for move, weight := range moves {
				entries = append(entries, entry{Move: move, Weight: weight})
			}
			sort.Slice(entries, func(i, j int) bool { return entries[i].Weight > entries[j].Weight })

			data, err := json.Marshal(entries)
			if err != nil {
				return err
			}
			if err := txn.Set([]byte(key), data); err != nil {
				return err
			}
		}
		logw.Infof(ctx, "Imported %v book positions", len(counts))
		return nil
	})
}

// bookKey crops an sfen down to the placement/turn/hands fields, matching
// engine.NewBook's key so a game transposing between the in-memory and
// badger-backed books still hits the same entries.
func bookKey(sfen string) string {
	parts := strings.Split(sfen, " ")
	if len(parts) < 3 {
		return sfen
	}
	return strings.Join(parts[:3], " ")
}

func toBoardPlacements(placements []fen.Placement) []board.Placement {
	out := make([]board.Placement, len(placements))
	for i, pl := range placements {
		out[i] = board.Placement{Square: pl.Square, Piece: pl.Piece}
	}
	return out
}

func toPlacements(p *board.Position) []fen.Placement {
	var out []fen.Placement
	for sq := shogi.ZeroSquare; sq < shogi.NumSquares; sq++ {
		if piece := p.Square(sq); piece.IsValid() {
			out = append(out, fen.Placement{Square: sq, Piece: piece})
		}
	}
	return out
}
