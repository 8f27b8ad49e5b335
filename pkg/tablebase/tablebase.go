// Package tablebase is a badger-backed micro-tablebase: a probe-only store
// of pre-solved endgame positions, queried via engine.Tablebase. Solving
// positions into the store (retrograde analysis) is out of scope -- spec.md
// explicitly describes only the query interface, not the solver -- so this
// package only knows how to persist and probe entries someone else computed
// (see Put).
//
// The storage shape follows pkg/book: a badger.DB, JSON-encoded values,
// View/Update transactions, grounded the same way in
// hailam-chessplay/internal/storage/storage.go.
package tablebase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/engine"
	"github.com/herohde/shogo/pkg/shogi"
	"github.com/herohde/shogo/pkg/shogierr"
	"github.com/seekerror/stdlib/pkg/lang"
)

// record is the on-disk encoding of one resolved position.
type record struct {
	Outcome  int     `json:"outcome"`
	BestMove *string `json:"best_move,omitempty"`
	DTM      *int    `json:"dtm,omitempty"`
}

// DB is a persistent micro-tablebase backed by BadgerDB. It implements
// engine.Tablebase, so it drops into engine.WithTablebase(db) directly.
type DB struct {
	db *badger.DB
}

var _ engine.Tablebase = (*DB)(nil)

// Open opens (creating if absent) a tablebase database rooted at dir.
func Open(dir string) (*DB, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, shogierr.Wrap(shogierr.ConfigInvalid, "open tablebase", err)
	}
	return &DB{db: db}, nil
}

// Close releases the underlying database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Put stores a resolved verdict for the given position, keyed on piece
// placement, side to move, and hand contents (the exact state a tablebase
// verdict depends on -- unlike a book entry, move history is irrelevant).
func (d *DB) Put(b *board.Board, res engine.TablebaseResult) error {
	key := positionKey(b.Position(), b.Turn())

	var rec record
	rec.Outcome = int(res.Outcome)
	if m, ok := res.BestMove.V(); ok {
		s := m.String()
		rec.BestMove = &s
	}
	if dtm, ok := res.DTM.V(); ok {
		rec.DTM = &dtm
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return shogierr.Wrap(shogierr.ConfigInvalid, "encode tablebase entry", err)
	}
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// Probe implements engine.Tablebase.
func (d *DB) Probe(ctx context.Context, b *board.Board, side shogi.Side, hands *shogi.Hands) (engine.TablebaseResult, bool) {
	key := positionKey(b.Position(), side)

	var rec record
	found := false
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil || !found {
		return engine.TablebaseResult{}, false
	}

	res := engine.TablebaseResult{Outcome: engine.TablebaseOutcome(rec.Outcome)}
	if rec.BestMove != nil {
		if m, err := shogi.ParseMove(*rec.BestMove); err == nil {
			res.BestMove = lang.Some(m)
		}
	}
	if rec.DTM != nil {
		res.DTM = lang.Some(*rec.DTM)
	}
	return res, true
}

// positionKey renders a placement/turn/hands-only key, the analogue of
// pkg/book's cropped-SFEN key but built straight off the board rather than
// a formatted SFEN string, since the tablebase has no move-number field to
// crop in the first place.
func positionKey(p *board.Position, turn shogi.Side) string {
	var sb strings.Builder
	for sq := shogi.ZeroSquare; sq < shogi.NumSquares; sq++ {
		if piece := p.Square(sq); piece.IsValid() {
			sb.WriteString(piece.String())
		} else {
			sb.WriteString(".")
		}
	}
	sb.WriteString(" ")
	sb.WriteString(turn.String())
	sb.WriteString(" ")
	sb.WriteString(p.Hands().String())
	return sb.String()
}
