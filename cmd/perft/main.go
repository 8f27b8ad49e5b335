// perft is a movegen debugging tool. See: https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/shogi"
	"github.com/herohde/shogo/pkg/shogi/fen"
	"github.com/seekerror/logw"
)

var (
	depth    = flag.Int("depth", 4, "Search depth")
	position = flag.String("sfen", "", "Start position (default to standard)")
	divide   = flag.Bool("divide", false, "Divide counts by initial move")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	if *position == "" {
		*position = fen.Initial
	}

	placements, turn, hands, _, err := fen.Decode(*position)
	if err != nil {
		logw.Exitf(ctx, "Invalid sfen '%v': %v", *position, err)
	}

	pos, err := board.NewPosition(toBoardPlacements(placements), hands)
	if err != nil {
		logw.Exitf(ctx, "Invalid position '%v': %v", *position, err)
	}

	for i := 1; i <= *depth; i++ {
		start := time.Now()
		nodes := search(pos, turn, i, *divide && i == *depth)
		duration := time.Since(start)

		println(fmt.Sprintf("perft,%v,%v,%v,%v", *position, i, nodes, duration.Microseconds()))
	}
}

func search(pos *board.Position, turn shogi.Side, depth int, d bool) int64 {
	if depth == 0 {
		return 1
	}

	var nodes int64
	for _, m := range pos.LegalMoves(turn) {
		next, ok := pos.Move(turn, m)
		if !ok {
			continue
		}
		count := search(next, turn.Opponent(), depth-1, false)
		if d {
			println(fmt.Sprintf("%v: %v", m, count))
		}
		nodes += count
	}
	return nodes
}

func toBoardPlacements(placements []fen.Placement) []board.Placement {
	out := make([]board.Placement, len(placements))
	for i, pl := range placements {
		out[i] = board.Placement{Square: pl.Square, Piece: pl.Piece}
	}
	return out
}
