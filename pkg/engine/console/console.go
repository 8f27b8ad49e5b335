package console

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/engine"
	"github.com/herohde/shogo/pkg/eval"
	"github.com/herohde/shogo/pkg/search"
	"github.com/herohde/shogo/pkg/search/searchctl"
	"github.com/herohde/shogo/pkg/shogi"
	"github.com/herohde/shogo/pkg/shogi/fen"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

const ProtocolName = "console"

// Driver implements a console driver for debugging.
type Driver struct {
	iox.AsyncCloser

	e *engine.Engine

	out chan<- string

	root   search.Search
	active atomic.Bool // user is waiting for engine to move
}

func NewDriver(ctx context.Context, e *engine.Engine, root search.Search, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		e:           e,
		root:        root,
		out:         out,
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "Console protocol initialized")

	d.out <- fmt.Sprintf("engine %v (%v)", d.e.Name(), d.e.Author())
	d.printBoard(ctx)

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Split(strings.TrimSpace(line), " ")
			if len(parts) == 0 {
				break
			}

			cmd := parts[0]
			args := parts[1:]

			switch strings.ToLower(cmd) {
			case "reset", "r":
				// reset [<sfenstring>] moves ...

				d.ensureInactive(ctx)

				pos := fen.Initial
				if len(args) >= 4 && args[0] != "moves" {
					pos = strings.Join(args[0:4], " ")
				}
				if err := d.e.Reset(ctx, pos); err != nil {
					logw.Errorf(ctx, "Invalid position: %v", line)
					return
				}
				move := false
				for _, arg := range args {
					if arg == "moves" {
						move = true
						continue
					}
					if !move {
						continue
					}

					if err := d.e.Move(ctx, arg); err != nil {
						logw.Errorf(ctx, "Invalid position move '%v': %v: %v", arg, line, err)
						return
					}
				}
				d.printBoard(ctx)

			case "undo", "u":
				d.ensureInactive(ctx)

				_ = d.e.TakeBack(ctx)
				d.printBoard(ctx)

			case "print", "p":
				d.printBoard(ctx)

			case "analyze", "a":
				d.ensureInactive(ctx)

				var opt searchctl.Options
				if len(args) > 0 {
					depth, _ := strconv.Atoi(args[0])
					opt.DepthLimit = lang.Some(uint(depth))
				}

				out, err := d.e.Analyze(ctx, opt)
				if err != nil {
					logw.Errorf(ctx, "Analyze failed: %v", err)
					return
				}
				d.active.Store(true)

				go func() {
					var last search.PV
					for pv := range out {
						last = pv
						d.out <- pv.String()
					}
					d.searchCompleted(ctx, last)
				}()

			case "depth", "d":
				if len(args) > 0 {
					depth, _ := strconv.Atoi(args[0])
					d.e.SetDepth(uint(depth))
				}

			case "hash": // size in MB
				if len(args) > 0 {
					hash, _ := strconv.Atoi(args[0])
					d.e.SetHash(uint(hash))
				}

			case "nohash":
				d.e.SetHash(0)

			case "noise": // evaluation randomness in centipawns
				if len(args) > 0 {
					noise, _ := strconv.Atoi(args[0])
					d.e.SetNoise(uint(noise))
				}

			case "nonoise":
				d.e.SetNoise(0)

			case "halt", "stop":
				pv, err := d.e.Halt(ctx)
				if err == nil {
					d.searchCompleted(ctx, pv)
				}

			case "quit", "exit", "q":
				d.ensureInactive(ctx)
				return

			case "":
				// ignore empty command

			default:
				// Assume move if not a recognized command.

				d.ensureInactive(ctx)
				if err := d.e.Move(ctx, cmd); err != nil {
					d.out <- fmt.Sprintf("invalid move: '%v'", cmd)
				} else {
					d.printBoard(ctx)
				}
			}

		case <-d.Closed():
			d.ensureInactive(ctx)

			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(ctx context.Context, pv search.PV) {
	if d.active.CompareAndSwap(true, false) {
		// Search complete

		if len(pv.Moves) > 0 {
			d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0])
		}

		// Ponder each legal move for a score breakdown. No TT. No noise.

		b := d.e.Board()

		var sub []result
		for _, move := range b.Position().LegalMoves(b.Turn()) {
			nodes, score, moves, _ := d.root.Search(ctx, &search.Context{TT: search.NoTranspositionTable{}, Ponder: []shogi.Move{move}}, b, pv.Depth)
			if len(moves) > 0 {
				moves = moves[1:] // skip ponder move in pv breakdown
			}
			sub = append(sub, result{m: move, s: score, n: nodes - 1, pv: moves})
		}
		sort.Sort(byScore(sub))

		d.out <- fmt.Sprintf("Search, depth=%v", pv.Depth)
		for i := 0; i < len(sub); i++ {
			d.out <- fmt.Sprintf(" %2d. %v\t%v\t\t(%v nodes\tpv %v)", i+1, sub[i].m, sub[i].s, sub[i].n, printMoves(sub[i].pv))
		}
	} // else: stale or duplicate result
}

const (
	files      = "    9   8   7   6   5   4   3   2   1"
	horizontal = "  ---------------------------------"
	vertical   = " | "
)

var ranks = [9]string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}

func (d *Driver) printBoard(ctx context.Context) {
	b := d.e.Board()
	p := b.Position()

	d.out <- ""
	d.out <- files
	d.out <- horizontal
	for r := 1; r <= 9; r++ {
		var sb strings.Builder
		sb.WriteString(ranks[r-1] + vertical)
		for f := 9; f >= 1; f-- {
			sq := shogi.NewSquare(f, r)
			if piece := p.Square(sq); piece.IsValid() {
				sb.WriteString(piece.String())
			} else {
				sb.WriteString(" ")
			}
			sb.WriteString(vertical)
		}
		d.out <- sb.String()
		d.out <- horizontal
	}
	d.out <- files
	d.out <- ""
	d.out <- fmt.Sprintf("sfen:   %v", d.e.Position())
	d.out <- fmt.Sprintf("hand:   %v", p.Hands())
	d.out <- fmt.Sprintf("result: %v, move: %v, hash: 0x%x", b.Result(), b.MoveNum(), b.Hash())
	d.out <- ""
}

func printMoves(moves []shogi.Move) string {
	var sb strings.Builder
	for i, m := range moves {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}

type result struct {
	m  shogi.Move
	s  eval.Score
	n  uint64
	pv []shogi.Move
}

// byScore is a sort order by score, best first.
type byScore []result

func (b byScore) Len() int {
	return len(b)
}

func (b byScore) Less(i, j int) bool {
	return b[i].s > b[j].s
}

func (b byScore) Swap(i, j int) {
	b[i], b[j] = b[j], b[i]
}
