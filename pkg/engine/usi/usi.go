// Package usi contains a driver for using the engine under the USI
// (Universal Shogi Interface) protocol, the Shogi analogue of UCI. The
// state machine -- usi/usiok, isready/readyok, position, go, stop, quit,
// info/bestmove framing -- mirrors a UCI driver line for line, with USI's
// verbs and SFEN move notation substituted for UCI's.
//
// See: http://hgm.nubati.net/usi.html
package usi

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/herohde/shogo/pkg/engine"
	"github.com/herohde/shogo/pkg/search"
	"github.com/herohde/shogo/pkg/search/searchctl"
	"github.com/herohde/shogo/pkg/shogi/fen"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

const ProtocolName = "usi"

// Driver implements a USI driver for an engine. It is activated if sent "usi".
// The opening book, if any, is wired into the Engine itself (see
// engine.New's WithBook option) and consulted transparently by Analyze; the
// driver has no book logic of its own.
type Driver struct {
	e *engine.Engine

	out chan<- string

	active       atomic.Bool    // GUI is waiting for engine to move
	ponder       chan search.PV // chan for intermediate search information
	lastPosition string         // last "position" line (empty if none yet)

	quit   chan struct{}
	closed atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:      e,
		out:    out,
		ponder: make(chan search.PV, 400),
		quit:   make(chan struct{}),
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "USI protocol initialized")

	// id/option/usiok: sent once after "usi" to identify the engine and
	// announce the settable options, mirroring UCI's id/option/uciok
	// handshake.

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())

	d.out <- "option name USI_Hash type spin default 32 min 0 max 65536"
	d.out <- "option name USI_Ponder type check default false"
	d.out <- "option name Threads type spin default 1 min 1 max 64"

	d.out <- "usiok"

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
			case "isready":
				// isready/readyok synchronizes the GUI with the engine, e.g.
				// after a slow setoption. Always answered, even mid-search.

				d.out <- "readyok"

			case "setoption":
				// setoption name <id> [value <x>]

				var name, value string
				if len(args) > 1 {
					name = args[1]
				}
				if len(args) > 3 {
					value = strings.Join(args[3:], " ")
				}

				switch name {
				case "USI_Hash":
					if n, err := strconv.Atoi(value); err == nil {
						d.e.SetHash(uint(n))
					}
				}

			case "usinewgame":
				// usinewgame: the next "position"/"go" pair is a fresh game;
				// no persistent learning state to reset here.

				d.ensureInactive(ctx)
				d.lastPosition = ""

			case "position":
				// position [sfen <sfenstring> | startpos] moves <move1> ... <movei>

				d.ensureInactive(ctx)

				if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
					// Continuation of game.

					moves := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
					for _, arg := range strings.Split(moves, " ") {
						if arg == "" || arg == "moves" {
							continue
						}
						if err := d.e.Move(ctx, arg); err != nil {
							logw.Errorf(ctx, "Invalid position move '%v': %v: %v", arg, line, err)
							return
						}
					}
					d.lastPosition = line
					break
				}

				// New position.

				position := fen.Initial
				if len(args) >= 5 && args[0] == "sfen" {
					position = strings.Join(args[1:5], " ")
				}

				if err := d.e.Reset(ctx, position); err != nil {
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
				d.lastPosition = line

			case "go":
				// go [btime <x> wtime <x> binc <x> winc <x> byoyomi <x>
				//     movestogo <x> depth <x> nodes <x> mate <x> infinite
				//     ponder]

				d.ensureInactive(ctx)

				var opt searchctl.Options
				infinite := false
				movetime := time.Duration(0)

				for i := 0; i < len(args); i++ {
					cmd := args[i]
					switch cmd {
					case "wtime", "btime", "winc", "binc", "movestogo", "depth", "movetime", "byoyomi", "nodes", "mate":
						i++
						if i == len(args) {
							logw.Errorf(ctx, "No argument for %v: %v", cmd, line)
							return
						}
						n, err := strconv.Atoi(args[i])
						if err != nil {
							logw.Errorf(ctx, "Invalid argument for %v: %v", line, err)
							return
						}

						switch cmd {
						case "depth":
							opt.DepthLimit = lang.Some(uint(n))
						case "wtime":
							opt.TimeControl = lang.Some(withWhite(opt.TimeControl, time.Millisecond*time.Duration(n)))
						case "btime":
							opt.TimeControl = lang.Some(withBlack(opt.TimeControl, time.Millisecond*time.Duration(n)))
						case "movestogo":
							opt.TimeControl = lang.Some(withMoves(opt.TimeControl, n))
						case "movetime", "byoyomi":
							// A fixed per-move budget, enforced only as a hard
							// cutoff: the search is halted once it elapses.
							movetime = time.Millisecond * time.Duration(n)
						}

					case "infinite", "ponder":
						infinite = true

					default:
						// silently ignore anything not handled (e.g. "searchmoves").
					}
				}

				out, err := d.e.Analyze(ctx, opt)
				if err != nil {
					logw.Errorf(ctx, "Analyze failed: %v", err)
					return
				}
				d.active.Store(true)

				// Forward ponder info. Complete search if it ends, unless infinite.

				go func() {
					var last search.PV
					for pv := range out {
						last = pv
						d.ponder <- pv
					}
					if !infinite {
						d.searchCompleted(ctx, last)
					}
				}()

				if movetime > 0 {
					time.AfterFunc(movetime, func() {
						_, _ = d.e.Halt(ctx)
					})
				}

			case "stop":
				// stop: cancel the active search as soon as possible; the
				// driver still owes a "bestmove" once it unwinds.

				pv, err := d.e.Halt(ctx)
				if err == nil {
					d.searchCompleted(ctx, pv)
				}

			case "ponderhit":
				// ponderhit: accepted and ignored. A search started with
				// "go ponder" stays infinite: no bestmove is sent until "stop".

			case "quit":
				return

			default:
				logw.Warningf(ctx, "Unknown command '%v': %v", cmd, args)
			}

		case pv := <-d.ponder:
			if d.active.Load() {
				d.out <- printPV(pv)
			}

		case <-d.quit:
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
	if d.active.CAS(true, false) {
		if len(pv.Moves) > 0 {
			// bestmove <move1> [ponder <move2>]: always owed once a "go" is
			// answered, whether the search ran to completion or was stopped.

			d.out <- printPV(pv)
			d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0])
		} else {
			// No PV: checkmate or no legal move (shogi has no stalemate).

			d.out <- "bestmove resign"
		}
	} // else: stale or duplicate result
}

func printPV(pv search.PV) string {
	// "info depth 2 score cp 214 nodes 2124 time 1242 nps 1710 pv 7g7f 3c3d"

	parts := []string{"info"}
	parts = append(parts, fmt.Sprintf("depth %v", pv.Depth))
	if md, ok := pv.Score.MateDistance(); ok {
		if pv.Score < 0 {
			md = -md
		}
		parts = append(parts, fmt.Sprintf("score mate %v", md))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", int(pv.Score)))
	}
	if pv.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes %v", pv.Nodes))
	}
	if pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("time %v", pv.Time.Milliseconds()))
	}
	if pv.Nodes > 0 && pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %v", uint64(time.Second)*pv.Nodes/uint64(pv.Time)))
	}
	if len(pv.Moves) > 0 {
		parts = append(parts, "pv")
		var mv []string
		for _, m := range pv.Moves {
			mv = append(mv, m.String())
		}
		parts = append(parts, strings.Join(mv, " "))
	}

	return strings.Join(parts, " ")
}

func withWhite(tc lang.Optional[searchctl.TimeControl], d time.Duration) searchctl.TimeControl {
	c, _ := tc.V()
	c.White = d
	return c
}

func withBlack(tc lang.Optional[searchctl.TimeControl], d time.Duration) searchctl.TimeControl {
	c, _ := tc.V()
	c.Black = d
	return c
}

func withMoves(tc lang.Optional[searchctl.TimeControl], moves int) searchctl.TimeControl {
	c, _ := tc.V()
	c.Moves = moves
	return c
}
