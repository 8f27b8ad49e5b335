package searchctl

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/herohde/shogo/pkg/bit"
	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/eval"
	"github.com/herohde/shogo/pkg/search"
	"github.com/herohde/shogo/pkg/shogi"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Parallel is a root-splitting search harness: at each iterative-deepening
// depth, the legal root moves are partitioned across Workers goroutines,
// each of which forks its own board and searches its share of the first
// ply with a full (depth-1) search below it, reporting (move, score) pairs
// back over a shared channel. This differs from Lazy SMP (every worker
// searches the whole tree with perturbed ordering, sharing one TT) in that
// each worker here owns a disjoint slice of the root move list -- simpler
// to reason about for a modest number of workers, at the cost of sharing
// less incidental search-order diversity across the pool.
type Parallel struct {
	Root    search.Search
	Workers int
}

func (p *Parallel) Launch(ctx context.Context, b *board.Board, tt search.TranspositionTable, noise eval.Random, opt Options) (Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.processParallel(ctx, p.workers(), p.Root, b, tt, noise, opt, out)

	return h, out
}

func (p *Parallel) workers() int {
	if p.Workers < 1 {
		return 1
	}
	return p.Workers
}

type rootResult struct {
	move  shogi.Move
	score eval.Score
	pv    []shogi.Move
	nodes uint64
}

func (h *handle) processParallel(ctx context.Context, workers int, root search.Search, b *board.Board, tt search.TranspositionTable, noise eval.Random, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, b.Turn())
	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	depth := 1
	for !h.quit.IsClosed() {
		start := time.Now()
		if tt != nil && depth == 1 {
			tt.NewGeneration()
		}

		rootMoves := legalRootMoves(b)
		if len(rootMoves) == 0 {
			return // no legal moves: nothing to report
		}

		results := make(chan rootResult, len(rootMoves))
		chunks := partition(rootMoves, workers)

		var wg sync.WaitGroup
		for _, chunk := range chunks {
			if len(chunk) == 0 {
				continue
			}
			wg.Add(1)
			go func(chunk []shogi.Move) {
				defer wg.Done()
				searchRootChunk(wctx, root, b, tt, noise, depth, chunk, results)
			}(chunk)
		}
		wg.Wait()
		close(results)

		best, nodes, ok := bestResult(results)
		if !ok || contextx.IsCancelled(wctx) {
			return // halted mid-search: the in-flight depth produced no usable PV
		}

		pv := search.PV{
			Depth: depth,
			Nodes: nodes,
			Score: best.score,
			Moves: best.pv,
			Time:  time.Since(start),
		}
		if tt != nil {
			pv.Hash = tt.Used()
		}

		logw.Debugf(ctx, "Searched %v (%v workers): %v", b.Position(), workers, pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()
		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return
		}
		if md, ok := best.score.MateDistance(); ok && int(md) <= depth {
			return
		}
		if useSoft && soft < time.Since(start) {
			return
		}
		depth++
	}
}

// legalRootMoves returns every legal move from b's current position, forking
// and popping to test legality without disturbing b.
func legalRootMoves(b *board.Board) []shogi.Move {
	fork := b.Fork()
	var legal []shogi.Move
	for _, m := range fork.Position().PseudoLegalMoves(fork.Turn()) {
		if fork.PushMove(m) {
			fork.PopMove()
			legal = append(legal, m)
		}
	}
	return legal
}

// partition splits moves into up to n roughly-equal, order-preserving
// chunks, interleaved round-robin so each worker gets a mix of
// high-and-low-priority moves rather than a contiguous tail.
func partition(moves []shogi.Move, n int) [][]shogi.Move {
	if n > len(moves) {
		n = len(moves)
	}
	if n < 1 {
		n = 1
	}
	chunks := make([][]shogi.Move, n)
	for i, m := range moves {
		w := i % n
		chunks[w] = append(chunks[w], m)
	}
	return chunks
}

// searchRootChunk searches every move in chunk from a dedicated fork of b,
// each to depth-1 below the root move, and reports a (move, score) pair per
// move into results. The reported score is from the root side's
// perspective (negated back from the mover's perspective returned by
// Root.Search).
func searchRootChunk(ctx context.Context, root search.Search, b *board.Board, tt search.TranspositionTable, noise eval.Random, depth int, chunk []shogi.Move, results chan<- rootResult) {
	fork := b.Fork()
	for _, m := range chunk {
		if contextx.IsCancelled(ctx) {
			return
		}
		if !fork.PushMove(m) {
			continue
		}

		sctx := &search.Context{Alpha: eval.NegInf, Beta: eval.Inf, TT: tt, Noise: noise}
		nodes, score, pv, err := root.Search(ctx, sctx, fork, bit.Max(depth-1, 0))
		fork.PopMove()

		if err != nil {
			continue
		}
		results <- rootResult{
			move:  m,
			score: -eval.IncrementMateDistance(score),
			pv:    append([]shogi.Move{m}, pv...),
			nodes: nodes,
		}
	}
}

func bestResult(results <-chan rootResult) (rootResult, uint64, bool) {
	var all []rootResult
	var nodes uint64
	for r := range results {
		all = append(all, r)
		nodes += r.nodes
	}
	if len(all) == 0 {
		return rootResult{}, 0, false
	}
	sort.Slice(all, func(i, j int) bool { return all[i].score > all[j].score })
	return all[0], nodes, true
}

