package search

import (
	"context"
	"fmt"
	"math/bits"
	"sync"
	"sync/atomic"

	"github.com/herohde/shogo/pkg/bit"
	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/eval"
	"github.com/herohde/shogo/pkg/shogi"
	"github.com/seekerror/logw"
)

// Bound represents the bound of a -- possibly inexact -- search score.
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// nodeIntrinsicScore converts score -- expressed relative to ply plies
// below wherever the current search invocation began -- into a form
// independent of that ply: a mate is recorded as "in K plies from this
// node" rather than "in K plies from the search root", so the value stays
// correct when an unrelated search reaches the same position, via a
// transposition, at a different ply. Non-mate scores pass through
// unchanged.
func nodeIntrinsicScore(score eval.Score, ply int) eval.Score {
	for i := 0; i < ply; i++ {
		score = eval.DecrementMateDistance(score)
	}
	return score
}

// rootRelativeScore undoes nodeIntrinsicScore relative to ply, which need
// not match the ply the entry was written at -- recovering a mate score
// expressed from the probing search's own perspective.
func rootRelativeScore(score eval.Score, ply int) eval.Score {
	for i := 0; i < ply; i++ {
		score = eval.IncrementMateDistance(score)
	}
	return score
}

// TranspositionTable speeds up search by caching previously-searched
// positions. Caveat: evaluation heuristics that depend on game history
// (e.g. move counters) may be unsuitable for position-keyed caching; the
// WriteLimited wrapper below can restrict writes to depths where staleness
// doesn't matter. Must be thread-safe.
type TranspositionTable interface {
	// Read returns the bound, depth, score and best move for the given
	// position hash, if present. ply is the caller's current distance from
	// its own search root, used to re-canonicalize a mate score that may
	// have been written at a different ply via a transposition.
	Read(hash board.Hash, ply int) (Bound, int, eval.Score, shogi.Move, bool)
	// Write stores the entry into the table, subject to the table's
	// replacement policy.
	Write(hash board.Hash, bound Bound, ply, depth int, score eval.Score, move shogi.Move) bool

	// Size returns the size of the table in bytes.
	Size() uint64
	// Used returns the utilization as a fraction [0;1].
	Used() float64
	// NewGeneration marks every currently-stored entry as eligible for
	// eviction ahead of anything written after the call. The engine calls
	// this once per root search (depth==1 of each iterative-deepening
	// pass), so stale entries from prior searches don't linger.
	NewGeneration()
}

// bucketWidth is K, the number of independently-replaceable entries sharing
// a bucket's index. A K-way bucket absorbs index collisions that would
// otherwise evict a deep, valuable entry for a shallow, transient one.
const bucketWidth = 4

// ttEntry is one stored search result.
type ttEntry struct {
	hash  board.Hash
	score eval.Score
	move  shogi.Move
	bound Bound
	ply   uint16
	depth uint16
	age   uint32
}

type bucket struct {
	slots [bucketWidth]atomic.Pointer[ttEntry]
}

// table is the default TranspositionTable: N power-of-two buckets of K
// entries apiece, with S shard locks (S a power of two much smaller than N)
// guarding only the victim-selection-and-swap step of a write. Reads never
// take a lock, following the single-entry table's atomic-pointer-swap
// technique generalized across the K slots of a bucket.
type table struct {
	buckets    []bucket
	bucketMask uint64
	shards     []sync.Mutex
	shardMask  uint64
	age        atomic.Uint32
	used       atomic.Uint64
}

// NewTranspositionTable allocates a table sized to roughly size bytes.
func NewTranspositionTable(ctx context.Context, size uint64) TranspositionTable {
	perBucket := uint64(bucketWidth) * 32 // approx bytes/entry incl. pointer overhead
	n := uint64(1) << (63 - bits.LeadingZeros64(bit.Max(size/perBucket, 1)))

	shards := n >> 6 // S << N: one shard per 64 buckets
	if shards < 16 {
		shards = 16
	}
	if shards > n {
		shards = n
	}
	shards = uint64(1) << (63 - bits.LeadingZeros64(shards))

	logw.Infof(ctx, "Allocating TT with %v buckets x %v slots (%v shards)", n, bucketWidth, shards)

	return &table{
		buckets:    make([]bucket, n),
		bucketMask: n - 1,
		shards:     make([]sync.Mutex, shards),
		shardMask:  shards - 1,
	}
}

func (t *table) Size() uint64 {
	return uint64(len(t.buckets)) * bucketWidth * 32
}

func (t *table) Used() float64 {
	return float64(t.used.Load()) / float64(uint64(len(t.buckets))*bucketWidth)
}

func (t *table) NewGeneration() {
	t.age.Add(1)
}

func (t *table) Read(hash board.Hash, ply int) (Bound, int, eval.Score, shogi.Move, bool) {
	b := &t.buckets[uint64(hash)&t.bucketMask]
	for i := range b.slots {
		e := b.slots[i].Load()
		if e != nil && e.hash == hash {
			return e.bound, int(e.depth), rootRelativeScore(e.score, ply), e.move, true
		}
	}
	return 0, 0, 0, shogi.Move{}, false
}

func (t *table) Write(hash board.Hash, bound Bound, ply, depth int, score eval.Score, move shogi.Move) bool {
	bucketIdx := uint64(hash) & t.bucketMask
	b := &t.buckets[bucketIdx]
	shard := &t.shards[bucketIdx&t.shardMask]

	fresh := &ttEntry{
		hash:  hash,
		score: nodeIntrinsicScore(score, ply),
		move:  move,
		bound: bound,
		ply:   uint16(ply),
		depth: uint16(depth),
		age:   t.age.Load(),
	}

	shard.Lock()
	defer shard.Unlock()

	victim := -1
	victimVal := int(^uint(0) >> 1) // max int: anything beats an unset victim
	for i := range b.slots {
		e := b.slots[i].Load()
		if e == nil {
			victim, victimVal = i, -1
			break
		}
		if e.hash == hash {
			victim, victimVal = i, -1 // always refresh a matching position
			break
		}
		if v := replacementValue(e, fresh.age); v < victimVal {
			victim, victimVal = i, v
		}
	}

	if victim < 0 {
		return false
	}
	if b.slots[victim].Load() == nil {
		t.used.Add(1)
	}
	b.slots[victim].Store(fresh)
	return true
}

// replacementValue ranks how reluctant we are to evict e: entries from a
// prior generation are evicted first (value 0), then the shallowest,
// earliest-ply entries within the current generation.
func replacementValue(e *ttEntry, currentAge uint32) int {
	if e.age != currentAge {
		return 0
	}
	return int(e.ply) + int(e.depth)<<1 + 1
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%v @ %v%%]", t.Size(), int(100*t.Used()))
}

// WriteFilter is a predicate on the Write operation.
type WriteFilter func(hash board.Hash, bound Bound, ply, depth int, score eval.Score, move shogi.Move) bool

// WriteLimited wraps a TranspositionTable and ignores writes the filter
// rejects, e.g. below a minimum depth.
type WriteLimited struct {
	Filter WriteFilter
	TT     TranspositionTable
}

func (w WriteLimited) Read(hash board.Hash, ply int) (Bound, int, eval.Score, shogi.Move, bool) {
	return w.TT.Read(hash, ply)
}

func (w WriteLimited) Write(hash board.Hash, bound Bound, ply, depth int, score eval.Score, move shogi.Move) bool {
	if w.Filter(hash, bound, ply, depth, score, move) {
		return false
	}
	return w.TT.Write(hash, bound, ply, depth, score, move)
}

func (w WriteLimited) Size() uint64   { return w.TT.Size() }
func (w WriteLimited) Used() float64  { return w.TT.Used() }
func (w WriteLimited) NewGeneration() { w.TT.NewGeneration() }

// NewMinDepthTranspositionTable creates a TranspositionTableFactory that
// skips writes below a minimum depth.
func NewMinDepthTranspositionTable(min int) TranspositionTableFactory {
	return func(ctx context.Context, size uint64) TranspositionTable {
		return WriteLimited{
			Filter: func(hash board.Hash, bound Bound, ply, depth int, score eval.Score, move shogi.Move) bool {
				return depth < min
			},
			TT: NewTranspositionTable(ctx, size),
		}
	}
}

// TranspositionTableFactory constructs a table of the given size.
type TranspositionTableFactory func(ctx context.Context, size uint64) TranspositionTable

// NoTranspositionTable is a no-op implementation, useful for depth-limited
// or perft-style searches that don't want caching.
type NoTranspositionTable struct{}

func (n NoTranspositionTable) Read(hash board.Hash, ply int) (Bound, int, eval.Score, shogi.Move, bool) {
	return 0, 0, 0, shogi.Move{}, false
}

func (n NoTranspositionTable) Write(hash board.Hash, bound Bound, ply, depth int, score eval.Score, move shogi.Move) bool {
	return false
}

func (n NoTranspositionTable) Size() uint64   { return 0 }
func (n NoTranspositionTable) Used() float64  { return 0 }
func (n NoTranspositionTable) NewGeneration() {}
