package search

import (
	"container/heap"
	"fmt"

	"github.com/herohde/shogo/pkg/shogi"
)

// Priority represents move order priority: higher is searched first.
type Priority int32

// PriorityFn scores a move for ordering purposes.
type PriorityFn func(m shogi.Move) Priority

// PredicateFn reports whether a move should be explored at all (used by
// quiescence search and other forward-pruning to restrict the move set).
type PredicateFn func(m shogi.Move) bool

// MoveList is a move priority queue for move ordering.
type MoveList struct {
	h moveHeap
}

// NewMoveList returns a new move list ordered by fn, highest priority first.
func NewMoveList(moves []shogi.Move, fn PriorityFn) *MoveList {
	h := moveHeap(make([]elm, len(moves)))
	for i, m := range moves {
		h[i] = elm{m: m, val: fn(m)}
	}
	heap.Init(&h)
	return &MoveList{h: h}
}

// Next returns the next highest-priority move, or false if exhausted.
func (ml *MoveList) Next() (shogi.Move, bool) {
	if ml.Size() == 0 {
		return shogi.Move{}, false
	}
	ret := heap.Pop(&ml.h).(elm)
	return ret.m, true
}

func (ml *MoveList) Size() int {
	return ml.h.Len()
}

func (ml *MoveList) String() string {
	if ml.Size() == 0 {
		return "[size=0]"
	}
	return fmt.Sprintf("[top=%v, size=%v]", ml.h[0].m, ml.Size())
}

type elm struct {
	m   shogi.Move
	val Priority
}

type moveHeap []elm

func (h moveHeap) Len() int            { return len(h) }
func (h moveHeap) Less(i, j int) bool  { return h[i].val > h[j].val }
func (h moveHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *moveHeap) Push(x interface{}) { panic("fixed size heap") }

func (h *moveHeap) Pop() interface{} {
	n := len(*h)
	ret := (*h)[n-1]
	*h = (*h)[0 : n-1]
	return ret
}
