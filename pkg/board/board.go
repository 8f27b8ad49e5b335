package board

import (
	"fmt"

	"github.com/herohde/shogo/pkg/shogi"
)

const sennichiteLimit = 4

type node struct {
	pos     *Position
	hash    Hash
	checked bool // true iff the side to move *after* this node's move was left in check by it (i.e. the mover delivered check)

	next shogi.Move // move leading to the next node, if any
	prev *node
}

// Board tracks a position's move history, side to move, and game result.
// Not safe for concurrent use; fork with Fork before handing to a worker.
type Board struct {
	zt          *Table
	repetitions map[Hash]int

	moveNum int
	turn    shogi.Side
	result  Result
	current *node
}

// NewBoard creates a board from an initial position, side to move, and
// move number (as in SFEN's trailing field).
func NewBoard(zt *Table, pos *Position, turn shogi.Side, moveNum int) *Board {
	current := &node{
		pos:  pos,
		hash: zt.Hash(pos, turn),
	}
	return &Board{
		zt:          zt,
		repetitions: map[Hash]int{current.hash: 1},
		moveNum:     moveNum,
		turn:        turn,
		current:     current,
	}
}

// Fork branches a new board sharing prior history; the fork must not call
// PopMove past the fork point, since the shared nodes would become stale
// for the original.
func (b *Board) Fork() *Board {
	fork := &Board{
		zt:          b.zt,
		repetitions: make(map[Hash]int, len(b.repetitions)),
		moveNum:     b.moveNum,
		turn:        b.turn,
		result:      b.result,
		current:     b.current,
	}
	for k, v := range b.repetitions {
		fork.repetitions[k] = v
	}
	return fork
}

func (b *Board) Position() *Position { return b.current.pos }
func (b *Board) Turn() shogi.Side    { return b.turn }
func (b *Board) MoveNum() int        { return b.moveNum }
func (b *Board) Result() Result      { return b.result }
func (b *Board) Hash() Hash          { return b.current.hash }

// PushMove attempts to make a pseudo-legal move or drop. Returns false iff
// illegal.
func (b *Board) PushMove(m shogi.Move) bool {
	if b.result.Outcome != Undecided {
		return false
	}

	next, ok := b.current.pos.Move(b.turn, m)
	if !ok {
		return false
	}
	if next.IsChecked(b.turn) {
		return false // moving into/leaving own king in check
	}

	n := &node{
		pos:     next,
		hash:    b.zt.Move(b.current.hash, b.current.pos, b.turn, m),
		checked: next.IsChecked(b.turn.Opponent()),
		prev:    b.current,
	}
	b.current.next = m
	b.current = n
	b.turn = b.turn.Opponent()
	if b.turn == shogi.Black {
		b.moveNum++
	}
	b.repetitions[b.current.hash]++

	if b.repetitions[b.current.hash] >= sennichiteLimit {
		b.adjudicateRepetition()
	}

	return true
}

// PopMove undoes the latest move, returning it.
func (b *Board) PopMove() (shogi.Move, bool) {
	if b.current.prev == nil {
		return shogi.Move{}, false
	}
	b.repetitions[b.current.hash]--
	b.turn = b.turn.Opponent()
	if b.turn == shogi.White {
		b.moveNum--
	}
	b.result = Result{Outcome: Undecided}

	b.current = b.current.prev
	m := b.current.next
	b.current.next = shogi.Move{}
	return m, true
}

// PushNullMove passes the turn without making a move, used by null-move
// pruning to test whether the opponent already stands so well that even a
// free move wouldn't save the position. Illegal while in check, since a
// null move can't escape check and the resulting "legal" position would be
// nonsense.
func (b *Board) PushNullMove() bool {
	if b.result.Outcome != Undecided || b.current.pos.IsChecked(b.turn) {
		return false
	}

	n := &node{
		pos:  b.current.pos,
		hash: b.zt.Pass(b.current.hash),
		prev: b.current,
	}
	b.current.next = shogi.Move{}
	b.current = n
	b.turn = b.turn.Opponent()
	if b.turn == shogi.Black {
		b.moveNum++
	}
	return true
}

// PopNullMove undoes a PushNullMove.
func (b *Board) PopNullMove() {
	b.turn = b.turn.Opponent()
	if b.turn == shogi.White {
		b.moveNum--
	}
	b.result = Result{Outcome: Undecided}
	b.current = b.current.prev
}

// AdjudicateNoLegalMoves records the result when the side to move has no
// legal moves: always a loss for that side, since shogi has no stalemate.
func (b *Board) AdjudicateNoLegalMoves() Result {
	result := Result{Outcome: Loss(b.turn), Reason: NoLegalMove}
	if b.Position().IsChecked(b.turn) {
		result.Reason = Checkmate
	}
	b.Adjudicate(result)
	return result
}

// Adjudicate records an externally-decided result (resignation, impasse
// declaration scoring, etc).
func (b *Board) Adjudicate(result Result) {
	b.result = result
}

// adjudicateRepetition checks whether the repeated position was reached
// under continuous check from one side (perpetual check, a loss for the
// checking side) or is an ordinary sennichite draw.
func (b *Board) adjudicateRepetition() {
	allChecks := true
	checkingSide := b.turn.Opponent()

	n := b.current
	for i := 0; i < sennichiteLimit-1 && n != nil && n.prev != nil; i++ {
		if !n.checked {
			allChecks = false
			break
		}
		n = n.prev.prev // the checking side's previous move
	}

	if allChecks {
		b.result = Result{Outcome: Loss(checkingSide), Reason: PerpetualCheck}
		return
	}
	b.result = Result{Outcome: Draw, Reason: Sennichite}
}

// LastMove returns the most recently played move, if any.
func (b *Board) LastMove() (shogi.Move, bool) {
	if b.current.prev != nil {
		return b.current.prev.next, true
	}
	return shogi.Move{}, false
}

func (b *Board) String() string {
	return fmt.Sprintf("board{turn=%v, hash=%x, moveNum=%v, result=%v}", b.turn, b.current.hash, b.moveNum, b.result)
}
