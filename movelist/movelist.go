// Package movelist records the sequence of moves played during a single
// search iteration (tree descent plus rollout), so backup can credit
// RAVE (All-Moves-As-First) statistics to any tree child whose move
// shows up later in the same simulation, however it got there.
package movelist

import "github.com/hexmind/havannah/board"

// Record is one played move, tagged with who played it and whether it
// happened while still inside the tree (as opposed to during rollout).
type Record struct {
	Move   board.Move
	Player board.Piece
	InTree bool
}

// MoveList is owned by exactly one worker goroutine and reset at the
// start of every iteration; it is never shared, so it needs no locking.
type MoveList struct {
	records []Record
}

// New returns an empty MoveList with headroom for a typical iteration
// (tree depth plus a full rollout on a mid-size board).
func New() *MoveList {
	return &MoveList{records: make([]Record, 0, 128)}
}

// Reset clears the list for reuse on the next iteration.
func (l *MoveList) Reset() { l.records = l.records[:0] }

// AddTree appends an in-tree selection move.
func (l *MoveList) AddTree(m board.Move, p board.Piece) {
	l.records = append(l.records, Record{Move: m, Player: p, InTree: true})
}

// AddRollout appends a rollout move.
func (l *MoveList) AddRollout(m board.Move, p board.Piece) {
	l.records = append(l.records, Record{Move: m, Player: p})
}

// Len returns the number of recorded moves.
func (l *MoveList) Len() int { return len(l.records) }

// At returns the record at position i.
func (l *MoveList) At(i int) Record { return l.records[i] }

// ContainsFrom reports whether move m was played at or after index
// start, by player p (or by either player, when opmoves is set). This is
// backup's RAVE-eligibility test: a tree node at depth `start` only picks
// up AMAF credit from moves that happened at or after its own position
// in this same simulation.
func (l *MoveList) ContainsFrom(start int, m board.Move, p board.Piece, opmoves bool) bool {
	for i := start; i < len(l.records); i++ {
		r := l.records[i]
		if r.Move == m && (r.Player == p || opmoves) {
			return true
		}
	}
	return false
}
