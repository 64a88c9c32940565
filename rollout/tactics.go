package rollout

import "github.com/hexmind/havannah/board"

// chooseMove runs the rollout's cheap tactical checks, in the order the
// reference engine applies them: instant win, forced block (with a
// two-distinct-replies early loss), contour scan, bridge-probe defence,
// last-good-reply. It returns either a move to play this ply, or
// decided=true with winner set when the position is already lost for
// the side to move regardless of what it plays.
func (e *Engine) chooseMove(b *board.Board, prevMove board.Move, doInstWin *int, checkRings bool) (move board.Move, decided bool, winner board.Piece) {
	toplay := b.Toplay()

	if e.cfg.InstantWin >= 1 && *doInstWin > 0 {
		*doInstWin--

		for _, m := range b.LegalMoves(false) {
			if b.TestWin(m, toplay) {
				return m, false, board.Empty
			}
		}

		if e.cfg.InstantWin >= 2 {
			loss := board.MoveNone
			losses := 0
			for _, m := range b.LegalMoves(false) {
				if b.TestWin(m, toplay.Opponent()) {
					loss = m
					losses++
					if losses >= 2 {
						return board.MoveNone, true, toplay.Opponent()
					}
				}
			}
			if loss.IsCell() {
				return loss, false, board.Empty
			}
		}

		if e.cfg.InstantWin >= 3 {
			if mv, found, winner := e.contourScan(b, prevMove); found {
				if winner != board.Empty {
					return board.MoveNone, true, winner
				}
				return mv, false, board.Empty
			}
		}
	}

	if e.cfg.RolloutPattern && prevMove.IsCell() {
		if mv, ok := b.FindBridgeReply(prevMove, e.nextPatternOffset()); ok {
			return mv, false, board.Empty
		}
	}

	if e.cfg.LastGoodReply > 0 && prevMove.IsCell() {
		if mv := e.goodReply[toplay-1][int(prevMove)]; mv.IsCell() && b.Valid(mv) {
			return mv, false, board.Empty
		}
	}

	return board.MoveNone, false, board.Empty
}

// contourScan walks the border of the group containing prevMove looking
// for empty cells that would let the player to move's opponent win
// immediately. This is a simplification of the original's true
// contour-following walk (which steps through off-board virtual
// coordinates too): here it's a BFS over the same-coloured group and its
// empty neighbours, a superset of the contour that's simpler to get
// right at the cost of visiting a few more cells than strictly needed.
// A single such cell is returned as the move to block; two or more mean
// the block is impossible, and found comes back with winner set to that
// opponent.
func (e *Engine) contourScan(b *board.Board, prevMove board.Move) (move board.Move, found bool, winner board.Piece) {
	if !prevMove.IsCell() {
		return board.MoveNone, false, board.Empty
	}
	opponent := b.Toplay().Opponent()
	colour := b.Get(prevMove)
	if colour == board.Empty {
		return board.MoveNone, false, board.Empty
	}

	visited := map[board.Move]bool{prevMove: true}
	queue := []board.Move{prevMove}
	seenEmpty := map[board.Move]bool{}
	var onlyLoss board.Move = board.MoveNone
	losses := 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for d := 0; d < board.NumDirections; d++ {
			n, ok := b.Neighbour(cur, d)
			if !ok {
				continue
			}
			switch b.Get(n) {
			case colour:
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			case board.Empty:
				if seenEmpty[n] {
					continue
				}
				seenEmpty[n] = true
				if b.TestWin(n, opponent) {
					losses++
					onlyLoss = n
					if losses >= 2 {
						return board.MoveNone, true, opponent
					}
				}
			}
		}
	}

	if losses == 1 {
		return onlyLoss, true, board.Empty
	}
	return board.MoveNone, false, board.Empty
}
