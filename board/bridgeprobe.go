package board

// NumDirections is the number of hex neighbour directions.
const NumDirections = 6

// Neighbour returns the cell in direction dir (0-5, clockwise from
// neighbourDX/neighbourDY) from m, and whether it is on-board.
func (b *Board) Neighbour(m Move, dir int) (Move, bool) {
	x, y := b.XY(m)
	nx, ny := x+neighbourDX[dir], y+neighbourDY[dir]
	if !b.onBoard2(nx, ny) {
		return MoveNone, false
	}
	return b.FromXY(nx, ny), true
}

// FindBridgeReply runs the same forced-reply state machine as
// BridgeProbe, but scans for any qualifying empty cell around move
// rather than testing one candidate, returning the first one found. The
// scan starts at (offset mod 6) so repeated calls during a single
// rollout rotate which direction is favoured when more than one
// candidate exists, rather than always preferring the same one.
func (b *Board) FindBridgeReply(move Move, offset int) (Move, bool) {
	mover := b.Get(move)
	if mover == Empty {
		return MoveNone, false
	}
	piece := mover.Opponent()
	x, y := b.XY(move)
	a := offset % 6

	state := 0
	var candidate Move = MoveNone
	for i := 0; i < 8; i++ {
		d := (i + a) % 6
		cx, cy := x+neighbourDX[d], y+neighbourDY[d]
		on := b.onBoard2(cx, cy)
		v := Empty
		if on {
			v = b.cells[b.xyIndex(cx, cy)].piece
		}

		switch state {
		case 0:
			if !on || v == piece {
				state = 1
			}
		case 1:
			if on {
				if v == Empty {
					state = 2
					candidate = b.FromXY(cx, cy)
				} else if v != piece {
					state = 0
				}
			}
		default: // state 2
			if !on || v == piece {
				if candidate != MoveNone {
					return candidate, true
				}
				state = 1
			} else {
				state = 0
			}
		}
	}
	return MoveNone, false
}

// BridgeProbe tests whether test is a forced reply to an opponent move
// that probes the virtual bridge connection through move: scanning the
// eight (six directions, wrapping one and a half times to catch patterns
// that straddle the 0/5 boundary) positions around move, it looks for
// the pattern "mine-or-border, empty, mine-or-border" with test in the
// empty slot. A forced-reply defender must play test or the connection
// can be cut.
func (b *Board) BridgeProbe(move, test Move) bool {
	if b.CubeDistance(move, test) != 1 {
		return false
	}

	mover := b.Get(move)
	if mover == Empty {
		return false
	}
	piece := mover.Opponent()
	x, y := b.XY(move)

	state := 0
	equals := false
	for i := 0; i < 8; i++ {
		d := i % 6
		cx, cy := x+neighbourDX[d], y+neighbourDY[d]
		on := b.onBoard2(cx, cy)
		v := Empty
		if on {
			v = b.cells[b.xyIndex(cx, cy)].piece
		}

		switch state {
		case 0:
			if !on || v == piece {
				state = 1
			}
		case 1:
			if on {
				if v == Empty {
					state = 2
					equals = test == b.FromXY(cx, cy)
				} else if v != piece {
					state = 0
				}
			}
		default: // state 2
			if !on || v == piece {
				if equals {
					return true
				}
				state = 1
			} else {
				state = 0
			}
		}
	}
	return false
}
