// Package knowledge computes the scalar prior ("know") that expansion
// attaches to a freshly created child node. Every function here is a
// pure read over a Board: no node or tree type appears in this package,
// so it is trivial to unit test and to tune independently of the search
// loop that consumes it.
package knowledge

import "github.com/hexmind/havannah/board"

// Weights holds the per-term coefficients from the flat configuration
// table (locality, local_reply, connect, size, bridge, dists). A zero
// Weights disables every term; the search package multiplies the summed
// prior by a further global "knowledge" scale when blending it into UCT.
type Weights struct {
	LocalReply float32
	Locality   float32
	Connect    float32
	Size       float32
	Bridge     float32
	Dists      float32
}

// Prior estimates the value of playing candidate for toplay, given the
// move that led to the current position (prevMove, or board.MoveNone at
// the root). It mirrors add_knowledge term-for-term: a local-reply boost
// that grows as candidate gets closer to the immediately preceding move
// (within hex distance 3), a locality boost for each of toplay's own
// stones within two steps of candidate, a connectivity/size boost from the
// group the move would speculatively join, a bridge-probe boost for
// forced replies, and a distance-to-a-corner boost.
func Prior(b *board.Board, prevMove, candidate board.Move, toplay board.Piece, w Weights) int32 {
	var know float32

	if w.LocalReply != 0 && prevMove.IsCell() {
		if dist := b.CubeDistance(prevMove, candidate); dist < 4 {
			know += w.LocalReply * float32(4-dist)
		}
	}

	if w.Locality != 0 {
		know += w.Locality * float32(b.Local(candidate, toplay))
	}

	if w.Connect != 0 || w.Size != 0 {
		corners, edges, size := b.TestCell(candidate, toplay)
		if w.Connect != 0 {
			know += w.Connect * float32(corners+edges)
		}
		if w.Size != 0 {
			know += w.Size * float32(size)
		}
	}

	if w.Bridge != 0 && prevMove.IsCell() && b.BridgeProbe(prevMove, candidate) {
		know += w.Bridge
	}

	if w.Dists != 0 {
		know += absf32(w.Dists) * float32(maxInt(0, sizeD(b)-distToCorner(b, candidate)))
	}

	return int32(know)
}

func sizeD(b *board.Board) int { return 2*b.Size() - 1 }

// distToCorner is a simplified stand-in for the original engine's
// dists-to-win table (not present in the retrieved reference sources):
// the hex distance from candidate to its nearest corner, a cheap proxy
// for "how much closer does this move bring a bridge win."
func distToCorner(b *board.Board, candidate board.Move) int {
	best := -1
	for _, c := range b.Corners() {
		d := b.CubeDistance(candidate, c)
		if best == -1 || d < best {
			best = d
		}
	}
	return best
}

func absf32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
