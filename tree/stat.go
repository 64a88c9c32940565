package tree

// Stat is the (sum, visits) accumulator shared by a node's in-tree
// statistics (exp) and its All-Moves-As-First statistics (rave). Scores
// are in [0, 1] from the perspective of the player to move at the parent.
type Stat struct {
	sum    float32
	visits uint32
}

// Add records one simulation outcome.
func (s *Stat) Add(score float32) {
	s.sum += score
	s.visits++
}

// AddVirtualLoss pessimistically records a loss (score 0) without
// counting a real visit's worth of information, so concurrent selections
// of the same node steer away from it until backup corrects the count.
func (s *Stat) AddVirtualLoss(n uint32) {
	s.visits += n
}

// SubVirtualLoss undoes AddVirtualLoss once the real result is known.
func (s *Stat) SubVirtualLoss(n uint32) {
	if s.visits >= n {
		s.visits -= n
	}
}

// Visits returns the visit count.
func (s Stat) Visits() uint32 { return s.visits }

// Avg returns sum/visits, or 0 for an unvisited stat.
func (s Stat) Avg() float32 {
	if s.visits == 0 {
		return 0
	}
	return s.sum / float32(s.visits)
}
