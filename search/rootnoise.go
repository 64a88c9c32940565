package search

import (
	"time"

	distrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/hexmind/havannah/tree"
)

// MixRootNoise perturbs each of the root's children's knowledge prior
// with a Dirichlet sample, the same AlphaZero-style root diversification
// the teacher's mcts.New wires into its policy vector — here repurposed
// as a knowledge-prior perturbation, since this engine has no policy
// network to perturb. A weight of 0 (the default) leaves every prior
// untouched, preserving the deterministic regression property spec §8
// requires when root noise is off.
func MixRootNoise(t *tree.Tree, root tree.NodeID, weight float32) {
	if weight <= 0 {
		return
	}
	kids := t.Children(root)
	if len(kids) == 0 {
		return
	}

	alpha := make([]float64, len(kids))
	for i := range alpha {
		alpha[i] = dirichletAlpha
	}
	dist := distmv.NewDirichlet(alpha, distrand.NewSource(uint64(time.Now().UnixNano())))
	sample := dist.Rand(nil)

	for i, kid := range kids {
		n := t.Node(kid)
		noise := int32(weight * float32(sample[i]) * knowledgeNoiseScale)
		n.AddKnow(noise)
	}
}

const (
	dirichletAlpha      = 0.3
	knowledgeNoiseScale = 1000
)
