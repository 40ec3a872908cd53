package mcts

import (
	"fmt"
	"math"
)

// UCB1 score of node 'h': V/N + c*sqrt(2*ln(N_parent)/N).
// Unvisited nodes score +Inf. The root has no parent, asking for its
// score is an error.
func (t *tree) ucb(h NodeHandle, c float64) (float64, error) {
	nd := &t.nodes[h]
	if nd.parent == noNode {
		return 0, fmt.Errorf("%w: node %d", ErrRootUCB, h)
	}

	if nd.n == 0 {
		return math.Inf(1), nil
	}

	parentVisits := float64(t.nodes[nd.parent].n)
	visits := float64(nd.n)
	return nd.v/visits + c*math.Sqrt(2*math.Log(parentVisits)/visits), nil
}

// Child with the highest UCB1 score, the first one wins ties
func (t *tree) selectChild(h NodeHandle, c float64) (NodeHandle, error) {
	best := noNode
	bestScore := math.Inf(-1)

	for _, child := range t.nodes[h].children {
		score, err := t.ucb(child, c)
		if err != nil {
			return noNode, err
		}

		// Pick the unvisited one
		if math.IsInf(score, 1) {
			return child, nil
		}

		if best == noNode || score > bestScore {
			best, bestScore = child, score
		}
	}

	return best, nil
}
