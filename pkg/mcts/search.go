package mcts

import (
	"fmt"
	"math/bits"
	"math/rand"

	"github.com/IlikeChooros/nttt/pkg/board"
)

// Iteration loop, simply calls:
//
// 1. selection - descend by UCB1 to a leaf
//
// 2. expansion - grow the leaf if it was visited before
//
// 3. rollout - play the game out, forced moves first, random otherwise
//
// 4. backpropagate - update counters up to the root
//
// until the limiter says stop.
func (e *Engine) search(t *tree, root NodeHandle) error {
	var cycles uint32
	lastDepth := t.maxDepth

	for e.limiter.Ok(uint32(t.size()), uint32(t.maxDepth), cycles) {
		leaf, err := e.selection(t, root)
		if err != nil {
			return err
		}

		leaf = e.expansion(t, leaf)
		nd := t.node(leaf)
		t.backpropagate(leaf, rollout(nd.state, nd.toMove, t.patterns, e.player, e.rand), e.player)
		cycles++

		if e.listener.onDepth != nil && t.maxDepth > lastDepth {
			lastDepth = t.maxDepth
			invoke(e.listener.onDepth, func() ListenerTreeStats { return e.listenerStats(t, root, int(cycles)) })
		}
		if e.listener.onCycle != nil && int(cycles)%e.listener.interval() == 0 {
			invoke(e.listener.onCycle, func() ListenerTreeStats { return e.listenerStats(t, root, int(cycles)) })
		}
	}

	e.limiter.EvaluateStopReason(uint32(t.size()), uint32(t.maxDepth), cycles)
	invoke(e.listener.onStop, func() ListenerTreeStats { return e.listenerStats(t, root, int(cycles)) })
	return nil
}

// Descend from the root while the node has children, picking max UCB1
func (e *Engine) selection(t *tree, root NodeHandle) (NodeHandle, error) {
	h := root
	for len(t.node(h).children) > 0 {
		next, err := t.selectChild(h, e.exploration)
		if err != nil {
			return noNode, err
		}
		h = next
	}
	return h, nil
}

// Expand a visited, non-terminal leaf and return its first child,
// otherwise the leaf itself is simulated
func (e *Engine) expansion(t *tree, h NodeHandle) NodeHandle {
	nd := t.node(h)
	if nd.n == 0 || nd.terminal || len(nd.moves) == 0 {
		return h
	}
	return t.expand(h)[0]
}

// Play the game from 'state' until it ends and score it for 'player'.
// Forced moves are always played, any other move is chosen uniformly.
func rollout(state board.State, toMove board.Player, p *board.Patterns, player board.Player, r *rand.Rand) Result {
	for {
		if terminal, winner := state.Terminal(p); terminal {
			return reward(winner, player)
		}

		move, ok := board.ForcedMove(state, p)
		if !ok {
			move = randomCell(p.FullMask()&^state.Occupied(), r)
		}

		next, err := state.Apply(toMove, move)
		if err != nil {
			panic(fmt.Sprintf("mcts: rollout produced %v", err))
		}
		state = next
		toMove = toMove.Other()
	}
}

// Uniformly chosen set bit of a non-empty mask
func randomCell(free uint64, r *rand.Rand) int {
	for k := r.Intn(bits.OnesCount64(free)); k > 0; k-- {
		free &= free - 1
	}
	return bits.TrailingZeros64(free)
}
