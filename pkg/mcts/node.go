package mcts

import (
	"fmt"

	"github.com/IlikeChooros/nttt/pkg/board"
)

// Index of a node in the tree's arena
type NodeHandle int32

// Parent handle of the root
const noNode NodeHandle = -1

type node struct {
	state  board.State
	toMove board.Player
	// Move that produced this node, -1 for the root
	move int
	// Legal moves of the state, nil for terminal nodes
	moves    []int
	parent   NodeHandle
	children []NodeHandle
	depth    int32
	terminal bool
	winner   board.Player

	// visit counter (N) and value accumulator (V)
	n int32
	v float64
}

// Average value V/N, only meaningful when N > 0
func (nd *node) avg() float64 {
	return nd.v / float64(nd.n)
}

// Search tree of a single decision. Nodes live in one slice and refer to
// each other by handle, the whole arena is dropped after the decision.
type tree struct {
	patterns *board.Patterns
	nodes    []node
	maxDepth int32
}

func newTree(patterns *board.Patterns, capacity int) *tree {
	return &tree{
		patterns: patterns,
		nodes:    make([]node, 0, capacity),
	}
}

func (t *tree) node(h NodeHandle) *node {
	return &t.nodes[h]
}

func (t *tree) size() int {
	return len(t.nodes)
}

// Append a node, 'moves' are used as is for non-terminal states
func (t *tree) add(parent NodeHandle, state board.State, toMove board.Player, move int, moves []int) NodeHandle {
	terminal, winner := state.Terminal(t.patterns)
	if terminal {
		moves = nil
	} else if len(moves) == 0 {
		panic(fmt.Sprintf("mcts: non-terminal node without legal moves (move %d)", move))
	}

	depth := int32(0)
	if parent != noNode {
		depth = t.nodes[parent].depth + 1
	}

	h := NodeHandle(len(t.nodes))
	t.nodes = append(t.nodes, node{
		state:    state,
		toMove:   toMove,
		move:     move,
		moves:    moves,
		parent:   parent,
		depth:    depth,
		terminal: terminal,
		winner:   winner,
	})

	if parent != noNode {
		t.nodes[parent].children = append(t.nodes[parent].children, h)
	}
	t.maxDepth = max(t.maxDepth, depth)
	return h
}

// Create the root, with the caller supplied legal moves
func (t *tree) addRoot(state board.State, toMove board.Player, moves []int) NodeHandle {
	return t.add(noNode, state, toMove, -1, append([]int(nil), moves...))
}

// Apply 'move' to the parent's state and attach the child, the mover flips
func (t *tree) addChild(parent NodeHandle, move int) NodeHandle {
	p := t.nodes[parent]
	state, err := p.state.Apply(p.toMove, move)
	if err != nil {
		panic(fmt.Sprintf("mcts: expanding node %d: %v", parent, err))
	}
	return t.add(parent, state, p.toMove.Other(), move, state.LegalMoves(t.patterns.Size()))
}

// Create a child for each of the node's legal moves, in order
func (t *tree) seed(h NodeHandle) []NodeHandle {
	moves := t.nodes[h].moves
	for _, m := range moves {
		t.addChild(h, m)
	}
	return t.nodes[h].children
}

// Expand a leaf: only the forced child if there is a forced move,
// every legal move otherwise. Returns the new children.
func (t *tree) expand(h NodeHandle) []NodeHandle {
	nd := &t.nodes[h]
	if forced, ok := board.ForcedMove(nd.state, t.patterns); ok {
		t.addChild(h, forced)
		return t.nodes[h].children
	}
	return t.seed(h)
}

// Walk from 'h' up to the root, N += 1 and V += sign*result at every node
func (t *tree) backpropagate(h NodeHandle, result Result, player board.Player) {
	for h != noNode {
		nd := &t.nodes[h]
		nd.n++
		nd.v += rewardSign(nd.toMove, player) * float64(result)
		h = nd.parent
	}
}

// Child of 'h' chosen by the given policy, noNode if there are no visited children
func (t *tree) bestChild(h NodeHandle, policy BestChildPolicy) NodeHandle {
	best := noNode
	var bestAvg float64
	var bestVisits int32

	for _, c := range t.nodes[h].children {
		child := &t.nodes[c]
		if child.n == 0 {
			continue
		}

		switch policy {
		case BestChildMostVisits:
			if best == noNode || child.n > bestVisits {
				best, bestVisits = c, child.n
			}
		default:
			if avg := child.avg(); best == noNode || avg > bestAvg {
				best, bestAvg = c, avg
			}
		}
	}

	return best
}
