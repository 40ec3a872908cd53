package mcts

import "github.com/IlikeChooros/nttt/pkg/board"

// Outcome of a playout, always from the engine's own player perspective
type Result float64

const (
	WinScore  Result = 1
	LoseScore Result = -1
	TieScore  Result = 0
)

type BestChildPolicy int

// Lifecycle of a single decision, see Engine.Phase
type Phase int

const (
	PhaseIdle      Phase = iota // no tree
	PhaseRooted                 // root created, no children yet
	PhaseExpanded               // root children seeded
	PhaseIterating              // select/expand/simulate/backpropagate loop
	PhaseConverged              // budget exhausted, choosing the move
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseRooted:
		return "Rooted"
	case PhaseExpanded:
		return "Expanded"
	case PhaseIterating:
		return "Iterating"
	case PhaseConverged:
		return "Converged"
	}
	return "Unknown"
}

type SeedGeneratorFnType func() int64

// Terminal reward for the engine's player given the winner
func reward(winner, player board.Player) Result {
	switch winner {
	case board.NoPlayer:
		return TieScore
	case player:
		return WinScore
	}
	return LoseScore
}

// Sign applied to a backpropagated reward at a node. A node where the opponent
// is to move was reached by the engine's own move, it collects the reward as is,
// nodes with the engine to move collect it negated. Every ancestor goes through
// this function, regardless of depth parity.
func rewardSign(toMove, player board.Player) float64 {
	if toMove == player {
		return -1
	}
	return 1
}
