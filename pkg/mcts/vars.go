package mcts

import (
	"math"

	"lukechampine.com/frand"
)

// Default number of cycles per root move, total budget = legal moves * this value
const DefaultIterationsPerBranch = 1000

// Exploration constant 'c' in V/N + c*sqrt(2*ln(N_parent)/N)
const DefaultExplorationConstant = 2.0

const (
	// Pick the root child with the best average value V/N, the engine's default
	BestChildAverageValue BestChildPolicy = iota

	// Classic MCTS choice, the most visited root child
	BestChildMostVisits
)

var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return int64(frand.Uint64n(math.MaxInt64))
}

// Set custom seed generator function for the rollout random number generators,
// by default uses a cryptographically seeded source
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}
