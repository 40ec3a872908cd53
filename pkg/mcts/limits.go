package mcts

import (
	"encoding/json"
	"math"
	"strings"
)

// Search budget. Zero value fields are 'not set', the engine then falls back
// to the default cycle budget: legal moves * iterations per branch.
type Limits struct {
	Depth    int    `json:"depth"`
	Nodes    uint32 `json:"nodes"`
	Cycles   uint32 `json:"cycles"`
	Movetime int    `json:"movetime"`
}

func (l Limits) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(l)
	return strings.TrimSpace(builder.String())
}

const (
	DefaultDepthLimit    int    = math.MaxInt
	DefaultNodeLimit     uint32 = math.MaxUint32
	DefaultMovetimeLimit int    = -1
	DefaultCyclesLimit   uint32 = math.MaxUint32
)

func DefaultLimits() *Limits {
	return &Limits{
		Depth:    DefaultDepthLimit,
		Nodes:    DefaultNodeLimit,
		Cycles:   DefaultCyclesLimit,
		Movetime: DefaultMovetimeLimit,
	}
}

// Set the maximum depth of the tree
func (l *Limits) SetDepth(depth int) *Limits {
	l.Depth = depth
	return l
}

// Set the maxiumum number of nodes the tree may hold
func (l *Limits) SetNodes(nodes uint32) *Limits {
	l.Nodes = nodes
	return l
}

// Set the exact number of select/expand/simulate/backpropagate cycles
func (l *Limits) SetCycles(cycles uint32) *Limits {
	l.Cycles = cycles
	return l
}

// Set the maximum time for engine to think, in milliseconds
func (l *Limits) SetMovetime(movetime int) *Limits {
	l.Movetime = movetime
	return l
}

func (l *Limits) CyclesSet() bool {
	return l.Cycles != DefaultCyclesLimit && l.Cycles != 0
}

// Copy with unset (zero) fields replaced by defaults
func (l *Limits) normalized() *Limits {
	out := *l
	if out.Depth <= 0 {
		out.Depth = DefaultDepthLimit
	}
	if out.Nodes == 0 {
		out.Nodes = DefaultNodeLimit
	}
	if out.Cycles == 0 {
		out.Cycles = DefaultCyclesLimit
	}
	if out.Movetime == 0 {
		out.Movetime = DefaultMovetimeLimit
	}
	return &out
}
