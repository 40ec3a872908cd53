package mcts

import (
	"context"
	"fmt"
	"strings"
)

type StopReason int

const (
	StopNone      StopReason = 0
	StopInterrupt StopReason = 1  // Context cancelled or SetStop(true)
	StopMovetime  StopReason = 2  // Time limit reached
	StopNodes     StopReason = 4  // Tree size limit reached
	StopDepth     StopReason = 8  // Depth limit reached
	StopCycles    StopReason = 16 // Cycle budget exhausted
)

func (sr StopReason) String() string {
	if sr == StopNone {
		return "None"
	}

	reasons := []struct {
		flag StopReason
		name string
	}{
		{StopInterrupt, "Interrupt"},
		{StopMovetime, "Movetime"},
		{StopNodes, "Nodes"},
		{StopDepth, "Depth"},
		{StopCycles, "Cycles"},
	}

	var result string
	for _, r := range reasons {
		if sr&r.flag == r.flag {
			if result != "" {
				result += "|"
			}
			result += r.name
		}
	}

	return result
}

func (sr StopReason) MarshalText() ([]byte, error) {
	return []byte(sr.String()), nil
}

func (sr *StopReason) UnmarshalText(text []byte) error {
	*sr = StopNone
	if len(text) == 0 || string(text) == "None" {
		return nil
	}

	for _, name := range strings.Split(string(text), "|") {
		flag, ok := stopReasonNames[name]
		if !ok {
			return fmt.Errorf("unknown stop reason %q", name)
		}
		*sr |= flag
	}
	return nil
}

var stopReasonNames = map[string]StopReason{
	"Interrupt": StopInterrupt,
	"Movetime":  StopMovetime,
	"Nodes":     StopNodes,
	"Depth":     StopDepth,
	"Cycles":    StopCycles,
}

// Decides when the iteration loop of a single decision ends
type Limiter struct {
	limits *Limits
	timer  *timer
	stop   bool
	reason StopReason
	ctx    context.Context
}

func NewLimiter() *Limiter {
	return &Limiter{
		limits: DefaultLimits(),
		timer:  newTimer(),
		ctx:    context.Background(),
	}
}

// Called on search setup, restarts the clock and clears the stop flag
func (l *Limiter) Reset() {
	l.timer.Movetime(l.limits.Movetime)
	l.timer.Reset()
	l.stop = false
	l.reason = StopNone
}

func (l *Limiter) SetContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	l.ctx = ctx
}

func (l *Limiter) SetStop(v bool) {
	l.stop = v
}

// Stop signal, set either explicitly or by the context
func (l *Limiter) Stop() bool {
	select {
	case <-l.ctx.Done():
		l.stop = true
	default:
	}
	return l.stop
}

func (l *Limiter) SetLimits(limits *Limits) {
	l.limits = limits.normalized()
}

func (l *Limiter) Limits() *Limits {
	return l.limits
}

// Elapsed time in ms since the last Reset, at least 1
func (l *Limiter) Elapsed() uint32 {
	return uint32(l.timer.Deltatime())
}

func toMask(val bool, flag StopReason) StopReason {
	if val {
		return flag
	}
	return StopNone
}

// Every limit that is currently reached
func (l *Limiter) LimitMask(size, depth, cycles uint32) StopReason {
	return toMask(l.Stop(), StopInterrupt) |
		toMask(l.timer.IsEnd(), StopMovetime) |
		toMask(l.limits.Nodes <= size, StopNodes) |
		toMask(l.limits.Depth <= int(depth), StopDepth) |
		toMask(l.limits.Cycles <= cycles, StopCycles)
}

// Wheter the search may run another cycle
func (l *Limiter) Ok(size, depth, cycles uint32) bool {
	return l.LimitMask(size, depth, cycles) == StopNone
}

// Store the reason why the search stopped, called once after the loop ends
func (l *Limiter) EvaluateStopReason(size, depth, cycles uint32) {
	l.reason = l.LimitMask(size, depth, cycles)
}

func (l *Limiter) StopReason() StopReason {
	return l.reason
}
