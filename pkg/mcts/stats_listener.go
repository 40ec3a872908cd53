package mcts

// Snapshot of a running (or finished) decision, passed to listener callbacks
type ListenerTreeStats struct {
	Maxdepth   int
	Cycles     int
	TimeMs     int
	Cps        uint32
	Size       int
	BestMove   int
	BestValue  float64
	StopReason StopReason
}

// Listener function callback, will recieve current tree statistics, like
// max depth of tree, number of iterations so far
type ListenerFunc func(ListenerTreeStats)

type StatsListener struct {
	// called when 'max depth' increases
	onDepth ListenerFunc

	// called every N full iterations
	onCycle ListenerFunc
	nCycles int // call 'onCycle' every N cycles

	// called when the search stops
	onStop ListenerFunc
}

func NewStatsListener() StatsListener {
	return StatsListener{nCycles: 1}
}

// Attach new on max depth change callback
func (listener *StatsListener) OnDepth(onDepth ListenerFunc) *StatsListener {
	listener.onDepth = onDepth
	return listener
}

// Attach new on iteration callback, invoked every N cycles (see SetCycleInterval)
func (listener *StatsListener) OnCycle(onCycle ListenerFunc) *StatsListener {
	listener.onCycle = onCycle
	return listener
}

func (listener *StatsListener) SetCycleInterval(n int) *StatsListener {
	if n < 1 {
		n = 1
	}
	listener.nCycles = n
	return listener
}

// Attach 'on search end' callback, makes 'StopReason' available in the stats
func (listener *StatsListener) OnStop(onStop ListenerFunc) *StatsListener {
	listener.onStop = onStop
	return listener
}

func (listener *StatsListener) interval() int {
	return max(1, listener.nCycles)
}

func invoke(f ListenerFunc, stats func() ListenerTreeStats) {
	if f != nil {
		f(stats())
	}
}
