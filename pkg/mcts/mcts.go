package mcts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/IlikeChooros/nttt/pkg/board"
)

var (
	// Decision requested on a finished game (no legal moves, or already won)
	ErrInvalidState = errors.New("invalid state")
	// UCB1 asked for a node without a parent
	ErrRootUCB = errors.New("ucb1 requested at the root")
	// Player identity is neither Player0 nor Player1
	ErrInvalidPlayer = errors.New("invalid player")
)

// Statistics of a single root child after the search
type ChildStats struct {
	Move   int     `json:"move"`
	Visits int32   `json:"visits"`
	Value  float64 `json:"value"`
}

// Average value V/N, 0 for unvisited children
func (c ChildStats) Avg() float64 {
	if c.Visits == 0 {
		return 0
	}
	return c.Value / float64(c.Visits)
}

// Summary of the last decision, available after the tree is discarded
type SearchResult struct {
	Move       int          `json:"move"`
	Forced     bool         `json:"forced"`
	Cycles     int          `json:"cycles"`
	Size       int          `json:"size"`
	MaxDepth   int          `json:"max_depth"`
	TimeMs     int          `json:"time_ms"`
	StopReason StopReason   `json:"stop_reason"`
	Children   []ChildStats `json:"children,omitempty"`
}

// Engine configuration, as reported by Engine.Config
type Config struct {
	BoardSize           int          `json:"board_size"`
	Player              board.Player `json:"player"`
	IterationsPerBranch int          `json:"iterations_per_branch"`
	ExplorationConstant float64      `json:"exploration_constant"`
	Limits              *Limits      `json:"limits,omitempty"`
	Seed                int64        `json:"seed"`
}

func (c Config) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(c)
	return strings.TrimSpace(builder.String())
}

// Monte Carlo Tree Search engine playing as a fixed player. Every decision
// builds its own tree and drops it when the move is chosen, nothing is kept
// between turns. Not safe for concurrent use.
type Engine struct {
	patterns            *board.Patterns
	player              board.Player
	iterationsPerBranch int
	exploration         float64
	limits              *Limits
	policy              BestChildPolicy
	seed                int64
	rand                *rand.Rand
	limiter             *Limiter
	listener            StatsListener
	phase               Phase
	last                SearchResult
}

type Option func(*Engine)

// Cycles per root move, the default budget is len(legalMoves) * k
func WithIterationsPerBranch(k int) Option {
	return func(e *Engine) {
		e.iterationsPerBranch = max(1, k)
	}
}

// UCB1 exploration constant 'c'
func WithExplorationConstant(c float64) Option {
	return func(e *Engine) {
		e.exploration = max(0, c)
	}
}

// Override the budget policy, unset cycles still default to the per-branch budget
func WithLimits(limits *Limits) Option {
	return func(e *Engine) {
		e.limits = limits
	}
}

// Seed of the rollout random number generator
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

func WithListener(listener StatsListener) Option {
	return func(e *Engine) {
		e.listener = listener
	}
}

// Final move choice, BestChildAverageValue unless set
func WithBestChildPolicy(policy BestChildPolicy) Option {
	return func(e *Engine) {
		e.policy = policy
	}
}

// Create an engine for the board described by 'patterns', playing as 'player'
func New(patterns *board.Patterns, player board.Player, opts ...Option) (*Engine, error) {
	if patterns == nil {
		return nil, fmt.Errorf("%w: nil pattern table", board.ErrBoardSize)
	}
	if !player.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}

	e := &Engine{
		patterns:            patterns,
		player:              player,
		iterationsPerBranch: DefaultIterationsPerBranch,
		exploration:         DefaultExplorationConstant,
		policy:              BestChildAverageValue,
		seed:                SeedGeneratorFn(),
		limiter:             NewLimiter(),
		listener:            NewStatsListener(),
		phase:               PhaseIdle,
		last:                SearchResult{Move: -1},
	}

	for _, opt := range opts {
		opt(e)
	}

	e.rand = rand.New(rand.NewSource(e.seed))
	return e, nil
}

func (e *Engine) Player() board.Player {
	return e.player
}

func (e *Engine) Name() string {
	return "mcts"
}

// Current decision phase, PhaseIdle outside of Decide
func (e *Engine) Phase() Phase {
	return e.phase
}

// Summary of the most recent decision
func (e *Engine) LastSearch() SearchResult {
	return e.last
}

func (e *Engine) Config() Config {
	return Config{
		BoardSize:           e.patterns.Size(),
		Player:              e.player,
		IterationsPerBranch: e.iterationsPerBranch,
		ExplorationConstant: e.exploration,
		Limits:              e.limits,
		Seed:                e.seed,
	}
}

func (e *Engine) String() string {
	return fmt.Sprintf("MCTS={Player=%v, Config=%v, Last={move=%d, cycles=%d, size=%d, depth=%d}}",
		e.player, e.Config(), e.last.Move, e.last.Cycles, e.last.Size, e.last.MaxDepth)
}

// Choose a move for the engine's player, legal moves are taken from the state
func (e *Engine) NextMove(state board.State) (int, error) {
	return e.Decide(state, state.LegalMoves(e.patterns.Size()))
}

// Run a full decision cycle on 'state' and return the chosen cell
func (e *Engine) Decide(state board.State, legalMoves []int) (int, error) {
	return e.DecideContext(context.Background(), state, legalMoves)
}

// Same as Decide, the search also stops when ctx is done
func (e *Engine) DecideContext(ctx context.Context, state board.State, legalMoves []int) (int, error) {
	e.last = SearchResult{Move: -1}
	if err := e.validate(state, legalMoves); err != nil {
		return -1, err
	}

	e.phase = PhaseRooted
	defer func() { e.phase = PhaseIdle }()

	// Tactical shortcut: win or block right away, no tree needed
	if move, ok := board.ForcedMove(state, e.patterns); ok {
		e.last = SearchResult{Move: move, Forced: true}
		log.Debug().Stringer("player", e.player).Int("move", move).Msg("forced-move")
		return move, nil
	}

	t := newTree(e.patterns, len(legalMoves)*e.iterationsPerBranch/2+1)
	root := t.addRoot(state, e.player, legalMoves)
	t.seed(root)
	e.phase = PhaseExpanded

	e.limiter.SetContext(ctx)
	e.limiter.SetLimits(e.budget(len(legalMoves)))
	e.limiter.Reset()

	e.phase = PhaseIterating
	if err := e.search(t, root); err != nil {
		return -1, err
	}
	e.phase = PhaseConverged

	best := t.bestChild(root, e.policy)
	if best == noNode {
		// Search was interrupted before any child was visited
		best = t.node(root).children[0]
	}

	e.last = e.summarize(t, root, best)
	log.Debug().
		Stringer("player", e.player).
		Int("move", e.last.Move).
		Int("cycles", e.last.Cycles).
		Int("nodes", e.last.Size).
		Int("depth", e.last.MaxDepth).
		Stringer("stop", e.last.StopReason).
		Msg("decide")

	return e.last.Move, nil
}

func (e *Engine) validate(state board.State, legalMoves []int) error {
	if len(legalMoves) == 0 {
		return fmt.Errorf("%w: no legal moves", ErrInvalidState)
	}
	if w := state.Winner(e.patterns); w != board.NoPlayer {
		return fmt.Errorf("%w: game already won by %v", ErrInvalidState, w)
	}

	cells := e.patterns.Cells()
	occupied := state.Occupied()
	for _, m := range legalMoves {
		if m < 0 || m >= cells || occupied&(uint64(1)<<uint(m)) != 0 {
			return fmt.Errorf("%w: cell %d in legal moves", board.ErrIllegalMove, m)
		}
	}
	return nil
}

// Limits of one decision, the cycle budget scales with the branching factor
func (e *Engine) budget(legalCount int) *Limits {
	limits := DefaultLimits()
	if e.limits != nil {
		limits = e.limits.normalized()
	}
	if !limits.CyclesSet() {
		limits.SetCycles(uint32(legalCount * e.iterationsPerBranch))
	}
	return limits
}

func (e *Engine) summarize(t *tree, root, best NodeHandle) SearchResult {
	rootNode := t.node(root)
	children := make([]ChildStats, len(rootNode.children))
	for i, c := range rootNode.children {
		child := t.node(c)
		children[i] = ChildStats{Move: child.move, Visits: child.n, Value: child.v}
	}

	return SearchResult{
		Move:       t.node(best).move,
		Cycles:     int(rootNode.n),
		Size:       t.size(),
		MaxDepth:   int(t.maxDepth),
		TimeMs:     int(e.limiter.Elapsed()),
		StopReason: e.limiter.StopReason(),
		Children:   children,
	}
}

func (e *Engine) listenerStats(t *tree, root NodeHandle, cycles int) ListenerTreeStats {
	stats := ListenerTreeStats{
		Maxdepth:   int(t.maxDepth),
		Cycles:     cycles,
		TimeMs:     int(e.limiter.Elapsed()),
		Size:       t.size(),
		BestMove:   -1,
		StopReason: e.limiter.StopReason(),
	}
	stats.Cps = uint32(cycles) * 1000 / uint32(max(1, stats.TimeMs))

	if best := t.bestChild(root, e.policy); best != noNode {
		stats.BestMove = t.node(best).move
		stats.BestValue = t.node(best).avg()
	}
	return stats
}
