package bench

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/IlikeChooros/nttt/pkg/board"
	"github.com/IlikeChooros/nttt/pkg/mcts"
	"github.com/IlikeChooros/nttt/pkg/oracle"
)

func TestMain(m *testing.M) {
	mcts.SetSeedGeneratorFn(func() int64 {
		return 42
	})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	fmt.Printf("Using seed %d\n", mcts.SeedGeneratorFn())

	os.Exit(m.Run())
}

type countingListener struct {
	mu      sync.Mutex
	starts  int
	moves   int
	games   int
	workers int
	summary VersusSummaryInfo
	gameIDs map[string]bool
	p1First int
}

func (c *countingListener) OnStart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts++
	c.gameIDs = map[string]bool{}
}

func (c *countingListener) OnMoveMade(VersusWorkerInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moves++
}

func (c *countingListener) OnFinishedGame(info VersusWorkerInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.games++
	c.gameIDs[info.GameID] = true
	if info.P1First {
		c.p1First++
	}
}

func (c *countingListener) OnFinishedWork(VersusWorkerInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.workers++
}

func (c *countingListener) Summary(info VersusSummaryInfo) {
	c.summary = info
}

// Always plays the first cell, legal or not
type stubbornBot struct{}

func (stubbornBot) Name() string                      { return "stubborn" }
func (stubbornBot) NextMove(board.State) (int, error) { return 0, nil }

func TestPlayGame(t *testing.T) {
	p, err := board.PatternsFor(3)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		var calls int
		record, err := PlayGame(context.Background(), p, NewRandomBot(3, int64(i)), NewRandomBot(3, int64(i+100)), func(GameRecord) {
			calls++
		})
		require.NoError(t, err)
		require.Len(t, record.ID, 36)
		require.Equal(t, len(record.Moves), calls)
		require.Equal(t, len(record.Moves), record.Final.MoveCount())

		terminal, winner := record.Final.Terminal(p)
		require.True(t, terminal)
		require.Equal(t, winner, record.Winner)
	}
}

func TestPlayGameErrors(t *testing.T) {
	p, err := board.PatternsFor(3)
	require.NoError(t, err)

	_, err = PlayGame(context.Background(), p, stubbornBot{}, stubbornBot{}, nil)
	require.ErrorIs(t, err, board.ErrIllegalMove)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	record, err := PlayGame(ctx, p, NewRandomBot(3, 1), NewRandomBot(3, 2), nil)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, record.Moves)
}

func TestOracleNeverLoses(t *testing.T) {
	o, err := oracle.New(3)
	require.NoError(t, err)

	arena, err := NewVersusArena(3, OracleFactory(o), RandomFactory(3))
	require.NoError(t, err)
	arena.Setup(40, 4)

	listener := &countingListener{}
	summary, err := arena.Run(listener)
	require.NoError(t, err)

	require.Equal(t, 40, summary.TotalGames)
	require.Zero(t, summary.P2Wins)
	require.Equal(t, summary.P1Wins+summary.Draws, 40)
	require.Equal(t, summary.FirstToMoveWins+summary.SecondToMoveWins, summary.P1Wins)
	require.Equal(t, "oracle", summary.P1Name)
	require.Equal(t, "random", summary.P2Name)

	require.Equal(t, 1, listener.starts)
	require.Equal(t, 40, listener.games)
	require.Len(t, listener.gameIDs, 40)
	require.Equal(t, 20, listener.p1First, "first move alternates between the players")
	require.Equal(t, 4, listener.workers)
	require.Equal(t, summary, listener.summary)
	require.GreaterOrEqual(t, listener.moves, 40*5)
}

func TestOracleSelfPlayDraws(t *testing.T) {
	o, err := oracle.New(3)
	require.NoError(t, err)

	arena, err := NewVersusArena(3, OracleFactory(o), OracleFactory(o))
	require.NoError(t, err)
	arena.Setup(6, 3)

	summary, err := arena.Run(nil)
	require.NoError(t, err)
	require.Equal(t, 6, summary.Draws)
}

func TestMCTSBeatsRandom(t *testing.T) {
	p, err := board.PatternsFor(3)
	require.NoError(t, err)

	arena, err := NewVersusArena(3, MCTSFactory(p, mcts.WithIterationsPerBranch(300)), RandomFactory(3))
	require.NoError(t, err)
	arena.Setup(20, 2)

	summary, err := arena.Run(LogListener{})
	require.NoError(t, err)
	require.Equal(t, 20, summary.TotalGames)
	require.Greater(t, summary.P1Wins, summary.P2Wins)
	require.Equal(t, "mcts", summary.P1Name)
}

func TestArenaErrors(t *testing.T) {
	_, err := NewVersusArena(3, nil, RandomFactory(3))
	require.ErrorIs(t, err, ErrNoBots)

	_, err = NewVersusArena(0, RandomFactory(3), RandomFactory(3))
	require.ErrorIs(t, err, board.ErrBoardSize)

	p, err := board.PatternsFor(3)
	require.NoError(t, err)
	failing := func(board.Player) (Bot, error) {
		return nil, mcts.ErrInvalidPlayer
	}
	arena, err := NewVersusArena(3, failing, MCTSFactory(p))
	require.NoError(t, err)
	_, err = arena.Run(nil)
	require.ErrorIs(t, err, mcts.ErrInvalidPlayer)

	stubborn := func(board.Player) (Bot, error) { return stubbornBot{}, nil }
	arena, err = NewVersusArena(3, stubborn, stubborn)
	require.NoError(t, err)
	arena.Setup(4, 2)
	_, err = arena.Run(nil)
	require.ErrorIs(t, err, board.ErrIllegalMove)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	arena, err = NewVersusArena(3, RandomFactory(3), RandomFactory(3))
	require.NoError(t, err)
	summary, err := arena.WithContext(ctx).Run(nil)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, summary.TotalGames)
}

func TestTermListener(t *testing.T) {
	var buf bytes.Buffer
	l := NewTermListener(&buf, termenv.Ascii)

	l.OnFinishedGame(VersusWorkerInfo{
		WorkerID:      1,
		NGames:        5,
		FinishedGames: 2,
		Moves:         []int{4, 0, 8},
		Winner:        board.NoPlayer,
		P1First:       false,
		P1Name:        "mcts",
		P2Name:        "random",
	})
	require.Equal(t, "[1] 2/5 X=random O=mcts [4 0 8]: draw\n", buf.String())

	buf.Reset()
	l.Summary(VersusSummaryInfo{P1Name: "mcts", P2Name: "random", P1Wins: 7, P2Wins: 1, Draws: 2, FirstToMoveWins: 5, SecondToMoveWins: 3})
	require.Equal(t, "mcts 7  random 1  draws 2  (first to move 5, second 3)\n", buf.String())

	multi := NewArenaListener(l, nil, &countingListener{})
	require.Len(t, multi.listeners, 2)
}
