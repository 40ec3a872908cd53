package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/IlikeChooros/nttt/pkg/board"
)

/*
Arena benchmark subpackage, plays a series of games between two bots.
Player1 moves first in even numbered games, Player2 in odd ones.
*/

var ErrNoBots = errors.New("arena needs two bot factories")

type VersusArena struct {
	VersusArenaStats
	Player1  BotFactory
	Player2  BotFactory
	NGames   uint
	NWorkers uint
	patterns *board.Patterns
	ctx      context.Context
}

func NewVersusArena(size int, p1, p2 BotFactory) (*VersusArena, error) {
	if p1 == nil || p2 == nil {
		return nil, ErrNoBots
	}

	patterns, err := board.PatternsFor(size)
	if err != nil {
		return nil, err
	}

	return &VersusArena{
		Player1:  p1,
		Player2:  p2,
		NGames:   100,
		NWorkers: 2,
		patterns: patterns,
		ctx:      context.Background(),
	}, nil
}

func (va *VersusArena) WithContext(ctx context.Context) *VersusArena {
	va.ctx = ctx
	return va
}

func (va *VersusArena) Setup(nGames uint, nWorkers uint) {
	va.NGames = nGames
	va.NWorkers = max(1, nWorkers)
}

// Play all games, blocking until every worker is done. On cancellation or
// a bot failure the partial summary is returned along with the error.
func (va *VersusArena) Run(listener ListenerLike) (VersusSummaryInfo, error) {
	if listener == nil {
		listener = DefaultListener{}
	}

	va.reset()
	start := time.Now()
	p1Name, p2Name, err := va.names()
	if err != nil {
		return VersusSummaryInfo{}, err
	}

	listener.OnStart()
	nWorkers := max(1, va.NWorkers)
	g, ctx := errgroup.WithContext(va.ctx)
	for id := uint(0); id < nWorkers; id++ {
		id := id
		g.Go(func() error {
			return va.worker(ctx, int(id), nWorkers, listener, p1Name, p2Name)
		})
	}
	err = g.Wait()

	summary := VersusSummaryInfo{
		BoardSize:        va.patterns.Size(),
		TotalGames:       va.Total(),
		P1Wins:           va.P1Wins(),
		P2Wins:           va.P2Wins(),
		FirstToMoveWins:  va.FirstToMoveWins(),
		SecondToMoveWins: va.SecondToMoveWins(),
		Draws:            va.Draws(),
		Workers:          int(nWorkers),
		P1Name:           p1Name,
		P2Name:           p2Name,
		TimeMs:           time.Since(start).Milliseconds(),
	}
	listener.Summary(summary)
	return summary, err
}

func (va *VersusArena) names() (string, string, error) {
	b1, err := va.Player1(board.Player0)
	if err != nil {
		return "", "", fmt.Errorf("player1: %w", err)
	}
	b2, err := va.Player2(board.Player1)
	if err != nil {
		return "", "", fmt.Errorf("player2: %w", err)
	}
	return b1.Name(), b2.Name(), nil
}

// Worker 'id' plays games id, id+n, id+2n, ...
func (va *VersusArena) worker(ctx context.Context, id int, n uint, listener ListenerLike, p1Name, p2Name string) error {
	info := VersusWorkerInfo{
		WorkerID: id,
		P1Name:   p1Name,
		P2Name:   p2Name,
	}
	for game := uint(id); game < va.NGames; game += n {
		info.NGames++
	}

	for game := uint(id); game < va.NGames; game += n {
		if err := ctx.Err(); err != nil {
			return err
		}

		p1First := game%2 == 0
		x, o, err := va.bots(p1First)
		if err != nil {
			return err
		}

		info.P1First = p1First
		record, err := PlayGame(ctx, va.patterns, x, o, func(r GameRecord) {
			info.GameID = r.ID
			info.Moves = r.Moves
			info.GameMoveNum = len(r.Moves)
			info.State = r.Final
			listener.OnMoveMade(info)
		})
		if err != nil {
			return fmt.Errorf("game %d: %w", game, err)
		}

		outcome := computeOutcome(record.Winner)
		switch toAgentResult(outcome, p1First) {
		case VersusPl1Win:
			info.P1Wins++
		case VersusPl2Win:
			info.P2Wins++
		default:
			info.Draws++
		}
		va.add(toAgentResult(outcome, p1First), outcome)

		info.FinishedGames++
		info.GameID = record.ID
		info.Moves = record.Moves
		info.GameMoveNum = len(record.Moves)
		info.State = record.Final
		info.Winner = record.Winner
		listener.OnFinishedGame(info)
	}

	log.Debug().Int("worker", id).Int("games", info.FinishedGames).Msg("arena-worker-done")
	listener.OnFinishedWork(info)
	return nil
}

// Fresh bots for one game, X first
func (va *VersusArena) bots(p1First bool) (Bot, Bot, error) {
	first, second := va.Player1, va.Player2
	if !p1First {
		first, second = second, first
	}

	x, err := first(board.Player0)
	if err != nil {
		return nil, nil, err
	}
	o, err := second(board.Player1)
	if err != nil {
		return nil, nil, err
	}
	return x, o, nil
}
