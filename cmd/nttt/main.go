package main

/*

N x N tic-tac-toe between bots.

	nttt -size 3 -p0 mcts -p1 oracle          one game, board printed after every move
	nttt -size 4 -games 100 -workers 4        arena batch, JSON summary on stdout
	nttt -serve :8080                         HTTP service

*/

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/IlikeChooros/nttt/pkg/bench"
	"github.com/IlikeChooros/nttt/pkg/board"
	"github.com/IlikeChooros/nttt/pkg/mcts"
	"github.com/IlikeChooros/nttt/pkg/oracle"
	"github.com/IlikeChooros/nttt/pkg/server"
)

type options struct {
	size       int
	p0, p1     string
	iterations int
	c          float64
	games      uint
	workers    uint
	movetime   int
	seed       int64
	serve      string
	verbose    bool
}

func main() {
	var opts options
	flag.IntVar(&opts.size, "size", 3, "board side length (1..8)")
	flag.StringVar(&opts.p0, "p0", "mcts", "first player: mcts, oracle or random")
	flag.StringVar(&opts.p1, "p1", "random", "second player: mcts, oracle or random")
	flag.IntVar(&opts.iterations, "iterations", mcts.DefaultIterationsPerBranch, "mcts cycles per legal move")
	flag.Float64Var(&opts.c, "c", mcts.DefaultExplorationConstant, "mcts exploration constant")
	flag.UintVar(&opts.games, "games", 1, "number of games, more than one runs the arena")
	flag.UintVar(&opts.workers, "workers", 2, "arena workers")
	flag.IntVar(&opts.movetime, "movetime", 0, "mcts time limit per move in ms, 0 for none")
	flag.Int64Var(&opts.seed, "seed", 0, "random seed, 0 picks one")
	flag.StringVar(&opts.serve, "serve", "", "serve HTTP on this address instead of playing")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if opts.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if opts.seed != 0 {
		var seed atomic.Int64
		seed.Store(opts.seed)
		// Every bot gets its own stream derived from the seed, arena workers ask concurrently
		mcts.SetSeedGeneratorFn(func() int64 {
			return seed.Add(1)
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Error().Err(err).Msg("nttt")
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	if opts.serve != "" {
		return server.New(server.DefaultConfig()).ListenAndServe(ctx, opts.serve)
	}

	p0, err := factory(opts.p0, opts)
	if err != nil {
		return err
	}
	p1, err := factory(opts.p1, opts)
	if err != nil {
		return err
	}

	if opts.games > 1 {
		return runArena(ctx, opts, p0, p1)
	}
	return runGame(ctx, opts, p0, p1)
}

func factory(name string, opts options) (bench.BotFactory, error) {
	switch name {
	case "mcts":
		patterns, err := board.PatternsFor(opts.size)
		if err != nil {
			return nil, err
		}
		engineOpts := []mcts.Option{
			mcts.WithIterationsPerBranch(opts.iterations),
			mcts.WithExplorationConstant(opts.c),
		}
		if opts.movetime > 0 {
			engineOpts = append(engineOpts, mcts.WithLimits(mcts.DefaultLimits().SetMovetime(opts.movetime)))
		}
		return bench.MCTSFactory(patterns, engineOpts...), nil
	case "oracle":
		o, err := oracle.New(opts.size)
		if err != nil {
			return nil, err
		}
		return bench.OracleFactory(o), nil
	case "random":
		return bench.RandomFactory(opts.size), nil
	}
	return nil, fmt.Errorf("unknown player %q (want mcts, oracle or random)", name)
}

func runGame(ctx context.Context, opts options, p0, p1 bench.BotFactory) error {
	patterns, err := board.PatternsFor(opts.size)
	if err != nil {
		return err
	}
	x, err := p0(board.Player0)
	if err != nil {
		return err
	}
	o, err := p1(board.Player1)
	if err != nil {
		return err
	}

	profile := termenv.EnvColorProfile()
	fmt.Printf("X: %s, O: %s\n\n%s\n", x.Name(), o.Name(), board.Render(board.State{}, opts.size, profile))

	record, err := bench.PlayGame(ctx, patterns, x, o, func(r bench.GameRecord) {
		mover := board.Player((len(r.Moves) - 1) % 2)
		fmt.Printf("%v plays %d\n\n%s\n", mover, r.Moves[len(r.Moves)-1], board.Render(r.Final, opts.size, profile))
	})
	if err != nil {
		return err
	}

	switch record.Winner {
	case board.NoPlayer:
		fmt.Println("Draw")
	case board.Player0:
		fmt.Printf("X (%s) wins\n", x.Name())
	default:
		fmt.Printf("O (%s) wins\n", o.Name())
	}
	log.Debug().Str("game", record.ID).Ints("moves", record.Moves).Msg("game-finished")
	return nil
}

func runArena(ctx context.Context, opts options, p0, p1 bench.BotFactory) error {
	arena, err := bench.NewVersusArena(opts.size, p0, p1)
	if err != nil {
		return err
	}
	arena.WithContext(ctx).Setup(opts.games, opts.workers)

	listener := bench.NewArenaListener(bench.LogListener{})
	if opts.verbose {
		listener = bench.NewArenaListener(bench.LogListener{}, bench.NewTermListener(os.Stderr, termenv.EnvColorProfile()))
	}

	summary, err := arena.Run(listener)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(summary); encErr != nil {
		return encErr
	}
	return err
}
