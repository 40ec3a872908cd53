package bench

import (
	"fmt"
	"io"
	"sync"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"

	"github.com/IlikeChooros/nttt/pkg/board"
)

// Arena callbacks, workers call them concurrently
type ListenerLike interface {
	OnStart()
	OnMoveMade(info VersusWorkerInfo)
	OnFinishedGame(info VersusWorkerInfo)
	OnFinishedWork(info VersusWorkerInfo)
	Summary(info VersusSummaryInfo)
}

// Does nothing
type DefaultListener struct{}

func (DefaultListener) OnStart() {}
func (DefaultListener) OnMoveMade(VersusWorkerInfo) {}
func (DefaultListener) OnFinishedGame(VersusWorkerInfo) {}
func (DefaultListener) OnFinishedWork(VersusWorkerInfo) {}
func (DefaultListener) Summary(VersusSummaryInfo) {}

// Logs finished games and the summary through zerolog
type LogListener struct {
	DefaultListener
}

func (LogListener) OnFinishedGame(info VersusWorkerInfo) {
	log.Debug().
		Int("worker", info.WorkerID).
		Str("game", info.GameID).
		Ints("moves", info.Moves).
		Stringer("winner", info.Winner).
		Bool("p1_first", info.P1First).
		Msg("game-finished")
}

func (LogListener) OnFinishedWork(info VersusWorkerInfo) {
	log.Debug().
		Int("worker", info.WorkerID).
		Int("games", info.FinishedGames).
		Int("p1_wins", info.P1Wins).
		Int("p2_wins", info.P2Wins).
		Int("draws", info.Draws).
		Msg("worker-finished")
}

func (LogListener) Summary(info VersusSummaryInfo) {
	log.Info().
		Str("p1", info.P1Name).
		Str("p2", info.P2Name).
		Int("games", info.TotalGames).
		Int("p1_wins", info.P1Wins).
		Int("p2_wins", info.P2Wins).
		Int("draws", info.Draws).
		Int64("ms", info.TimeMs).
		Msg("arena-finished")
}

// Prints one line per finished game, the winner coloured
type TermListener struct {
	DefaultListener
	w       io.Writer
	profile termenv.Profile
	mu      sync.Mutex
}

func NewTermListener(w io.Writer, profile termenv.Profile) *TermListener {
	return &TermListener{w: w, profile: profile}
}

func (l *TermListener) OnFinishedGame(info VersusWorkerInfo) {
	x, o := info.P1Name, info.P2Name
	if !info.P1First {
		x, o = o, x
	}

	var result termenv.Style
	switch info.Winner {
	case board.Player0:
		result = l.profile.String("X " + x).Foreground(l.profile.Color("1")).Bold()
	case board.Player1:
		result = l.profile.String("O " + o).Foreground(l.profile.Color("4")).Bold()
	default:
		result = l.profile.String("draw").Faint()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "[%d] %d/%d X=%s O=%s %v: %s\n",
		info.WorkerID, info.FinishedGames, info.NGames, x, o, info.Moves, result)
}

func (l *TermListener) Summary(info VersusSummaryInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s %d  %s %d  draws %d  (first to move %d, second %d)\n",
		l.profile.String(info.P1Name).Bold(), info.P1Wins,
		l.profile.String(info.P2Name).Bold(), info.P2Wins,
		info.Draws, info.FirstToMoveWins, info.SecondToMoveWins)
}
