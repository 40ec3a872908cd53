package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/IlikeChooros/nttt/pkg/board"
	"github.com/IlikeChooros/nttt/pkg/mcts"
	"github.com/IlikeChooros/nttt/pkg/oracle"
)

var ErrUnknownEngine = errors.New("unknown engine")

func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}

	var (
		resp decideResponse
		err  error
	)
	switch req.Engine {
	case "", "mcts":
		resp, err = s.decideMCTS(r, req)
	case "oracle":
		resp, err = s.decideOracle(req)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownEngine, req.Engine)
	}

	if err != nil {
		writeError(w, r, statusOf(err), err)
		return
	}

	log.Debug().
		Str("id", resp.ID).
		Str("engine", resp.Engine).
		Int("size", req.Size).
		Int("move", resp.Move).
		Int("cycles", resp.Cycles).
		Msg("decided")
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) decideMCTS(r *http.Request, req decideRequest) (decideResponse, error) {
	patterns, err := board.PatternsFor(req.Size)
	if err != nil {
		return decideResponse{}, err
	}
	state, err := board.FromCells(req.Size, req.P0, req.P1)
	if err != nil {
		return decideResponse{}, err
	}

	player := state.ToMove()
	if req.Player != nil {
		player = *req.Player
	}

	iterations := req.Iterations
	if iterations <= 0 {
		iterations = s.config.DefaultIterations
	}
	opts := []mcts.Option{mcts.WithIterationsPerBranch(min(iterations, s.config.MaxIterations))}
	if req.Exploration != nil {
		opts = append(opts, mcts.WithExplorationConstant(*req.Exploration))
	}
	if req.Seed != nil {
		opts = append(opts, mcts.WithSeed(*req.Seed))
	}
	if req.Movetime > 0 {
		opts = append(opts, mcts.WithLimits(mcts.DefaultLimits().SetMovetime(min(req.Movetime, s.config.MaxMovetime))))
	}

	engine, err := mcts.New(patterns, player, opts...)
	if err != nil {
		return decideResponse{}, err
	}

	// Client going away stops the search
	move, err := engine.DecideContext(r.Context(), state, state.LegalMoves(req.Size))
	if err != nil {
		return decideResponse{}, err
	}

	last := engine.LastSearch()
	return decideResponse{
		ID:         uuid.NewString(),
		Engine:     engine.Name(),
		Player:     player,
		Move:       move,
		Forced:     last.Forced,
		Cycles:     last.Cycles,
		Nodes:      last.Size,
		MaxDepth:   last.MaxDepth,
		TimeMs:     last.TimeMs,
		StopReason: last.StopReason,
		Children:   last.Children,
	}, nil
}

func (s *Server) decideOracle(req decideRequest) (decideResponse, error) {
	o, err := s.oracle(req.Size)
	if err != nil {
		return decideResponse{}, err
	}
	state, err := board.FromCells(req.Size, req.P0, req.P1)
	if err != nil {
		return decideResponse{}, err
	}

	move, err := o.NextMove(state)
	if err != nil {
		return decideResponse{}, err
	}
	score, _ := o.Score(state)

	return decideResponse{
		ID:     uuid.NewString(),
		Engine: o.Name(),
		Player: state.ToMove(),
		Move:   move,
		Score:  &score,
	}, nil
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	size, err := strconv.Atoi(chi.URLParam(r, "size"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid size: %w", err))
		return
	}

	patterns, err := board.PatternsFor(size)
	if err != nil {
		writeError(w, r, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, toPatternsResponse(patterns))
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, mcts.ErrInvalidState),
		errors.Is(err, oracle.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, board.ErrIllegalMove),
		errors.Is(err, board.ErrBoardSize),
		errors.Is(err, mcts.ErrInvalidPlayer),
		errors.Is(err, oracle.ErrTooLarge),
		errors.Is(err, oracle.ErrUnreachable),
		errors.Is(err, ErrUnknownEngine):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	id := middleware.GetReqID(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", id).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: id})
}
