package server

import (
	"math/bits"

	"github.com/IlikeChooros/nttt/pkg/board"
	"github.com/IlikeChooros/nttt/pkg/mcts"
)

type decideRequest struct {
	Size int   `json:"size"`
	P0   []int `json:"p0"`
	P1   []int `json:"p1"`
	// Engine's identity, the side to move when omitted
	Player      *board.Player `json:"player,omitempty"`
	Engine      string        `json:"engine"`
	Iterations  int           `json:"iterations"`
	Exploration *float64      `json:"exploration,omitempty"`
	Movetime    int           `json:"movetime"`
	Seed        *int64        `json:"seed,omitempty"`
}

type decideResponse struct {
	ID         string            `json:"id"`
	Engine     string            `json:"engine"`
	Player     board.Player      `json:"player"`
	Move       int               `json:"move"`
	Forced     bool              `json:"forced"`
	Cycles     int               `json:"cycles"`
	Nodes      int               `json:"nodes"`
	MaxDepth   int               `json:"max_depth"`
	TimeMs     int               `json:"time_ms"`
	StopReason mcts.StopReason   `json:"stop_reason"`
	Children   []mcts.ChildStats `json:"children,omitempty"`
	// Oracle only, game-theoretic value for the side to move
	Score *int `json:"score,omitempty"`
}

type patternsResponse struct {
	Size  int      `json:"size"`
	Cells int      `json:"cells"`
	Masks []uint64 `json:"masks"`
	Lines [][]int  `json:"lines"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func toPatternsResponse(p *board.Patterns) patternsResponse {
	masks := p.Masks()
	lines := make([][]int, len(masks))
	for i, mask := range masks {
		lines[i] = make([]int, 0, p.Size())
		for m := mask; m != 0; m &= m - 1 {
			lines[i] = append(lines[i], bits.TrailingZeros64(m))
		}
	}

	return patternsResponse{
		Size:  p.Size(),
		Cells: p.Cells(),
		Masks: masks,
		Lines: lines,
	}
}
