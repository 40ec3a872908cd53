package board

import "math/bits"

// ForcedMove looks for a line one mark away from completion: one player holds
// exactly size-1 of its cells and the opponent none. The remaining cell must be
// played, either to win or to block. Patterns are scanned in order and Player0
// is checked before Player1 within a pattern, so the answer is deterministic.
func ForcedMove(s State, p *Patterns) (int, bool) {
	need := p.size - 1
	for _, mask := range p.masks {
		for pl := Player0; pl <= Player1; pl++ {
			own := s.bitboards[pl] & mask
			if s.bitboards[pl.Other()]&mask != 0 || bits.OnesCount64(own) != need {
				continue
			}
			empty := mask &^ own
			if empty == 0 {
				continue
			}
			return bits.TrailingZeros64(empty), true
		}
	}
	return -1, false
}
