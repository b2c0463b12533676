package ai

import "github.com/jaminalder/codex-othello/internal/domain"

// winScore dominates any heuristic value so a won ending is always
// preferred over an open position.
const winScore = 1_000_000

var corners = [4]domain.Pos{{Row: 0, Col: 0}, {Row: 0, Col: 7}, {Row: 7, Col: 0}, {Row: 7, Col: 7}}

// the C and X cells touching each corner, same order as corners
var cornerNeighbours = [4][3]domain.Pos{
	{{Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 1}},
	{{Row: 0, Col: 6}, {Row: 1, Col: 7}, {Row: 1, Col: 6}},
	{{Row: 7, Col: 1}, {Row: 6, Col: 0}, {Row: 6, Col: 1}},
	{{Row: 7, Col: 6}, {Row: 6, Col: 7}, {Row: 6, Col: 6}},
}

// Evaluate scores b from side's point of view: disc differential, positional
// weights, a penalty for discs next to empty corners and the opponent's
// mobility.
func Evaluate(b *domain.Board, side domain.Side, w Weights) int {
	own, opp := side.Disc(), side.Opponent().Disc()
	var discs, position int
	for r := 0; r < domain.Size; r++ {
		for c := 0; c < domain.Size; c++ {
			switch b[r][c] {
			case own:
				discs++
				position += w.Position[r][c]
			case opp:
				discs--
				position -= w.Position[r][c]
			}
		}
	}

	adjacent := 0
	for i, corner := range corners {
		if b.At(corner) != domain.Empty {
			continue
		}
		for _, p := range cornerNeighbours[i] {
			switch b.At(p) {
			case own:
				adjacent++
			case opp:
				adjacent--
			}
		}
	}

	return w.Tiles*discs + position + w.CornerAdjacent*adjacent - w.Mobility*b.Mobility(side.Opponent())
}

// terminal scores a finished position for side.
func terminal(b *domain.Board, side domain.Side) int {
	diff := b.Count(side) - b.Count(side.Opponent())
	switch {
	case diff > 0:
		return winScore + diff
	case diff < 0:
		return -winScore + diff
	default:
		return 0
	}
}
