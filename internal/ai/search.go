// Package ai chooses moves for the computer-controlled side with a fixed
// depth alpha-beta search.
package ai

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jaminalder/codex-othello/internal/domain"
)

// DefaultDepth is the search depth in plies used when none is configured.
const DefaultDepth = 4

const infinity = 1 << 30

var ErrNoLegalMove = errors.New("no legal move")

const (
	ttExact uint8 = iota + 1
	ttLower
	ttUpper
)

type ttEntry struct {
	score int
	depth int
	flag  uint8
}

// Selector picks moves by negamax search to a fixed depth. It keeps no
// state between calls.
type Selector struct {
	Depth   int
	Weights Weights
	// NoTable disables the transposition table.
	NoTable bool
}

// NewSelector returns a selector searching depth plies with w.
func NewSelector(depth int, w Weights) *Selector {
	if depth < 1 {
		depth = DefaultDepth
	}
	return &Selector{Depth: depth, Weights: w}
}

// Result describes one completed search.
type Result struct {
	Move      domain.Pos
	Score     int
	Nodes     uint64
	TableHits uint64
}

type search struct {
	w     Weights
	table map[uint64]ttEntry
	nodes uint64
	hits  uint64
}

// SelectMove returns the move side should play in g.
func (s *Selector) SelectMove(g *domain.Game, side domain.Side) (domain.Pos, error) {
	res, err := s.Search(g.Board, side)
	if err != nil {
		return domain.NoPos, err
	}
	return res.Move, nil
}

// Search runs the search for side on b. Among equally scored moves the first
// in row-major order wins.
func (s *Selector) Search(b domain.Board, side domain.Side) (Result, error) {
	moves := b.LegalMoves(side)
	if len(moves) == 0 {
		return Result{Move: domain.NoPos}, ErrNoLegalMove
	}
	depth := s.Depth
	if depth < 1 {
		depth = DefaultDepth
	}
	st := &search{w: s.Weights}
	if !s.NoTable {
		st.table = make(map[uint64]ttEntry)
	}

	start := time.Now()
	key := keys.Hash(&b, side)
	opp := side.Opponent()
	best := Result{Move: domain.NoPos, Score: -infinity}
	alpha := -infinity
	for _, m := range moves {
		child := b
		flipped := child.Play(side, m)
		v := -st.negamax(&child, keys.Play(key, side, m, flipped), opp, depth-1, -infinity, -alpha)
		if v > best.Score {
			best.Score = v
			best.Move = m
		}
		if best.Score > alpha {
			alpha = best.Score
		}
	}
	best.Nodes = st.nodes
	best.TableHits = st.hits

	log.Debug().
		Str("side", side.String()).
		Str("move", best.Move.String()).
		Int("score", best.Score).
		Int("depth", depth).
		Uint64("nodes", best.Nodes).
		Uint64("tableHits", best.TableHits).
		Dur("elapsed", time.Since(start)).
		Msg("ai-move-selected")
	return best, nil
}

func (st *search) negamax(b *domain.Board, key uint64, side domain.Side, depth, α, β int) int {
	st.nodes++
	opp := side.Opponent()
	if depth == 0 {
		if !b.HasLegalMove(side) && !b.HasLegalMove(opp) {
			return terminal(b, side)
		}
		return Evaluate(b, side, st.w)
	}

	moves := b.LegalMoves(side)
	if len(moves) == 0 {
		if !b.HasLegalMove(opp) {
			return terminal(b, side)
		}
		// pass without using up depth
		return -st.negamax(b, keys.Pass(key), opp, depth, -β, -α)
	}

	αOrig := α
	if st.table != nil {
		if e, ok := st.table[key]; ok && e.depth == depth {
			st.hits++
			switch e.flag {
			case ttExact:
				return e.score
			case ttLower:
				α = max(α, e.score)
			case ttUpper:
				β = min(β, e.score)
			}
			if α >= β {
				return e.score
			}
		}
	}

	best := -infinity
	for _, m := range moves {
		child := *b
		flipped := child.Play(side, m)
		v := -st.negamax(&child, keys.Play(key, side, m, flipped), opp, depth-1, -β, -α)
		best = max(best, v)
		α = max(α, best)
		if α >= β {
			break
		}
	}

	if st.table != nil {
		e := ttEntry{score: best, depth: depth, flag: ttExact}
		if best <= αOrig {
			e.flag = ttUpper
		} else if best >= β {
			e.flag = ttLower
		}
		st.table[key] = e
	}
	return best
}
