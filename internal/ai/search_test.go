package ai

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/jaminalder/codex-othello/internal/domain"
)

// minimax is the unpruned reference search the selector must agree with.
func minimax(b *domain.Board, side domain.Side, depth int, w Weights) int {
	opp := side.Opponent()
	if depth == 0 {
		if !b.HasLegalMove(side) && !b.HasLegalMove(opp) {
			return terminal(b, side)
		}
		return Evaluate(b, side, w)
	}
	moves := b.LegalMoves(side)
	if len(moves) == 0 {
		if !b.HasLegalMove(opp) {
			return terminal(b, side)
		}
		return -minimax(b, opp, depth, w)
	}
	best := -infinity
	for _, m := range moves {
		child := *b
		child.Play(side, m)
		best = max(best, -minimax(&child, opp, depth-1, w))
	}
	return best
}

func minimaxRoot(b domain.Board, side domain.Side, depth int, w Weights) (domain.Pos, int) {
	bestMove, best := domain.NoPos, -infinity
	for _, m := range b.LegalMoves(side) {
		child := b
		child.Play(side, m)
		if v := -minimax(&child, side.Opponent(), depth-1, w); v > best {
			bestMove, best = m, v
		}
	}
	return bestMove, best
}

// samplePositions plays a fixed line and collects the positions on the way.
func samplePositions(t *testing.T, n int) []domain.Game {
	t.Helper()
	g := domain.New(domain.NoSide)
	var out []domain.Game
	for i := 0; i < n && !g.Over(); i++ {
		out = append(out, g)
		moves := g.LegalMoves(g.Turn)
		m := moves[(i*7)%len(moves)]
		if _, err := g.Apply(g.Turn, m.Row, m.Col); err != nil {
			t.Fatalf("playout move %v failed: %v", m, err)
		}
	}
	return out
}

func TestSelectMoveOpeningIsLegal(t *testing.T) {
	is := is.New(t)
	g := domain.New(domain.White)
	sel := NewSelector(3, DefaultWeights())
	m, err := sel.SelectMove(&g, domain.Black)
	is.NoErr(err)
	is.True(g.Board.IsLegal(domain.Black, m))
}

func TestSelectMoveDeterministic(t *testing.T) {
	is := is.New(t)
	sel := NewSelector(4, DefaultWeights())
	for _, g := range samplePositions(t, 12) {
		g := g
		first, err := sel.SelectMove(&g, g.Turn)
		is.NoErr(err)
		for i := 0; i < 3; i++ {
			again, err := sel.SelectMove(&g, g.Turn)
			is.NoErr(err)
			is.Equal(first, again)
		}
	}
}

func TestSearchAgreesWithMinimax(t *testing.T) {
	is := is.New(t)
	w := DefaultWeights()
	for depth := 1; depth <= 3; depth++ {
		for _, g := range samplePositions(t, 16) {
			wantMove, wantScore := minimaxRoot(g.Board, g.Turn, depth, w)

			withTable, err := NewSelector(depth, w).Search(g.Board, g.Turn)
			is.NoErr(err)
			is.Equal(withTable.Move, wantMove)
			is.Equal(withTable.Score, wantScore)

			plain := NewSelector(depth, w)
			plain.NoTable = true
			noTable, err := plain.Search(g.Board, g.Turn)
			is.NoErr(err)
			is.Equal(noTable.Move, wantMove)
			is.Equal(noTable.Score, wantScore)
		}
	}
}

func TestSelectMoveNoLegalMove(t *testing.T) {
	is := is.New(t)
	g := domain.New(domain.White)
	sel := NewSelector(2, DefaultWeights())
	// White has moves in the opening but not on an empty board.
	g.Board = domain.Board{}
	_, err := sel.SelectMove(&g, domain.White)
	is.Equal(err, ErrNoLegalMove)
}

func TestPrefersCorner(t *testing.T) {
	is := is.New(t)
	b, err := domain.ParseBoard(`
. . . . . . . .
. O . . . . . .
. . X . . . . .
. . . . . . . .
. . . O X . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .`)
	is.NoErr(err)
	is.Equal(len(b.LegalMoves(domain.Black)), 2)
	res, err := NewSelector(1, DefaultWeights()).Search(b, domain.Black)
	is.NoErr(err)
	is.Equal(res.Move, domain.Pos{Row: 0, Col: 0})
}

func TestFindsWinningEnding(t *testing.T) {
	is := is.New(t)
	// Either order wipes out White; the first move in row-major order is kept.
	b, err := domain.ParseBoard(`
. O X . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. O X X X X X X`)
	is.NoErr(err)
	res, err := NewSelector(3, DefaultWeights()).Search(b, domain.Black)
	is.NoErr(err)
	is.True(res.Score > winScore)
	is.Equal(res.Move, domain.Pos{Row: 0, Col: 0})
}

func TestEvaluateSymmetricOpening(t *testing.T) {
	is := is.New(t)
	b := domain.NewBoard()
	w := DefaultWeights()
	is.Equal(Evaluate(&b, domain.Black, w), Evaluate(&b, domain.White, w))
	is.Equal(Evaluate(&b, domain.Black, w), -4*w.Mobility)
}

func TestZobristIncrementalMatchesFullHash(t *testing.T) {
	is := is.New(t)
	b := domain.NewBoard()
	key := keys.Hash(&b, domain.Black)
	side := domain.Black
	for i := 0; i < 10; i++ {
		moves := b.LegalMoves(side)
		if len(moves) == 0 {
			break
		}
		m := moves[len(moves)/2]
		flipped := b.Play(side, m)
		key = keys.Play(key, side, m, flipped)
		side = side.Opponent()
		is.Equal(key, keys.Hash(&b, side))
	}
	is.Equal(keys.Pass(keys.Hash(&b, domain.Black)), keys.Hash(&b, domain.White))
	is.Equal(NewZobrist(zobristSeed[:]).Hash(&b, side), keys.Hash(&b, side))
}

func TestLoadWeights(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	is.NoErr(os.WriteFile(good, []byte("tiles: 3\nmobility: 2\n"), 0o644))
	w, err := LoadWeights(good)
	is.NoErr(err)
	is.Equal(w.Tiles, 3)
	is.Equal(w.Mobility, 2)
	is.Equal(w.Position, DefaultWeights().Position)

	bad := filepath.Join(dir, "bad.yaml")
	is.NoErr(os.WriteFile(bad, []byte("corner_adjacent: 5\n"), 0o644))
	_, err = LoadWeights(bad)
	is.True(err != nil)

	broken := filepath.Join(dir, "broken.yaml")
	is.NoErr(os.WriteFile(broken, []byte("tiles: [1, 2\n"), 0o644))
	_, err = LoadWeights(broken)
	is.True(err != nil)

	_, err = LoadWeights(filepath.Join(dir, "missing.yaml"))
	is.True(err != nil)
}
