package selfplay

import (
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/jaminalder/codex-othello/internal/ai"
	"github.com/jaminalder/codex-othello/internal/domain"
)

func testOptions() Options {
	return Options{
		Games:        4,
		BlackDepth:   1,
		WhiteDepth:   2,
		BlackWeights: ai.DefaultWeights(),
		WhiteWeights: ai.DefaultWeights(),
		Workers:      2,
		Openings:     2,
	}
}

func TestRunPlaysAllGames(t *testing.T) {
	is := is.New(t)
	sum, err := Run(context.Background(), testOptions())
	is.NoErr(err)
	is.Equal(sum.Games, 4)
	is.Equal(sum.BlackWins+sum.WhiteWins+sum.Draws, 4)
	for i, rec := range sum.Records {
		is.Equal(rec.Index, i)
		is.True(rec.Result != domain.InProgress)
		is.True(rec.Black+rec.White <= 64)
		is.Equal(rec.Black+rec.White, 4+len(rec.Moves)) // one disc per move

		// replaying the record reaches the same result
		g := domain.New(domain.NoSide)
		for _, m := range rec.Moves {
			_, err := g.Apply(g.Turn, m.Row, m.Col)
			is.NoErr(err)
		}
		is.Equal(g.Result, rec.Result)
	}
}

func TestRunIsReproducible(t *testing.T) {
	is := is.New(t)
	a, err := Run(context.Background(), testOptions())
	is.NoErr(err)
	b, err := Run(context.Background(), testOptions())
	is.NoErr(err)
	is.Equal(a.String(), b.String())
	for i := range a.Records {
		is.Equal(a.Records[i].Moves, b.Records[i].Moves)
	}
}

func TestRunErrors(t *testing.T) {
	is := is.New(t)
	_, err := Run(context.Background(), Options{})
	is.Equal(err, ErrNoGames)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, testOptions())
	is.True(err != nil)
}
