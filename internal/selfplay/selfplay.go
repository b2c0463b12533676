// Package selfplay runs batches of computer-vs-computer games, mainly to
// compare search depths and evaluation weights.
package selfplay

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/jaminalder/codex-othello/internal/ai"
	"github.com/jaminalder/codex-othello/internal/domain"
)

type Options struct {
	Games        int
	BlackDepth   int
	WhiteDepth   int
	BlackWeights ai.Weights
	WhiteWeights ai.Weights
	// Workers bounds the number of games played at once; 0 means GOMAXPROCS.
	Workers int
	// Openings is the number of leading plies chosen by game index instead
	// of by search, so deterministic players do not repeat one game. Game i
	// plays legal move i mod n in each of those plies.
	Openings int
}

// GameRecord is the outcome of one game.
type GameRecord struct {
	Index  int
	Result domain.Result
	Black  int
	White  int
	Moves  []domain.Pos
}

type Summary struct {
	Games     int
	BlackWins int
	WhiteWins int
	Draws     int
	// AvgDiff is the mean of black discs minus white discs.
	AvgDiff float64
	Records []GameRecord
}

func (s Summary) String() string {
	return fmt.Sprintf("games=%d black=%d white=%d draws=%d avg-diff=%.2f",
		s.Games, s.BlackWins, s.WhiteWins, s.Draws, s.AvgDiff)
}

var ErrNoGames = errors.New("no games requested")

// Run plays opts.Games games concurrently. It stops early when ctx is
// cancelled; each game runs to completion once started.
func Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.Games < 1 {
		return Summary{}, ErrNoGames
	}
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	black := ai.NewSelector(opts.BlackDepth, opts.BlackWeights)
	white := ai.NewSelector(opts.WhiteDepth, opts.WhiteWeights)

	records := make([]GameRecord, opts.Games)
	var mu sync.Mutex
	done := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < opts.Games; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := playGame(i, black, white, opts.Openings)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			records[i] = rec
			mu.Lock()
			done++
			log.Debug().Int("game", i).Int("done", done).Str("result", rec.Result.String()).
				Int("black", rec.Black).Int("white", rec.White).Msg("selfplay-game-finished")
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return summarize(records), nil
}

func playGame(index int, black, white *ai.Selector, openings int) (GameRecord, error) {
	g := domain.New(domain.NoSide)
	rec := GameRecord{Index: index}
	for !g.Over() {
		side := g.Turn
		var m domain.Pos
		if g.Moves < openings {
			moves := g.LegalMoves(side)
			m = moves[index%len(moves)]
		} else {
			sel := black
			if side == domain.White {
				sel = white
			}
			var err error
			if m, err = sel.SelectMove(&g, side); err != nil {
				return rec, err
			}
		}
		if _, err := g.Apply(side, m.Row, m.Col); err != nil {
			return rec, err
		}
		rec.Moves = append(rec.Moves, m)
	}
	rec.Result = g.Result
	rec.Black = g.TileCount(domain.Black)
	rec.White = g.TileCount(domain.White)
	return rec, nil
}

func summarize(records []GameRecord) Summary {
	s := Summary{Games: len(records), Records: records}
	s.BlackWins = lo.CountBy(records, func(r GameRecord) bool { return r.Result == domain.BlackWin })
	s.WhiteWins = lo.CountBy(records, func(r GameRecord) bool { return r.Result == domain.WhiteWin })
	s.Draws = lo.CountBy(records, func(r GameRecord) bool { return r.Result == domain.Draw })
	diff := lo.SumBy(records, func(r GameRecord) int { return r.Black - r.White })
	if len(records) > 0 {
		s.AvgDiff = float64(diff) / float64(len(records))
	}
	return s
}
