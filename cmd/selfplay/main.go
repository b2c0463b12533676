// selfplay pits two computer players against each other and prints a summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jaminalder/codex-othello/internal/ai"
	"github.com/jaminalder/codex-othello/internal/domain"
	"github.com/jaminalder/codex-othello/internal/selfplay"
)

var (
	games        = flag.Int("games", 20, "number of games")
	blackDepth   = flag.Int("black-depth", ai.DefaultDepth, "search depth for black")
	whiteDepth   = flag.Int("white-depth", ai.DefaultDepth, "search depth for white")
	blackWeights = flag.String("black-weights", "", "YAML weights for black")
	whiteWeights = flag.String("white-weights", "", "YAML weights for white")
	workers      = flag.Int("workers", 0, "games played at once (0 = GOMAXPROCS)")
	openings     = flag.Int("openings", 4, "plies chosen by game index before searching")
	verbose      = flag.Bool("v", false, "debug logging and final boards")
)

func loadWeights(path string) ai.Weights {
	if path == "" {
		return ai.DefaultWeights()
	}
	w, err := ai.LoadWeights(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("loading weights")
	}
	return w
}

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := selfplay.Run(ctx, selfplay.Options{
		Games:        *games,
		BlackDepth:   *blackDepth,
		WhiteDepth:   *whiteDepth,
		BlackWeights: loadWeights(*blackWeights),
		WhiteWeights: loadWeights(*whiteWeights),
		Workers:      *workers,
		Openings:     *openings,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("selfplay")
	}
	if *verbose {
		for _, rec := range sum.Records {
			g := domain.New(domain.NoSide)
			for _, m := range rec.Moves {
				if _, err := g.Apply(g.Turn, m.Row, m.Col); err != nil {
					log.Fatal().Err(err).Int("game", rec.Index).Msg("replay")
				}
			}
			fmt.Printf("game %d: %v %d:%d\n%s\n", rec.Index, rec.Result, rec.Black, rec.White, g.Board)
		}
	}
	fmt.Println(sum)
}
