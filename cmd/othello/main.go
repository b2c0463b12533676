// othello serves the game over HTTP with an optional computer opponent.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jaminalder/codex-othello/internal/ai"
	"github.com/jaminalder/codex-othello/internal/app"
	"github.com/jaminalder/codex-othello/internal/config"
	"github.com/jaminalder/codex-othello/internal/web"
)

const (
	GracefulShutdownTimeout = 20 * time.Second
)

var configPath = flag.String("config", "", "path to a YAML config file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.PrettyLogs {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	weights := ai.DefaultWeights()
	if cfg.WeightsPath != "" {
		if weights, err = ai.LoadWeights(cfg.WeightsPath); err != nil {
			log.Fatal().Err(err).Str("path", cfg.WeightsPath).Msg("loading weights")
		}
	}
	web.SetHeartbeat(cfg.Heartbeat)

	svc := app.NewService(ai.NewSelector(cfg.AIDepth, weights))
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewServer(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		// We received an interrupt signal, shut down.
		log.Info().Msg("got quit signal...")
		ctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("http-server-shutdown")
		}
		close(idleConnsClosed)
	}()

	log.Info().Str("addr", cfg.Addr).Int("aiDepth", cfg.AIDepth).Msg("listening")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http-server")
	}
	<-idleConnsClosed
	log.Info().Msg("server gracefully shut down")
}
