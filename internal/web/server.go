package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/jaminalder/codex-othello/internal/app"
)

// NewServer wires routes and returns an http.Handler. The service renderer
// is set to the board fragment so subscribers receive ready-to-swap HTML.
func NewServer(s *app.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("http-request")
	}))

	h := &handlers{svc: s, tpl: loadTemplates()}
	s.SetRenderer(func(gs app.GameState) []byte { return h.renderBoard(gs, "") })
	r.Get("/", h.index)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/join", h.join)
		r.Post("/play", h.play)
		r.Post("/restart", h.restart)
		r.Get("/state", h.state)
		r.Get("/events", h.events)
	})
	return r
}
