package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"github.com/samber/lo"

	"github.com/jaminalder/codex-othello/internal/app"
	"github.com/jaminalder/codex-othello/internal/domain"
)

type handlers struct {
	svc *app.Service
	tpl *templates
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
	return renderTemplate(h.tpl.board, "", newBoardView(gs, errMsg))
}

func writeHTML(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, renderTemplate(h.tpl.index, "base", nil))
}

// parseMode maps the new-game form value to the AI side: "human" for two
// players, "ai-black" or "ai-white". Anything else gets the computer as White.
func parseMode(mode string) domain.Side {
	if mode == "human" {
		return domain.NoSide
	}
	side, err := domain.ParseSide(strings.TrimPrefix(mode, "ai-"))
	if err != nil || side == domain.NoSide {
		return domain.White
	}
	return side
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	gs, err := h.svc.CreateGame(app.Options{AI: parseMode(r.Form.Get("mode"))})
	if err != nil {
		hlog.FromRequest(r).Err(err).Msg("create-game-failed")
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !app.ValidID(id) {
		http.NotFound(w, r)
		return
	}
	// ensure cookie and auto-claim seat
	pid := ensurePlayerCookie(w, r)
	_, _, _ = h.svc.Join(id, pid)

	gs, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeHTML(w, renderTemplate(h.tpl.game, "base", newBoardView(*gs, "")))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	_, gs, err := h.svc.Join(id, pid)
	if err != nil || gs == nil {
		http.NotFound(w, r)
		return
	}
	writeHTML(w, h.renderBoard(*gs, ""))
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrNotAPlayer):
		return "You are a spectator"
	case errors.Is(err, domain.ErrGameOver):
		return "Game is over"
	case errors.Is(err, domain.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, domain.ErrOccupied):
		return "Cell is occupied"
	case errors.Is(err, domain.ErrOutOfBounds):
		return "Out of bounds"
	case errors.Is(err, domain.ErrNoCapture):
		return "That move captures nothing"
	default:
		return "Invalid move"
	}
}

// respond renders the board fragment after a mutation; failed requests get
// the unchanged board with an error message.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, id string, gs *app.GameState, err error) {
	var errMsg string
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		errMsg = errorMessage(err)
		hlog.FromRequest(r).Debug().Err(err).Str("game", id).Msg("request-rejected")
		if g, ok := h.svc.Get(id); ok {
			gs = g
		}
	}
	if gs == nil {
		http.NotFound(w, r)
		return
	}
	writeHTML(w, h.renderBoard(*gs, errMsg))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	_ = r.ParseForm()
	ri, errR := strconv.Atoi(r.Form.Get("r"))
	ci, errC := strconv.Atoi(r.Form.Get("c"))
	if errR != nil || errC != nil {
		// let the engine reject it as out of bounds
		ri, ci = -1, -1
	}
	gs, err := h.svc.Play(id, pid, ri, ci)
	h.respond(w, r, id, gs, err)
}

func (h *handlers) restart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	gs, err := h.svc.Restart(id, pid)
	h.respond(w, r, id, gs, err)
}

type stateResponse struct {
	ID         string       `json:"id"`
	Board      domain.Board `json:"board"`
	Turn       string       `json:"turn"`
	Result     string       `json:"result"`
	Black      int          `json:"black"`
	White      int          `json:"white"`
	AI         string       `json:"ai"`
	LastMove   string       `json:"last_move"`
	LegalMoves []string     `json:"legal_moves"`
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	g := &gs.Game
	resp := stateResponse{
		ID:       gs.ID,
		Board:    g.Board,
		Turn:     g.Turn.String(),
		Result:   g.Result.String(),
		Black:    g.TileCount(domain.Black),
		White:    g.TileCount(domain.White),
		AI:       g.AI.String(),
		LastMove: g.LastMove.String(),
		LegalMoves: lo.Map(g.LegalMoves(g.Turn), func(p domain.Pos, _ int) string {
			return p.String()
		}),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		hlog.FromRequest(r).Err(err).Msg("encode-state-failed")
	}
}

var heartbeatInterval = 15 * time.Second

// SetHeartbeat changes the SSE keep-alive interval.
func SetHeartbeat(d time.Duration) {
	if d > 0 {
		heartbeatInterval = d
	}
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, _ := h.svc.Subscribe(ctx, id)
	// heartbeat ticker
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	// Initial flush of headers
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			// SSE data lines cannot contain newlines
			_, _ = fmt.Fprintf(w, "event: board\n")
			for _, line := range strings.Split(string(b), "\n") {
				_, _ = fmt.Fprintf(w, "data: %s\n", line)
			}
			_, _ = io.WriteString(w, "\n")
			flusher.Flush()
		}
	}
}
