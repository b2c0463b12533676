package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jaminalder/codex-othello/internal/domain"
)

// Errors exposed by the service layer.
var (
	ErrNotFound   = errors.New("game not found")
	ErrNotAPlayer = errors.New("not a player")
)

// MoveSelector chooses the computer's move.
type MoveSelector interface {
	SelectMove(g *domain.Game, side domain.Side) (domain.Pos, error)
}

// Options configure a new game.
type Options struct {
	// AI is the computer-controlled side, or NoSide for two humans.
	AI domain.Side
}

// GameState is the in-memory state tracked per game.
type GameState struct {
	ID      string
	Game    domain.Game
	Black   string
	White   string
	Created time.Time
	Updated time.Time
}

// Seat returns the side playerID is seated on, or NoSide for spectators.
func (gs *GameState) Seat(playerID string) domain.Side {
	switch {
	case playerID == "":
		return domain.NoSide
	case gs.Black == playerID:
		return domain.Black
	case gs.White == playerID:
		return domain.White
	}
	return domain.NoSide
}

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games and subscribers. AI replies are computed
// synchronously inside Play, Restart and CreateGame.
type Service struct {
	mu     sync.Mutex
	games  map[string]*GameState
	subs   map[string]map[*subscriber]struct{}
	render func(GameState) []byte
	ai     MoveSelector
}

// NewService creates a service with a default renderer (encodes nothing useful).
func NewService(ai MoveSelector) *Service {
	return NewServiceWithRenderer(ai, func(gs GameState) []byte { return nil })
}

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(ai MoveSelector, renderer func(GameState) []byte) *Service {
	if renderer == nil {
		renderer = func(gs GameState) []byte { return nil }
	}
	return &Service{
		games:  make(map[string]*GameState),
		subs:   make(map[string]map[*subscriber]struct{}),
		render: renderer,
		ai:     ai,
	}
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(gs GameState) []byte { return nil }
		return
	}
	s.render = renderer
}

// CreateGame creates and registers a new game. When the AI plays Black it
// makes its first move before returning.
func (s *Service) CreateGame(opts Options) (*GameState, error) {
	if opts.AI != domain.NoSide && s.ai == nil {
		return nil, fmt.Errorf("no move selector configured for %v", opts.AI)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := newGameID()
	now := time.Now()
	gs := &GameState{ID: id, Game: domain.New(opts.AI), Created: now, Updated: now}
	if err := s.runAILocked(gs); err != nil {
		return nil, err
	}
	gs.Game.Changed = false
	s.games[id] = gs
	log.Info().Str("game", id).Str("ai", opts.AI.String()).Msg("game-created")
	cp := *gs
	return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	cp := *gs
	return &cp, true
}

// Join assigns a human seat to the player if available; returns NoSide for
// spectators. The AI side is never handed out.
func (s *Service) Join(id, playerID string) (domain.Side, *GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return domain.NoSide, nil, ErrNotFound
	}
	side := gs.Seat(playerID)
	if side == domain.NoSide && playerID != "" {
		ai := gs.Game.AI
		if ai != domain.Black && gs.Black == "" {
			gs.Black = playerID
			side = domain.Black
		} else if ai != domain.White && gs.White == "" {
			gs.White = playerID
			side = domain.White
		}
	}
	gs.Updated = time.Now()
	cp := *gs
	return side, &cp, nil
}

// Play validates the seat, applies the move, lets the AI reply and
// broadcasts the new state.
func (s *Service) Play(id, playerID string, r, c int) (*GameState, error) {
	return s.mutate(id, playerID, func(gs *GameState, seat domain.Side) error {
		if _, err := gs.Game.Apply(seat, r, c); err != nil {
			return err
		}
		log.Debug().Str("game", id).Str("side", seat.String()).
			Str("move", domain.Pos{Row: r, Col: c}.String()).Msg("move-played")
		return nil
	})
}

// Restart resets a game to the opening position. Only seated players may
// restart.
func (s *Service) Restart(id, playerID string) (*GameState, error) {
	return s.mutate(id, playerID, func(gs *GameState, _ domain.Side) error {
		gs.Game.Reset()
		log.Info().Str("game", id).Msg("game-restarted")
		return nil
	})
}

func (s *Service) mutate(id, playerID string, fn func(gs *GameState, seat domain.Side) error) (*GameState, error) {
	var payload []byte
	var cp GameState
	var toDrop []*subscriber

	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	seat := gs.Seat(playerID)
	if seat == domain.NoSide {
		s.mu.Unlock()
		return nil, ErrNotAPlayer
	}
	if err := fn(gs, seat); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err := s.runAILocked(gs); err != nil {
		// The human move stands; the AI will be retried on the next call.
		log.Err(err).Str("game", id).Msg("ai-move-failed")
	}
	gs.Updated = time.Now()
	if gs.Game.Over() && gs.Game.Changed {
		log.Info().Str("game", id).Str("result", gs.Game.Result.String()).
			Int("black", gs.Game.TileCount(domain.Black)).
			Int("white", gs.Game.TileCount(domain.White)).Msg("game-over")
	}

	// Snapshot state and subscribers
	changed := gs.Game.Changed
	gs.Game.Changed = false
	cp = *gs
	subs := s.copySubsLocked(id)
	if changed {
		payload = s.render(cp)
	}
	s.mu.Unlock()

	if !changed {
		return &cp, nil
	}
	// Fan-out; drop slow subscribers by closing and marking for deletion
	for sub := range subs {
		select {
		case sub.ch <- payload:
		default:
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	if len(toDrop) > 0 {
		s.mu.Lock()
		for _, sub := range toDrop {
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
		}
		s.mu.Unlock()
	}
	return &cp, nil
}

// runAILocked plays AI moves for as long as the AI is to move; more than one
// in a row when the human side has to pass.
func (s *Service) runAILocked(gs *GameState) error {
	for gs.Game.AIReadyToMove() {
		if s.ai == nil {
			return fmt.Errorf("no move selector configured for %v", gs.Game.AI)
		}
		side := gs.Game.Turn
		m, err := s.ai.SelectMove(&gs.Game, side)
		if err != nil {
			return err
		}
		if _, err := gs.Game.Apply(side, m.Row, m.Col); err != nil {
			return fmt.Errorf("ai chose %v: %w", m, err)
		}
		log.Debug().Str("game", gs.ID).Str("side", side.String()).Str("move", m.String()).Msg("ai-move-played")
	}
	return nil
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
				if len(set) == 0 {
					delete(s.subs, id)
				}
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{})
	if set, ok := s.subs[id]; ok {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out
}
