package domain

import (
	"errors"
	"fmt"
)

// Result is the outcome of a game.
type Result uint8

const (
	InProgress Result = iota
	Draw
	BlackWin
	WhiteWin
)

func (r Result) String() string {
	switch r {
	case Draw:
		return "draw"
	case BlackWin:
		return "black wins"
	case WhiteWin:
		return "white wins"
	default:
		return "in progress"
	}
}

// Errors returned by domain operations. Every rejected placement wraps
// ErrIllegalMove.
var (
	ErrIllegalMove = errors.New("illegal move")
	ErrOutOfBounds = fmt.Errorf("%w: out of bounds", ErrIllegalMove)
	ErrOccupied    = fmt.Errorf("%w: cell occupied", ErrIllegalMove)
	ErrNoCapture   = fmt.Errorf("%w: captures nothing", ErrIllegalMove)
	ErrNotYourTurn = fmt.Errorf("%w: not your turn", ErrIllegalMove)
	ErrGameOver    = fmt.Errorf("%w: game over", ErrIllegalMove)
)

// Game holds the current state of an Othello match. A Game copied by value
// is an independent snapshot.
type Game struct {
	Board  Board
	Turn   Side
	Result Result
	// AI is the computer-controlled side, or NoSide when both are human.
	AI       Side
	Moves    int
	LastMove Pos
	// Passed is the side skipped after the last move, if any.
	Passed Side
	// Changed is set by every mutation and cleared by the renderer.
	Changed bool

	tiles [3]int
}

// New returns a game in the opening position with Black to move. ai names
// the computer-controlled side.
func New(ai Side) Game {
	g := Game{AI: ai}
	g.Reset()
	return g
}

// FromBoard starts a game from an arbitrary position with turn to move.
// The pass rule and termination check are applied immediately.
func FromBoard(b Board, turn Side, ai Side) Game {
	g := Game{Board: b, AI: ai, LastMove: NoPos, Changed: true}
	g.tiles[Black] = b.Count(Black)
	g.tiles[White] = b.Count(White)
	g.Turn = turn.Opponent()
	g.advance(g.Turn)
	return g
}

// Reset restores the opening position. The AI side is kept.
func (g *Game) Reset() {
	*g = Game{
		Board:    NewBoard(),
		Turn:     Black,
		Result:   InProgress,
		AI:       g.AI,
		LastMove: NoPos,
		Changed:  true,
	}
	g.tiles[Black], g.tiles[White] = 2, 2
}

// TileCount returns the number of discs side has on the board.
func (g *Game) TileCount(side Side) int {
	if side != Black && side != White {
		return 0
	}
	return g.tiles[side]
}

// Empties returns the number of empty cells.
func (g *Game) Empties() int {
	return Size*Size - g.tiles[Black] - g.tiles[White]
}

// LegalMoves returns the legal placements for side in row-major order.
func (g *Game) LegalMoves(side Side) []Pos {
	return g.Board.LegalMoves(side)
}

// HasLegalMove reports whether side can move in the current position.
func (g *Game) HasLegalMove(side Side) bool {
	return g.Board.HasLegalMove(side)
}

// Over reports whether the game has finished.
func (g *Game) Over() bool { return g.Result != InProgress }

// Winner returns the winning side, or NoSide for a draw or unfinished game.
func (g *Game) Winner() Side {
	switch g.Result {
	case BlackWin:
		return Black
	case WhiteWin:
		return White
	default:
		return NoSide
	}
}

// AIReadyToMove is true exactly when the side to move is computer-controlled
// and the game is still in progress.
func (g *Game) AIReadyToMove() bool {
	return g.Result == InProgress && g.AI != NoSide && g.Turn == g.AI
}

// Apply places a disc for side at row r, column c (0..7) and returns the
// flipped cells.
func (g *Game) Apply(side Side, r, c int) ([]Pos, error) {
	if g.Result != InProgress {
		return nil, ErrGameOver
	}
	if side == NoSide || side != g.Turn {
		return nil, ErrNotYourTurn
	}
	p := Pos{Row: r, Col: c}
	if !p.inBounds() {
		return nil, fmt.Errorf("%w: %d,%d", ErrOutOfBounds, r, c)
	}
	if g.Board[r][c] != Empty {
		return nil, fmt.Errorf("%w: %s", ErrOccupied, p)
	}
	flipped := g.Board.Play(side, p)
	if len(flipped) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCapture, p)
	}

	g.tiles[side] += 1 + len(flipped)
	g.tiles[side.Opponent()] -= len(flipped)
	g.Moves++
	g.LastMove = p
	g.Changed = true
	g.advance(side)
	return flipped, nil
}

// advance hands the turn to the opponent of mover, applying the pass rule
// and finishing the game when neither side can move.
func (g *Game) advance(mover Side) {
	g.Passed = NoSide
	next := mover.Opponent()
	switch {
	case g.Board.HasLegalMove(next):
		g.Turn = next
	case g.Board.HasLegalMove(mover):
		g.Turn = mover
		g.Passed = next
	default:
		g.Turn = NoSide
		g.finish()
	}
}

func (g *Game) finish() {
	b, w := g.tiles[Black], g.tiles[White]
	switch {
	case b > w:
		g.Result = BlackWin
	case w > b:
		g.Result = WhiteWin
	default:
		g.Result = Draw
	}
}
