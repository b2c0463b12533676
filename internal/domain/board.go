package domain

import (
	"fmt"
	"strings"
)

// Size is the fixed board dimension.
const Size = 8

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	BlackDisc
	WhiteDisc
)

// Side is one of the two players. The zero value means no side.
type Side uint8

const (
	NoSide Side = iota
	Black
	White
)

// Disc returns the cell value holding a disc of this side.
func (s Side) Disc() Cell { return Cell(s) }

// Opponent returns the other side.
func (s Side) Opponent() Side {
	switch s {
	case Black:
		return White
	case White:
		return Black
	default:
		return NoSide
	}
}

func (s Side) String() string {
	switch s {
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return "None"
	}
}

// ParseSide accepts "black"/"b" and "white"/"w" in any case.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b":
		return Black, nil
	case "white", "w":
		return White, nil
	case "", "none":
		return NoSide, nil
	}
	return NoSide, fmt.Errorf("unknown side %q", s)
}

// Pos is a board coordinate.
type Pos struct {
	Row int
	Col int
}

// NoPos marks the absence of a position, e.g. before the first move.
var NoPos = Pos{Row: -1, Col: -1}

func (p Pos) inBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// String renders p as column letter plus row number, e.g. "d3".
func (p Pos) String() string {
	if !p.inBounds() {
		return "--"
	}
	return fmt.Sprintf("%c%d", 'a'+p.Col, p.Row+1)
}

// ParsePos is the inverse of Pos.String.
func ParsePos(s string) (Pos, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return NoPos, fmt.Errorf("%w: %q", ErrOutOfBounds, s)
	}
	p := Pos{Row: int(s[1] - '1'), Col: int(s[0] - 'a')}
	if !p.inBounds() {
		return NoPos, fmt.Errorf("%w: %q", ErrOutOfBounds, s)
	}
	return p, nil
}

var directions = [8]struct{ dr, dc int }{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Board is the fixed 8x8 grid indexed [row][col].
type Board [Size][Size]Cell

// NewBoard returns the standard four-disc opening position.
func NewBoard() Board {
	var b Board
	mid := Size / 2
	b[mid-1][mid-1], b[mid][mid] = WhiteDisc, WhiteDisc
	b[mid-1][mid], b[mid][mid-1] = BlackDisc, BlackDisc
	return b
}

// At returns the cell at p; out of range positions read as Empty.
func (b *Board) At(p Pos) Cell {
	if !p.inBounds() {
		return Empty
	}
	return b[p.Row][p.Col]
}

// run returns the length of the opposing run starting next to (r, c) in
// direction d when it is closed by a disc of side, or 0.
func (b *Board) run(side Side, r, c, dr, dc int) int {
	own, opp := side.Disc(), side.Opponent().Disc()
	n := 0
	for r, c = r+dr, c+dc; r >= 0 && r < Size && c >= 0 && c < Size; r, c = r+dr, c+dc {
		switch b[r][c] {
		case opp:
			n++
		case own:
			return n
		default:
			return 0
		}
	}
	return 0
}

// IsLegal reports whether side may place a disc at p.
func (b *Board) IsLegal(side Side, p Pos) bool {
	if !p.inBounds() || b[p.Row][p.Col] != Empty || side == NoSide {
		return false
	}
	for _, d := range directions {
		if b.run(side, p.Row, p.Col, d.dr, d.dc) > 0 {
			return true
		}
	}
	return false
}

// LegalMoves returns every legal placement for side in row-major order.
func (b *Board) LegalMoves(side Side) []Pos {
	var moves []Pos
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			p := Pos{Row: r, Col: c}
			if b.IsLegal(side, p) {
				moves = append(moves, p)
			}
		}
	}
	return moves
}

// Mobility counts the legal moves of side.
func (b *Board) Mobility(side Side) int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.IsLegal(side, Pos{Row: r, Col: c}) {
				n++
			}
		}
	}
	return n
}

// HasLegalMove reports whether side has at least one legal move.
func (b *Board) HasLegalMove(side Side) bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.IsLegal(side, Pos{Row: r, Col: c}) {
				return true
			}
		}
	}
	return false
}

// Play places a disc for side at p and flips every captured run. It returns
// the flipped cells; when nothing would be captured the board is left
// untouched and nil is returned. Turn order is not checked.
func (b *Board) Play(side Side, p Pos) []Pos {
	if !p.inBounds() || b[p.Row][p.Col] != Empty || side == NoSide {
		return nil
	}
	var flipped []Pos
	for _, d := range directions {
		n := b.run(side, p.Row, p.Col, d.dr, d.dc)
		for i := 1; i <= n; i++ {
			flipped = append(flipped, Pos{Row: p.Row + i*d.dr, Col: p.Col + i*d.dc})
		}
	}
	if len(flipped) == 0 {
		return nil
	}
	own := side.Disc()
	b[p.Row][p.Col] = own
	for _, f := range flipped {
		b[f.Row][f.Col] = own
	}
	return flipped
}

// Count returns the number of discs of side.
func (b *Board) Count(side Side) int {
	disc := side.Disc()
	n := 0
	for r := range b {
		for _, c := range b[r] {
			if c == disc && c != Empty {
				n++
			}
		}
	}
	return n
}

// Empties returns the number of empty cells.
func (b *Board) Empties() int {
	n := 0
	for r := range b {
		for _, c := range b[r] {
			if c == Empty {
				n++
			}
		}
	}
	return n
}

// String draws the board with column letters and row numbers.
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for r := 0; r < Size; r++ {
		fmt.Fprintf(&sb, "%d", r+1)
		for c := 0; c < Size; c++ {
			switch b[r][c] {
			case BlackDisc:
				sb.WriteString(" X")
			case WhiteDisc:
				sb.WriteString(" O")
			default:
				sb.WriteString(" .")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBoard reads the diagram produced by String, or the same eight rows
// without the header and row numbers. Used to set up positions.
func ParseBoard(s string) (Board, error) {
	var b Board
	r := 0
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "a ") {
			continue
		}
		if line[0] >= '1' && line[0] <= '8' {
			line = line[1:]
		}
		cells := strings.Join(strings.Fields(line), "")
		if len(cells) != Size {
			return b, fmt.Errorf("row %d: want %d cells, got %d", r+1, Size, len(cells))
		}
		if r >= Size {
			return b, fmt.Errorf("too many rows")
		}
		for c, ch := range cells {
			switch ch {
			case 'X', 'x', 'B', 'b':
				b[r][c] = BlackDisc
			case 'O', 'o', 'W', 'w':
				b[r][c] = WhiteDisc
			case '.', '-':
				b[r][c] = Empty
			default:
				return b, fmt.Errorf("row %d: bad cell %q", r+1, ch)
			}
		}
		r++
	}
	if r != Size {
		return b, fmt.Errorf("want %d rows, got %d", Size, r)
	}
	return b, nil
}
