package domain

import (
	"errors"
	"testing"
)

func TestPosNotation(t *testing.T) {
	cases := map[string]Pos{"a1": {0, 0}, "d3": {2, 3}, "h8": {7, 7}, "c6": {5, 2}}
	for s, want := range cases {
		if got := want.String(); got != s {
			t.Fatalf("String(%v) = %q, want %q", want, got, s)
		}
		got, err := ParsePos(s)
		if err != nil || got != want {
			t.Fatalf("ParsePos(%q) = %v, %v; want %v", s, got, err, want)
		}
	}
	for _, bad := range []string{"", "i1", "a9", "a0", "d33"} {
		if _, err := ParsePos(bad); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("ParsePos(%q): expected ErrOutOfBounds, got %v", bad, err)
		}
	}
	if NoPos.String() != "--" {
		t.Fatalf("expected NoPos to render as --")
	}
}

func TestParseSide(t *testing.T) {
	for in, want := range map[string]Side{"black": Black, "W": White, "": NoSide, "none": NoSide} {
		got, err := ParseSide(in)
		if err != nil || got != want {
			t.Fatalf("ParseSide(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseSide("red"); err == nil {
		t.Fatalf("expected error for unknown side")
	}
	if Black.Opponent() != White || White.Opponent() != Black || NoSide.Opponent() != NoSide {
		t.Fatalf("unexpected opponents")
	}
}

func TestBoardStringRoundTrip(t *testing.T) {
	b := NewBoard()
	b.Play(Black, Pos{2, 3})
	parsed, err := ParseBoard(b.String())
	if err != nil {
		t.Fatalf("ParseBoard failed: %v", err)
	}
	if parsed != b {
		t.Fatalf("round trip mismatch:\n%s\nvs\n%s", b, parsed)
	}
	if _, err := ParseBoard("X . ."); err == nil {
		t.Fatalf("expected error for short board")
	}
}

func TestPlayWithoutCaptureLeavesBoard(t *testing.T) {
	b := NewBoard()
	before := b
	if flipped := b.Play(Black, Pos{0, 0}); flipped != nil {
		t.Fatalf("expected no flips, got %v", flipped)
	}
	if flipped := b.Play(Black, Pos{3, 3}); flipped != nil {
		t.Fatalf("expected no flips on occupied cell, got %v", flipped)
	}
	if b != before {
		t.Fatalf("board mutated by a non-capturing play")
	}
	if b.Mobility(Black) != 4 || b.Mobility(White) != 4 {
		t.Fatalf("expected 4 opening moves per side, got %d/%d", b.Mobility(Black), b.Mobility(White))
	}
	if b.At(Pos{-1, 0}) != Empty {
		t.Fatalf("expected out of range cell to read empty")
	}
}
