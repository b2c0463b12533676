package ai

import (
	"lukechampine.com/frand"

	"github.com/jaminalder/codex-othello/internal/domain"
)

const bignum = 1<<63 - 2

// keys are generated from a fixed seed so hashes, and therefore searches,
// are reproducible between processes.
var zobristSeed = [32]byte{
	'o', 't', 'h', 'e', 'l', 'l', 'o', '-', 'z', 'o', 'b', 'r', 'i', 's', 't', '-',
	'k', 'e', 'y', 's', '-', 'v', '1', 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Zobrist hashes a position together with the side to move.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	cells     [domain.Size * domain.Size][3]uint64
	whiteTurn uint64
}

var keys = NewZobrist(zobristSeed[:])

// NewZobrist builds the key tables from a 32-byte seed.
func NewZobrist(seed []byte) *Zobrist {
	rng := frand.NewCustom(seed, 1024, 12)
	z := &Zobrist{}
	for i := range z.cells {
		// Empty cells never enter the hash.
		z.cells[i][domain.BlackDisc] = rng.Uint64n(bignum) + 1
		z.cells[i][domain.WhiteDisc] = rng.Uint64n(bignum) + 1
	}
	z.whiteTurn = rng.Uint64n(bignum) + 1
	return z
}

// Hash computes the key of b with side to move from scratch.
func (z *Zobrist) Hash(b *domain.Board, side domain.Side) uint64 {
	key := uint64(0)
	for r := 0; r < domain.Size; r++ {
		for c := 0; c < domain.Size; c++ {
			if cell := b[r][c]; cell != domain.Empty {
				key ^= z.cells[r*domain.Size+c][cell]
			}
		}
	}
	if side == domain.White {
		key ^= z.whiteTurn
	}
	return key
}

// Play updates key for side placing at p and flipping flipped. The side to
// move switches to the opponent.
func (z *Zobrist) Play(key uint64, side domain.Side, p domain.Pos, flipped []domain.Pos) uint64 {
	own, opp := side.Disc(), side.Opponent().Disc()
	key ^= z.cells[p.Row*domain.Size+p.Col][own]
	for _, f := range flipped {
		i := f.Row*domain.Size + f.Col
		key ^= z.cells[i][opp] ^ z.cells[i][own]
	}
	return key ^ z.whiteTurn
}

// Pass updates key for a change of the side to move only.
func (z *Zobrist) Pass(key uint64) uint64 {
	return key ^ z.whiteTurn
}
