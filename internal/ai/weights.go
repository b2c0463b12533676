package ai

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jaminalder/codex-othello/internal/domain"
)

// Weights parameterise the static evaluation.
type Weights struct {
	// Tiles multiplies the disc differential.
	Tiles int `yaml:"tiles"`
	// Mobility is subtracted once per legal move available to the opponent.
	Mobility int `yaml:"mobility"`
	// CornerAdjacent is added for each own disc next to an empty corner.
	// Normally negative.
	CornerAdjacent int `yaml:"corner_adjacent"`
	// Position scores each occupied cell for its owner.
	Position [domain.Size][domain.Size]int `yaml:"position"`
}

var ErrBadWeights = errors.New("invalid evaluation weights")

// DefaultWeights favour corners and edges and keep away from cells next to
// empty corners.
func DefaultWeights() Weights {
	return Weights{
		Tiles:          1,
		Mobility:       5,
		CornerAdjacent: -25,
		Position: [domain.Size][domain.Size]int{
			{100, -20, 10, 5, 5, 10, -20, 100},
			{-20, -30, -2, -2, -2, -2, -30, -20},
			{10, -2, 1, 1, 1, 1, -2, 10},
			{5, -2, 1, 0, 0, 1, -2, 5},
			{5, -2, 1, 0, 0, 1, -2, 5},
			{10, -2, 1, 1, 1, 1, -2, 10},
			{-20, -30, -2, -2, -2, -2, -30, -20},
			{100, -20, 10, 5, 5, 10, -20, 100},
		},
	}
}

// Validate checks the weights keep the search meaningful.
func (w Weights) Validate() error {
	if w.Tiles < 0 || w.Mobility < 0 {
		return fmt.Errorf("%w: tiles and mobility must not be negative", ErrBadWeights)
	}
	if w.CornerAdjacent > 0 {
		return fmt.Errorf("%w: corner_adjacent must not be positive", ErrBadWeights)
	}
	for _, c := range corners {
		if w.Position[c.Row][c.Col] < 0 {
			return fmt.Errorf("%w: corner %s has negative weight", ErrBadWeights, c)
		}
	}
	return nil
}

// LoadWeights reads weights from a YAML file. Keys left out keep their
// default value.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()
	data, err := os.ReadFile(path)
	if err != nil {
		return w, err
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return w, fmt.Errorf("%w: %s: %v", ErrBadWeights, path, err)
	}
	return w, w.Validate()
}
