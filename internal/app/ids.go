package app

import "github.com/google/uuid"

// NewPlayerID returns a fresh random player identifier.
func NewPlayerID() string { return uuid.NewString() }

func newGameID() string { return uuid.NewString() }

// ValidID reports whether id looks like an identifier issued by this package.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
