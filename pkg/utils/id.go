package utils

import "github.com/google/uuid"

func NewID() string { return uuid.NewString() }

// IsID reports whether s looks like an id produced by NewID.
func IsID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
