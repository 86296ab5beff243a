package utils

import (
	"strings"

	"github.com/google/uuid"
)

func NewSessionID() string {
	return uuid.NewString()
}

// ValidSessionID reports whether id looks like one NewSessionID produced.
func ValidSessionID(id string) bool {
	if strings.TrimSpace(id) == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
