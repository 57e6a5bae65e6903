package id

import "github.com/google/uuid"

// GenerateID returns a random (version 4) UUID string.
func GenerateID() string {
	return uuid.NewString()
}

// Valid reports whether s parses as a UUID.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
