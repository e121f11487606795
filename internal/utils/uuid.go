package utils

import "github.com/google/uuid"

// UUIDGenerator issues time-ordered UUIDs (version 7), falling back to a
// random version 4 UUID if the clock source fails.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
