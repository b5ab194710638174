// Package uuid hands out identifiers for characters and feed entries
package uuid

//go:generate mockgen -destination=mocks/mock_generator.go -package=mockuuid -source=uuid.go

import (
	"github.com/google/uuid"
)

// Generator is an interface for generating ids
type Generator interface {
	New() string
}

// GoogleUUIDGenerator implements Generator with random (v4) UUIDs
type GoogleUUIDGenerator struct{}

// New generates a new UUID string
func (g *GoogleUUIDGenerator) New() string {
	return uuid.NewString()
}

// NewGoogleUUIDGenerator creates a new GoogleUUIDGenerator
func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}

// Valid reports whether id is a well-formed UUID. Imported sheets keep
// their own ids only when they pass.
func Valid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
