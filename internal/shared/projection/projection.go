package projection

import "time"

// Metadata carries what the store knows about a record but the domain entity does not.
// Orders are immutable, so only the creation time is tracked.
type Metadata struct {
	CreatedAt time.Time
}

// Projection pairs a stored entity with its metadata.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}

// Of wraps entity with its creation time normalised to UTC.
func Of[T any](entity T, createdAt time.Time) *Projection[T] {
	return &Projection[T]{Entity: entity, Metadata: Metadata{CreatedAt: createdAt.UTC()}}
}
