package ports

import "context"

// Incrementer applies a sold-package increment through one inventory strategy.
type Incrementer interface {
	Increment(ctx context.Context, id string, by int) error
	// Strategy names the increment path for logs and health output.
	Strategy() string
}
