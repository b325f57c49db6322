package lifecycle

import "context"

// Component is the lifecycle contract for everything the manager runs.
type Component interface {
	// Start initializes and starts the component. The context can carry
	// a deadline for startup.
	Start(ctx context.Context) error

	// Stop gracefully stops the component, finishing in-flight work
	// within the context deadline.
	Stop(ctx context.Context) error

	// Name returns the human-readable component name used in logs.
	// Must be non-empty.
	Name() string
}
