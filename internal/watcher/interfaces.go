package watcher

import "context"

// Watcher reports debounced batches of changed source files.
type Watcher interface {
	// Start begins watching, calling onChange with each debounced batch of
	// changed paths (sorted, deduplicated). It returns immediately.
	Start(ctx context.Context, onChange func(paths []string)) error

	// Stop stops watching and waits for the event loop to exit. Safe to
	// call more than once.
	Stop() error

	// Pause holds batches back while still collecting events.
	Pause()

	// Resume releases held batches. Events collected during the pause are
	// delivered right away.
	Resume()
}
