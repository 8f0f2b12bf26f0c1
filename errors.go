package threadpool

import (
	"errors"
)

// Common errors returned by the pool.
var (
	// ErrCanceled is returned by Submit when the pool is shutting down,
	// or when the provider refused to grant a worker. In the latter case
	// the item is already queued and will still be released (see Submit).
	ErrCanceled = errors.New("threadpool: canceled")

	// ErrInvalidMaxThreads is returned by New when maxThreads < 1.
	ErrInvalidMaxThreads = errors.New("threadpool: max threads must be at least 1")

	// ErrNilProvider is returned by New when no provider is supplied.
	ErrNilProvider = errors.New("threadpool: provider is nil")

	// ErrNilCallback is returned by Submit when the item is nil or is
	// missing its Action or Release callback.
	ErrNilCallback = errors.New("threadpool: item action and release must be set")

	// ErrItemQueued is returned by Submit when the item is already linked
	// into a queue.
	ErrItemQueued = errors.New("threadpool: item is already queued")

	// ErrShuttingDown is returned by Shutdown when shutdown was already
	// requested.
	ErrShuttingDown = errors.New("threadpool: shutdown already requested")
)
