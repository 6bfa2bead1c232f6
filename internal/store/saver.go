package store

import (
	"context"
	"log/slog"
	"time"
)

// saveTimeout bounds a single background save.
const saveTimeout = 5 * time.Second

// saver persists snapshots on a background goroutine. Only the newest pending
// snapshot is kept: a burst of dispatches results in one write of the final state.
type saver struct {
	persister Persister
	logger    *slog.Logger
	onError   func(error)
	pending   chan State
	done      chan struct{}
}

func newSaver(p Persister, logger *slog.Logger, onError func(error)) *saver {
	w := &saver{
		persister: p,
		logger:    logger,
		onError:   onError,
		pending:   make(chan State, 1),
		done:      make(chan struct{}),
	}
	go w.run()
	return w
}

// submit queues st, replacing any snapshot not yet written.
// Callers serialize submit (the store holds its lock).
func (w *saver) submit(st State) {
	for {
		select {
		case w.pending <- st:
			return
		default:
		}
		select {
		case <-w.pending:
		default:
		}
	}
}

func (w *saver) run() {
	defer close(w.done)
	for st := range w.pending {
		w.save(st)
	}
}

// save writes st. Failures are logged and swallowed: in-memory state stays authoritative.
func (w *saver) save(st State) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := w.persister.Save(ctx, st); err != nil {
		w.logger.Warn("failed to persist state", "error", err)
		if w.onError != nil {
			w.onError(err)
		}
	}
}

// close stops accepting snapshots and waits for the queue to drain.
func (w *saver) close(ctx context.Context) error {
	close(w.pending)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
