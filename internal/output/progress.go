package output

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Tracker consumes per-file progress on its own goroutine so the tree
// walker is never blocked on terminal writes. Processed must not be
// called after Join.
type Tracker struct {
	ch    chan string
	done  <-chan struct{}
	group *errgroup.Group
}

// NewTracker starts the progress consumer for one expansion run.
func (p *Printer) NewTracker(ctx context.Context) *Tracker {
	group, ctx := errgroup.WithContext(ctx)
	t := &Tracker{
		ch:    make(chan string, 64),
		done:  ctx.Done(),
		group: group,
	}
	group.Go(func() error {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case rel, ok := <-t.ch:
				if !ok {
					return nil
				}
				p.Rendered(rel)
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
	return t
}

// Processed reports one rendered file. Reports after the consumer has
// stopped are dropped, so a cancelled run never blocks the walker.
func (t *Tracker) Processed(rel string) {
	select {
	case t.ch <- rel:
	case <-t.done:
	}
}

// Join drains the remaining progress and waits for the consumer, so
// later output is not interleaved with file chatter.
func (t *Tracker) Join() error {
	close(t.ch)
	return t.group.Wait()
}
