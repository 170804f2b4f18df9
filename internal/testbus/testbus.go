// Package testbus supervises the goroutines that stand in for the AP and
// each Component in integration tests running against the in-memory bus
// (spec Section 5: each party is single-threaded internally; this only
// supervises the independent parties, never shares protocol state).
package testbus

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Server is anything that serves one command and returns, the shape both
// handshake.Component.ServeOne and a REPL step share.
type Server interface {
	ServeOne() error
}

// Supervisor runs a fixed set of Servers in a loop, each on its own
// goroutine, until Stop is called.
type Supervisor struct {
	cancel context.CancelFunc
	group  *errgroup.Group
}

// Run starts one goroutine per server, each looping ServeOne until the
// Supervisor is stopped. A server whose ServeOne returns an error before
// cancellation stops looping, and the errgroup cancels the shared context
// so the other loops end after their current ServeOne call. Stop discards
// that error.
func Run(servers ...Server) *Supervisor {
	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)

	for _, s := range servers {
		s := s
		group.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				default:
				}
				if err := s.ServeOne(); err != nil {
					select {
					case <-gctx.Done():
						return nil
					default:
						return err
					}
				}
			}
		})
	}

	return &Supervisor{cancel: cancel, group: group}
}

// Stop cancels every supervised server and waits for its goroutine to
// return. Errors encountered before cancellation are discarded; tests
// that care about a specific server's error should drive it directly
// instead of through a Supervisor.
func (s *Supervisor) Stop() {
	s.cancel()
	s.group.Wait()
}
