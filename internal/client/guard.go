package client

import "sync/atomic"

// Guard is a busy flag. A refresh that arrives while another is in flight is
// dropped, not queued.
type Guard struct {
	busy atomic.Bool
}

// TryAcquire sets the flag and reports whether the caller now holds it.
func (g *Guard) TryAcquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

// Release clears the flag. Call it with defer after a successful TryAcquire.
func (g *Guard) Release() {
	g.busy.Store(false)
}

// Busy reports whether a refresh is in flight.
func (g *Guard) Busy() bool {
	return g.busy.Load()
}
