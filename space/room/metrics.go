package room

import "sync/atomic"

// Metrics records server-wide presence counters. All counters are atomic;
// a Metrics value is shared by the registry and the transport layer.
type Metrics struct {
	joins          atomic.Int64
	leaves         atomic.Int64
	movesAccepted  atomic.Int64
	movesRejected  atomic.Int64
	roomsCreated   atomic.Int64
	roomsDestroyed atomic.Int64
	eventsDropped  atomic.Int64
}

// NewMetrics creates a zeroed collector.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) IncJoins()          { m.joins.Add(1) }
func (m *Metrics) IncLeaves()         { m.leaves.Add(1) }
func (m *Metrics) IncMovesAccepted()  { m.movesAccepted.Add(1) }
func (m *Metrics) IncMovesRejected()  { m.movesRejected.Add(1) }
func (m *Metrics) IncRoomsCreated()   { m.roomsCreated.Add(1) }
func (m *Metrics) IncRoomsDestroyed() { m.roomsDestroyed.Add(1) }
func (m *Metrics) IncEventsDropped()  { m.eventsDropped.Add(1) }

// Snapshot returns a read-only copy for HTTP output.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"joins":           m.joins.Load(),
		"leaves":          m.leaves.Load(),
		"moves_accepted":  m.movesAccepted.Load(),
		"moves_rejected":  m.movesRejected.Load(),
		"rooms_created":   m.roomsCreated.Load(),
		"rooms_destroyed": m.roomsDestroyed.Load(),
		"events_dropped":  m.eventsDropped.Load(),
	}
}
