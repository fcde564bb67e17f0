// Package room manages the live rooms of the Hallway presence server.
//
// The room package implements:
//   - Room: the in-memory runtime instance of a space while occupied
//   - Registry: spaceID-to-Room map with lazy creation and eager destruction
//   - Occupant bookkeeping and movement application
//   - Server-wide presence metrics
//
// Lifecycle:
//
// A Room is created by the Registry on the first join referencing its space
// id, loading geometry through the configured platform.SpaceLoader. It is
// removed from the Registry the moment its last occupant leaves. A removed
// Room is marked closed; a join racing the removal observes the closed flag
// and retries against the Registry, so the join lands in a fresh Room rather
// than a dead one.
//
// Concurrency:
//
// Each Room carries its own mutex: joins, moves, and leaves addressing the
// same room are serialized, while rooms for different spaces proceed fully
// in parallel. Lock ordering is Registry before Room. Room operations return
// the event payloads and recipient connection ids computed under the lock;
// callers broadcast only after the operation returns, so a slow peer never
// holds up a room.
//
// Usage:
//
//	registry := room.NewRegistry(loader, logger, metrics)
//	result, err := registry.Join(ctx, "lobby", "alice", connID)
//	outcome, err := registry.Move("lobby", connID, requested)
//	departure, err := registry.Leave("lobby", connID)
package room
