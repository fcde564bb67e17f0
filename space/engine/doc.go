// Package engine provides the core movement logic for the Hallway presence
// server.
//
// The engine package implements:
//   - Space geometry (dimensions, blocked cells, spawn cell)
//   - Single-step movement validation
//   - Collision detection against static obstacles and other occupants
//
// Core Types:
//
// Space describes the read-only geometry of a virtual space as supplied by
// the platform's map service. Position is an integer grid coordinate.
// ValidateMove is the pure decision function applied to every movement
// request; it never mutates anything and reports a MoveResult carrying the
// authoritative resulting position.
//
// Decision Rules:
//
// A requested position is accepted only when it is exactly one orthogonal
// cell away from the current position, lies inside the space bounds, is not
// a blocked cell, and is not occupied by another user. Rules are applied in
// that order and the first failing rule names the rejection reason. Every
// rejection resolves to the unchanged current position.
//
// Usage:
//
//	space := &engine.Space{ID: "lobby", Width: 10, Height: 10}
//	result := engine.ValidateMove(cur, req, space, occupied)
//	if result.Accepted {
//		// commit result.Position
//	}
//
// Concurrency:
//
// The package holds no state of its own. Space values are treated as
// immutable after construction and are safe for concurrent readers.
package engine
