// Package websocket provides the WebSocket transport for the Hallway
// presence server.
//
// The websocket package implements:
//   - The connection gateway: upgrade, message decoding, handler dispatch
//   - Per-connection session state (Idle, Joined, Closed)
//   - The broadcast hub fanning events out to room occupants
//   - Connection lifecycle with an exactly-once leave latch
//
// Message Protocol:
//
// Messages are JSON envelopes with a type discriminator:
//   - Incoming: {"type": "join", "payload": {"spaceId": "lobby", "token": "..."}}
//   - Incoming: {"type": "move", "payload": {"x": 3, "y": 4}}
//   - Outgoing: space-joined, user-joined, movement, movement-rejected,
//     user-left, and error events, each under the same envelope shape.
//
// Connection Lifecycle:
//
// 1. Client connects and is registered with the hub under a fresh UUID
// 2. The first accepted join binds the connection to exactly one room
// 3. Moves are validated and committed under the room's serialization
// 4. Explicit leave or transport close triggers cleanup exactly once
//
// Concurrency:
//
// Each connection runs a read pump and a write pump. Session state is owned
// by the read pump, so handlers never race each other for one connection.
// Outbound delivery is a non-blocking enqueue per recipient: a slow peer's
// events are dropped and counted, never allowed to stall a room or another
// recipient. Broadcasts are dispatched only after the room operation has
// committed and released its lock.
package websocket
