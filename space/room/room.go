package room

import (
	"sync"

	"github.com/hallwaylabs/hallway/space/engine"
)

// Occupant is a joined user's live position record within a Room.
type Occupant struct {
	UserID string
	ConnID string
	Pos    engine.Position
}

// OccupantSnapshot is the wire-level view of an occupant.
type OccupantSnapshot struct {
	UserID string `json:"userId"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// Room is the runtime instance of a space. All occupant state is guarded by
// mu; the geometry is immutable.
type Room struct {
	spaceID string
	space   *engine.Space

	mu        sync.Mutex
	occupants map[string]*Occupant // keyed by userID
	byConn    map[string]string    // connID -> userID
	closed    bool
}

func newRoom(spaceID string, space *engine.Space) *Room {
	return &Room{
		spaceID:   spaceID,
		space:     space,
		occupants: make(map[string]*Occupant),
		byConn:    make(map[string]string),
	}
}

// SpaceID returns the id of the space this room instantiates.
func (r *Room) SpaceID() string {
	return r.spaceID
}

// Space returns the room's immutable geometry.
func (r *Room) Space() *engine.Space {
	return r.space
}

// JoinResult carries everything the caller needs to answer a join: the
// assigned spawn, a snapshot of the other occupants, and the recipient set
// for the user-joined broadcast.
type JoinResult struct {
	Spawn        engine.Position
	Others       []OccupantSnapshot
	OtherConnIDs []string

	// When the same user was already in the room, the prior entry is
	// replaced; Evicted names its connection so the gateway can retire it.
	Evicted       bool
	EvictedConnID string
}

// join inserts an occupant at the space's spawn cell. The second return is
// false when the room is already closed, in which case the caller must
// re-resolve a room from the registry.
//
// Joining a room the same user already occupies replaces the prior entry;
// the room never holds two occupants for one userID.
func (r *Room) join(userID, connID string) (JoinResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return JoinResult{}, false
	}

	result := JoinResult{Spawn: r.space.Spawn}
	if prior, ok := r.occupants[userID]; ok {
		result.Evicted = true
		result.EvictedConnID = prior.ConnID
		delete(r.byConn, prior.ConnID)
		delete(r.occupants, userID)
	}

	for _, occupant := range r.occupants {
		result.Others = append(result.Others, OccupantSnapshot{
			UserID: occupant.UserID,
			X:      occupant.Pos.X,
			Y:      occupant.Pos.Y,
		})
		result.OtherConnIDs = append(result.OtherConnIDs, occupant.ConnID)
	}

	r.occupants[userID] = &Occupant{UserID: userID, ConnID: connID, Pos: r.space.Spawn}
	r.byConn[connID] = userID
	return result, true
}

// MoveOutcome is the room's answer to a movement request.
type MoveOutcome struct {
	UserID       string
	Result       engine.MoveResult
	OtherConnIDs []string
}

// move validates the requested position for the occupant owning connID and
// commits it when accepted. The second return is false when the connection
// has no occupant in this room.
func (r *Room) move(connID string, requested engine.Position) (MoveOutcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[connID]
	if !ok {
		return MoveOutcome{}, false
	}
	occupant := r.occupants[userID]

	occupied := func(p engine.Position) bool {
		for _, other := range r.occupants {
			if other.UserID != userID && other.Pos == p {
				return true
			}
		}
		return false
	}

	outcome := MoveOutcome{
		UserID: userID,
		Result: engine.ValidateMove(occupant.Pos, requested, r.space, occupied),
	}
	if outcome.Result.Accepted {
		occupant.Pos = outcome.Result.Position
		for _, other := range r.occupants {
			if other.UserID != userID {
				outcome.OtherConnIDs = append(outcome.OtherConnIDs, other.ConnID)
			}
		}
	}
	return outcome, true
}

// Departure describes an occupant removal and who is left to tell.
type Departure struct {
	UserID           string
	RemainingConnIDs []string
	Empty            bool
}

// leave removes the occupant owning connID. The second return is false when
// the connection has no occupant here (already evicted or never joined), in
// which case nothing changed.
func (r *Room) leave(connID string) (Departure, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[connID]
	if !ok {
		return Departure{}, false
	}
	delete(r.byConn, connID)
	delete(r.occupants, userID)

	departure := Departure{UserID: userID, Empty: len(r.occupants) == 0}
	for _, occupant := range r.occupants {
		departure.RemainingConnIDs = append(departure.RemainingConnIDs, occupant.ConnID)
	}
	return departure, true
}

// OccupantCount returns the number of occupants currently in the room.
func (r *Room) OccupantCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.occupants)
}

// Snapshot returns the current occupant list.
func (r *Room) Snapshot() []OccupantSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make([]OccupantSnapshot, 0, len(r.occupants))
	for _, occupant := range r.occupants {
		snapshot = append(snapshot, OccupantSnapshot{
			UserID: occupant.UserID,
			X:      occupant.Pos.X,
			Y:      occupant.Pos.Y,
		})
	}
	return snapshot
}
