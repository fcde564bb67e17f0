package room

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/hallwaylabs/hallway/platform"
	"github.com/hallwaylabs/hallway/space/engine"
)

var (
	// ErrNotInRoom is returned for a move or leave from a connection that has
	// no occupant in the addressed room, e.g. after being replaced by a newer
	// connection of the same user.
	ErrNotInRoom = errors.New("connection has no occupant in room")
)

// Registry owns all live rooms, keyed by space id. Rooms are created lazily
// on the first join and destroyed the instant their occupant count reaches
// zero.
type Registry struct {
	loader  platform.SpaceLoader
	log     *zap.SugaredLogger
	metrics *Metrics

	mu    sync.Mutex
	rooms map[string]*Room
}

// NewRegistry creates a registry loading geometry through loader. logger and
// metrics may be nil.
func NewRegistry(loader platform.SpaceLoader, logger *zap.SugaredLogger, metrics *Metrics) *Registry {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Registry{
		loader:  loader,
		log:     logger,
		metrics: metrics,
		rooms:   make(map[string]*Room),
	}
}

// Metrics returns the registry's metrics collector.
func (reg *Registry) Metrics() *Metrics {
	return reg.metrics
}

// Join inserts the user into the room for spaceID, creating the room if
// needed. Geometry load failures propagate: platform.ErrSpaceNotFound means
// no such space, and no room is created.
//
// A join racing the removal of a just-emptied room observes the room's
// closed flag and retries, so it lands in a fresh room instead of being
// lost.
func (reg *Registry) Join(ctx context.Context, spaceID, userID, connID string) (JoinResult, error) {
	for {
		room, err := reg.getOrCreate(ctx, spaceID)
		if err != nil {
			return JoinResult{}, err
		}
		result, ok := room.join(userID, connID)
		if !ok {
			// Room was destroyed between lookup and join; resolve again.
			continue
		}
		reg.metrics.IncJoins()
		reg.log.Infow("occupant joined",
			"space", spaceID, "user", userID, "conn", connID,
			"spawn", result.Spawn, "others", len(result.Others), "replaced", result.Evicted)
		return result, nil
	}
}

// Move runs the movement validator for the occupant owning connID in the
// room for spaceID and commits the position when accepted.
func (reg *Registry) Move(spaceID, connID string, requested engine.Position) (MoveOutcome, error) {
	room, ok := reg.lookup(spaceID)
	if !ok {
		return MoveOutcome{}, fmt.Errorf("space %s: %w", spaceID, ErrNotInRoom)
	}
	outcome, ok := room.move(connID, requested)
	if !ok {
		return MoveOutcome{}, fmt.Errorf("space %s: %w", spaceID, ErrNotInRoom)
	}
	if outcome.Result.Accepted {
		reg.metrics.IncMovesAccepted()
	} else {
		reg.metrics.IncMovesRejected()
		reg.log.Debugw("movement rejected",
			"space", spaceID, "user", outcome.UserID,
			"requested", requested, "reason", outcome.Result.Reason)
	}
	return outcome, nil
}

// Leave removes the occupant owning connID from the room for spaceID and
// destroys the room when it becomes empty.
func (reg *Registry) Leave(spaceID, connID string) (Departure, error) {
	room, ok := reg.lookup(spaceID)
	if !ok {
		return Departure{}, fmt.Errorf("space %s: %w", spaceID, ErrNotInRoom)
	}
	departure, ok := room.leave(connID)
	if !ok {
		return Departure{}, fmt.Errorf("space %s: %w", spaceID, ErrNotInRoom)
	}
	reg.metrics.IncLeaves()
	reg.log.Infow("occupant left", "space", spaceID, "user", departure.UserID, "conn", connID)

	if departure.Empty {
		reg.removeIfEmpty(room)
	}
	return departure, nil
}

// RoomStatus is a point-in-time view of one live room.
type RoomStatus struct {
	SpaceID   string `json:"spaceId"`
	Occupants int    `json:"occupants"`
}

// Status reports every live room and its occupant count.
func (reg *Registry) Status() []RoomStatus {
	reg.mu.Lock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		rooms = append(rooms, room)
	}
	reg.mu.Unlock()

	status := make([]RoomStatus, 0, len(rooms))
	for _, room := range rooms {
		status = append(status, RoomStatus{SpaceID: room.spaceID, Occupants: room.OccupantCount()})
	}
	return status
}

// RoomCount returns the number of live rooms.
func (reg *Registry) RoomCount() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}

// Lookup returns the live room for spaceID, if any.
func (reg *Registry) Lookup(spaceID string) (*Room, bool) {
	return reg.lookup(spaceID)
}

func (reg *Registry) lookup(spaceID string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[spaceID]
	return room, ok
}

// getOrCreate returns the live room for spaceID, creating it from freshly
// loaded geometry when absent. The loader runs outside the registry lock so
// a slow map service for one space never stalls joins to other spaces.
func (reg *Registry) getOrCreate(ctx context.Context, spaceID string) (*Room, error) {
	if room, ok := reg.lookup(spaceID); ok {
		return room, nil
	}

	space, err := reg.loader.Load(ctx, spaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load space %s: %w", spaceID, err)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	// Another join may have created the room while we were loading.
	if room, ok := reg.rooms[spaceID]; ok {
		return room, nil
	}
	room := newRoom(spaceID, space)
	reg.rooms[spaceID] = room
	reg.metrics.IncRoomsCreated()
	reg.log.Infow("room created", "space", spaceID, "width", space.Width, "height", space.Height)
	return room, nil
}

// removeIfEmpty destroys the room when its occupant count is still zero.
// Registry and room locks are held together so a concurrent join either
// lands before the removal or observes the closed flag and retries.
func (reg *Registry) removeIfEmpty(room *Room) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed || len(room.occupants) > 0 {
		return
	}
	room.closed = true
	delete(reg.rooms, room.spaceID)
	reg.metrics.IncRoomsDestroyed()
	reg.log.Infow("room destroyed", "space", room.spaceID)
}
