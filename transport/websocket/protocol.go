package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/hallwaylabs/hallway/space/engine"
	"github.com/hallwaylabs/hallway/space/room"
)

// Inbound message types.
const (
	TypeJoin  = "join"
	TypeMove  = "move"
	TypeLeave = "leave"
)

// Outbound message types.
const (
	TypeSpaceJoined      = "space-joined"
	TypeUserJoined       = "user-joined"
	TypeMovement         = "movement"
	TypeMovementRejected = "movement-rejected"
	TypeUserLeft         = "user-left"
	TypeError            = "error"
)

// Error codes carried by error events.
const (
	CodeAuthError       = "auth_error"
	CodeNotFound        = "not_found"
	CodeValidationError = "validation_error"
	CodeSessionReplaced = "session_replaced"
	CodeInternalError   = "internal_error"
)

// Envelope is the wire shape of every message in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// JoinPayload is the payload of an inbound join message.
type JoinPayload struct {
	SpaceID string `json:"spaceId"`
	Token   string `json:"token"`
}

// MovePayload is the payload of an inbound move message. Coordinates are
// pointers so missing fields are distinguishable from zero.
type MovePayload struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

// Event is an outbound message before serialization.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Marshal serializes the event for the wire.
func (e Event) Marshal() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", e.Type, err)
	}
	return data, nil
}

type spaceJoinedPayload struct {
	Spawn engine.Position         `json:"spawn"`
	Users []room.OccupantSnapshot `json:"users"`
}

type userJoinedPayload struct {
	UserID string `json:"userId"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

type movementPayload struct {
	UserID string `json:"userId"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

type movementRejectedPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type userLeftPayload struct {
	UserID string `json:"userId"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SpaceJoinedEvent answers a successful join: the assigned spawn plus a
// snapshot of every other current occupant. Users is never null on the wire.
func SpaceJoinedEvent(spawn engine.Position, users []room.OccupantSnapshot) Event {
	if users == nil {
		users = []room.OccupantSnapshot{}
	}
	return Event{Type: TypeSpaceJoined, Payload: spaceJoinedPayload{Spawn: spawn, Users: users}}
}

// UserJoinedEvent announces a new occupant to the rest of the room.
func UserJoinedEvent(userID string, pos engine.Position) Event {
	return Event{Type: TypeUserJoined, Payload: userJoinedPayload{UserID: userID, X: pos.X, Y: pos.Y}}
}

// MovementEvent announces a committed move to the rest of the room.
func MovementEvent(userID string, pos engine.Position) Event {
	return Event{Type: TypeMovement, Payload: movementPayload{UserID: userID, X: pos.X, Y: pos.Y}}
}

// MovementRejectedEvent tells the sender to stay at its authoritative
// position.
func MovementRejectedEvent(pos engine.Position) Event {
	return Event{Type: TypeMovementRejected, Payload: movementRejectedPayload{X: pos.X, Y: pos.Y}}
}

// UserLeftEvent announces an occupant's departure to the remaining room.
func UserLeftEvent(userID string) Event {
	return Event{Type: TypeUserLeft, Payload: userLeftPayload{UserID: userID}}
}

// ErrorEvent reports a connection-local failure.
func ErrorEvent(code, message string) Event {
	return Event{Type: TypeError, Payload: errorPayload{Code: code, Message: message}}
}
