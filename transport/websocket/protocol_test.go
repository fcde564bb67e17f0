package websocket

import (
	"encoding/json"
	"testing"

	"github.com/hallwaylabs/hallway/space/engine"
	"github.com/hallwaylabs/hallway/space/room"
)

func TestSpaceJoinedEventShape(t *testing.T) {
	event := SpaceJoinedEvent(engine.Position{X: 3, Y: 4}, []room.OccupantSnapshot{
		{UserID: "alice", X: 1, Y: 2},
	})
	data, err := event.Marshal()
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}

	var decoded struct {
		Type    string `json:"type"`
		Payload struct {
			Spawn engine.Position `json:"spawn"`
			Users []struct {
				UserID string `json:"userId"`
				X      int    `json:"x"`
				Y      int    `json:"y"`
			} `json:"users"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if decoded.Type != TypeSpaceJoined {
		t.Errorf("type = %q, want %q", decoded.Type, TypeSpaceJoined)
	}
	if decoded.Payload.Spawn != (engine.Position{X: 3, Y: 4}) {
		t.Errorf("spawn = %v, want (3,4)", decoded.Payload.Spawn)
	}
	if len(decoded.Payload.Users) != 1 || decoded.Payload.Users[0].UserID != "alice" {
		t.Errorf("users = %+v, want [alice]", decoded.Payload.Users)
	}
}

func TestSpaceJoinedEventEmptyUsersIsArray(t *testing.T) {
	data, err := SpaceJoinedEvent(engine.Position{}, nil).Marshal()
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(decoded["payload"], &payload); err != nil {
		t.Fatal(err)
	}
	if string(payload["users"]) != "[]" {
		t.Errorf(`users = %s, want []`, payload["users"])
	}
}

func TestMovePayloadMissingFields(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		complete bool
	}{
		{"both present", `{"x": 1, "y": 2}`, true},
		{"zero coordinates", `{"x": 0, "y": 0}`, true},
		{"missing y", `{"x": 1}`, false},
		{"missing both", `{}`, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var move MovePayload
			if err := json.Unmarshal([]byte(test.raw), &move); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			complete := move.X != nil && move.Y != nil
			if complete != test.complete {
				t.Errorf("complete = %v, want %v", complete, test.complete)
			}
		})
	}

	// Mistyped coordinates fail decoding outright.
	var move MovePayload
	if err := json.Unmarshal([]byte(`{"x": "three", "y": 2}`), &move); err == nil {
		t.Error("expected error for string coordinate")
	}
}
