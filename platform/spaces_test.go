package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hallwaylabs/hallway/space/engine"
)

func TestHTTPSpaceLoader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/spaces/office":
			json.NewEncoder(w).Encode(map[string]any{
				"id":     "office",
				"name":   "The Office",
				"width":  6,
				"height": 4,
				"spawn":  map[string]int{"x": 1, "y": 1},
				"elements": []map[string]any{
					{"x": 3, "y": 2, "static": true},
					{"x": 4, "y": 2, "static": true},
					{"x": 0, "y": 0, "static": false}, // decorative, not blocking
				},
			})
		case "/api/v1/spaces/no-spawn":
			json.NewEncoder(w).Encode(map[string]any{
				"id":     "no-spawn",
				"width":  2,
				"height": 2,
				"elements": []map[string]any{
					{"x": 0, "y": 0, "static": true},
				},
			})
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	defer server.Close()

	loader := NewHTTPSpaceLoader(server.URL)

	space, err := loader.Load(context.Background(), "office")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if space.Width != 6 || space.Height != 4 {
		t.Errorf("dimensions = %dx%d, want 6x4", space.Width, space.Height)
	}
	if space.Spawn != (engine.Position{X: 1, Y: 1}) {
		t.Errorf("spawn = %v, want (1,1)", space.Spawn)
	}
	if !space.IsBlocked(engine.Position{X: 3, Y: 2}) || !space.IsBlocked(engine.Position{X: 4, Y: 2}) {
		t.Error("static elements should block their cells")
	}
	if space.IsBlocked(engine.Position{X: 0, Y: 0}) {
		t.Error("non-static elements must not block")
	}

	// Missing spawn falls back to the first walkable cell.
	space, err = loader.Load(context.Background(), "no-spawn")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if space.Spawn != (engine.Position{X: 1, Y: 0}) {
		t.Errorf("fallback spawn = %v, want (1,0)", space.Spawn)
	}

	if _, err := loader.Load(context.Background(), "nowhere"); !errors.Is(err, ErrSpaceNotFound) {
		t.Errorf("expected ErrSpaceNotFound, got %v", err)
	}
}
