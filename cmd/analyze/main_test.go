package main

import (
	"testing"

	"github.com/hallwaylabs/hallway/space/config"
	"github.com/hallwaylabs/hallway/space/engine"
)

func parseLayout(t *testing.T, layout []string) *engine.Space {
	t.Helper()
	space, err := config.ParseSpace("test", &config.SpaceFile{Layout: layout})
	if err != nil {
		t.Fatalf("ParseSpace: %v", err)
	}
	return space
}

func TestReachableFromOpenSpace(t *testing.T) {
	space := parseLayout(t, []string{
		"s..",
		"...",
		"...",
	})

	reachable := reachableFrom(space, space.Spawn)
	if len(reachable) != 9 {
		t.Errorf("Expected 9 reachable cells, got %d", len(reachable))
	}
}

func TestReachableFromWalledOffRegion(t *testing.T) {
	// Right column is cut off by a full wall of obstacles.
	space := parseLayout(t, []string{
		"s#.",
		".#.",
		".#.",
	})

	reachable := reachableFrom(space, space.Spawn)
	if len(reachable) != 3 {
		t.Errorf("Expected 3 reachable cells, got %d", len(reachable))
	}
	unreachable := engine.Position{X: 2, Y: 0}
	if reachable[unreachable] {
		t.Errorf("Cell %s should be unreachable", unreachable)
	}
}

func TestReachableFromBlockedStart(t *testing.T) {
	space := parseLayout(t, []string{
		"s.",
		"..",
	})

	reachable := reachableFrom(space, engine.Position{X: 5, Y: 5})
	if len(reachable) != 0 {
		t.Errorf("Expected no reachable cells from out-of-bounds start, got %d", len(reachable))
	}
}

func TestReachableDoesNotCutCorners(t *testing.T) {
	// Diagonal gap: movement is orthogonal, so the far corner is sealed.
	space := parseLayout(t, []string{
		"s#",
		"#.",
	})

	reachable := reachableFrom(space, space.Spawn)
	if len(reachable) != 1 {
		t.Errorf("Expected only the spawn to be reachable, got %d cells", len(reachable))
	}
}
