// Command analyze prints quick, human-readable heuristics about the space
// files in a spaces directory. It summarizes dimensions, blocked-cell
// density, and highlights floor cells that are unreachable from the spawn
// by single-step movement.
//
// Usage: analyze [spaces-dir]   (default "spaces")
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hallwaylabs/hallway/space/config"
	"github.com/hallwaylabs/hallway/space/engine"
)

func main() {
	spacesDir := "spaces"
	if len(os.Args) > 1 {
		spacesDir = os.Args[1]
	}

	entries, err := os.ReadDir(spacesDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot read %s: %v\n", spacesDir, err)
		os.Exit(1)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		fmt.Printf("\n=== Analyzing %s ===\n", entry.Name())
		analyzeSpace(filepath.Join(spacesDir, entry.Name()))
	}
}

func analyzeSpace(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	var file config.SpaceFile
	if err := json.Unmarshal(data, &file); err != nil {
		fmt.Printf("Error parsing JSON: %v\n", err)
		return
	}

	spaceID := strings.TrimSuffix(filepath.Base(path), ".json")
	space, err := config.ParseSpace(spaceID, &file)
	if err != nil {
		fmt.Printf("Invalid space: %v\n", err)
		return
	}

	cells := space.Width * space.Height
	blocked := len(space.Blocked)
	fmt.Printf("Name: %s\n", space.Name)
	fmt.Printf("Size: %d x %d (%d cells)\n", space.Width, space.Height, cells)
	fmt.Printf("Blocked: %d cells (%.1f%%)\n", blocked, float64(blocked)*100/float64(cells))
	fmt.Printf("Spawn: %s\n", space.Spawn)

	reachable := reachableFrom(space, space.Spawn)
	floor := cells - blocked
	fmt.Printf("Reachable from spawn: %d of %d floor cells\n", len(reachable), floor)
	if len(reachable) < floor {
		fmt.Printf("WARNING: %d floor cells are unreachable:\n", floor-len(reachable))
		for y := 0; y < space.Height; y++ {
			for x := 0; x < space.Width; x++ {
				pos := engine.Position{X: x, Y: y}
				if space.Walkable(pos) && !reachable[pos] {
					fmt.Printf("  - %s\n", pos)
				}
			}
		}
	}
}

// reachableFrom flood-fills the walkable cells reachable from start by
// orthogonal single steps.
func reachableFrom(space *engine.Space, start engine.Position) map[engine.Position]bool {
	reachable := make(map[engine.Position]bool)
	if !space.Walkable(start) {
		return reachable
	}

	queue := []engine.Position{start}
	reachable[start] = true
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, delta := range []engine.Position{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}} {
			next := engine.Position{X: current.X + delta.X, Y: current.Y + delta.Y}
			if space.Walkable(next) && !reachable[next] {
				reachable[next] = true
				queue = append(queue, next)
			}
		}
	}
	return reachable
}
