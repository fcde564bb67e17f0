// Command validate checks the space JSON files in a spaces directory. It
// verifies:
//   - JSON structure and layout consistency (equal-width rows)
//   - Legend characters and roles
//   - Spawn cell inside bounds and off blocked cells
//   - Presence of at least one walkable cell
//
// Usage: validate [spaces-dir]   (default "spaces")
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

// ValidationResult captures the outcome of validating a single file.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Space  *engine.Space
}

// validateFile loads and validates a single space JSON file.
func validateFile(path string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(path),
		Valid: true,
	}
	fail := func(format string, args ...any) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fail("Failed to read file: %v", err)
		return result
	}

	var file config.SpaceFile
	if err := json.Unmarshal(data, &file); err != nil {
		fail("Invalid JSON: %v", err)
		return result
	}

	spaceID := strings.TrimSuffix(filepath.Base(path), ".json")
	space, err := config.ParseSpace(spaceID, &file)
	if err != nil {
		fail("%v", err)
		return result
	}

	result.Space = space
	return result
}

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

	failures := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		result := validateFile(filepath.Join(spacesDir, entry.Name()))
		if result.Valid {
			space := result.Space
			fmt.Printf("OK   %-24s %dx%d, %d blocked, spawn %s\n",
				result.File, space.Width, space.Height, len(space.Blocked), space.Spawn)
			continue
		}
		failures++
		fmt.Printf("FAIL %s\n", result.File)
		for _, msg := range result.Errors {
			fmt.Printf("     - %s\n", msg)
		}
	}

	if failures > 0 {
		fmt.Printf("\n%d file(s) failed validation\n", failures)
		os.Exit(1)
	}
}
