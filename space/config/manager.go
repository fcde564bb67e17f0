package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hallwaylabs/hallway/platform"
	"github.com/hallwaylabs/hallway/space/engine"
)

// Cell roles a legend entry may assign to a layout character.
const (
	RoleFloor   = "floor"
	RoleBlocked = "blocked"
	RoleSpawn   = "spawn"
)

// SpaceFile mirrors the JSON schema of a space definition on disk.
type SpaceFile struct {
	Name   string            `json:"name"`
	Layout []string          `json:"layout"`
	Legend map[string]string `json:"legend,omitempty"`
	Spawn  *engine.Position  `json:"spawn,omitempty"`
}

// defaultLegend is used when a file carries no legend of its own.
var defaultLegend = map[string]string{
	".": RoleFloor,
	"#": RoleBlocked,
	"s": RoleSpawn,
}

// Manager loads and caches space definitions from a directory. It implements
// platform.SpaceLoader.
type Manager struct {
	spacesDir string
	spaces    map[string]*engine.Space
	mu        sync.RWMutex
}

// NewManager creates a manager over spacesDir. The directory must exist.
func NewManager(spacesDir string) (*Manager, error) {
	if _, err := os.Stat(spacesDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("spaces directory does not exist: %s", spacesDir)
	}
	return &Manager{
		spacesDir: spacesDir,
		spaces:    make(map[string]*engine.Space),
	}, nil
}

// Load returns the space with the given id, reading and parsing its file on
// first use. Unknown ids map to platform.ErrSpaceNotFound.
func (m *Manager) Load(_ context.Context, spaceID string) (*engine.Space, error) {
	m.mu.RLock()
	if space, ok := m.spaces[spaceID]; ok {
		m.mu.RUnlock()
		return space, nil
	}
	m.mu.RUnlock()

	path := filepath.Join(m.spacesDir, spaceID+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, platform.ErrSpaceNotFound
		}
		return nil, fmt.Errorf("failed to read space file %s: %w", path, err)
	}

	var file SpaceFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse space file %s: %w", path, err)
	}

	space, err := ParseSpace(spaceID, &file)
	if err != nil {
		return nil, fmt.Errorf("invalid space file %s: %w", path, err)
	}

	m.mu.Lock()
	m.spaces[spaceID] = space
	m.mu.Unlock()
	return space, nil
}

// List returns the ids of every space file in the directory, sorted by the
// directory listing order.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.spacesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list spaces directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return ids, nil
}

// ParseSpace turns a SpaceFile into validated geometry.
func ParseSpace(spaceID string, file *SpaceFile) (*engine.Space, error) {
	if len(file.Layout) == 0 {
		return nil, fmt.Errorf("layout is empty")
	}

	legend := file.Legend
	if legend == nil {
		legend = defaultLegend
	}

	width := len(file.Layout[0])
	space := &engine.Space{
		ID:      spaceID,
		Name:    file.Name,
		Width:   width,
		Height:  len(file.Layout),
		Blocked: make(map[engine.Position]bool),
	}

	var spawnFromLayout *engine.Position
	for y, row := range file.Layout {
		if len(row) != width {
			return nil, fmt.Errorf("inconsistent layout width at row %d: expected %d, got %d", y+1, width, len(row))
		}
		for x, char := range row {
			role, ok := legend[string(char)]
			if !ok {
				return nil, fmt.Errorf("character %q at [%d,%d] is not in the legend", char, x, y)
			}
			pos := engine.Position{X: x, Y: y}
			switch role {
			case RoleFloor:
			case RoleBlocked:
				space.Blocked[pos] = true
			case RoleSpawn:
				if spawnFromLayout != nil {
					return nil, fmt.Errorf("layout marks more than one spawn cell")
				}
				spawnFromLayout = &pos
			default:
				return nil, fmt.Errorf("legend maps %q to unknown role %q", char, role)
			}
		}
	}

	// Spawn precedence: explicit field, layout marker, first walkable cell.
	switch {
	case file.Spawn != nil:
		space.Spawn = *file.Spawn
	case spawnFromLayout != nil:
		space.Spawn = *spawnFromLayout
	default:
		spawn, ok := space.FirstWalkable()
		if !ok {
			return nil, fmt.Errorf("space has no walkable cell")
		}
		space.Spawn = spawn
	}

	if err := space.Validate(); err != nil {
		return nil, err
	}
	return space, nil
}
