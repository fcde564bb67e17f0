package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hallwaylabs/hallway/platform"
	"github.com/hallwaylabs/hallway/space/engine"
)

func writeSpaceFile(t *testing.T, dir, id, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, id+".json"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write space file: %v", err)
	}
}

func TestManagerLoad(t *testing.T) {
	dir := t.TempDir()
	writeSpaceFile(t, dir, "lobby", `{
		"name": "Lobby",
		"layout": [
			".....",
			".##..",
			"..s.."
		]
	}`)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}

	space, err := manager.Load(context.Background(), "lobby")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if space.ID != "lobby" || space.Name != "Lobby" {
		t.Errorf("id/name = %q/%q, want lobby/Lobby", space.ID, space.Name)
	}
	if space.Width != 5 || space.Height != 3 {
		t.Errorf("dimensions = %dx%d, want 5x3", space.Width, space.Height)
	}
	if !space.IsBlocked(engine.Position{X: 1, Y: 1}) || !space.IsBlocked(engine.Position{X: 2, Y: 1}) {
		t.Error("expected '#' cells to be blocked")
	}
	if space.Spawn != (engine.Position{X: 2, Y: 2}) {
		t.Errorf("spawn = %v, want (2,2)", space.Spawn)
	}

	// Second load comes from the cache and returns the same value.
	again, err := manager.Load(context.Background(), "lobby")
	if err != nil {
		t.Fatalf("cached Load returned error: %v", err)
	}
	if again != space {
		t.Error("expected cached Load to return the same *Space")
	}
}

func TestManagerLoadNotFound(t *testing.T) {
	manager, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}
	if _, err := manager.Load(context.Background(), "ghost"); !errors.Is(err, platform.ErrSpaceNotFound) {
		t.Errorf("expected ErrSpaceNotFound, got %v", err)
	}
}

func TestManagerList(t *testing.T) {
	dir := t.TempDir()
	writeSpaceFile(t, dir, "alpha", `{"layout": ["..."]}`)
	writeSpaceFile(t, dir, "beta", `{"layout": ["..."]}`)
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}
	ids, err := manager.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("List returned %d ids, want 2: %v", len(ids), ids)
	}
}

func TestParseSpace(t *testing.T) {
	tests := []struct {
		name    string
		file    SpaceFile
		wantErr bool
	}{
		{"minimal", SpaceFile{Layout: []string{"..", ".."}}, false},
		{"explicit spawn", SpaceFile{Layout: []string{"..", ".."}, Spawn: &engine.Position{X: 1, Y: 1}}, false},
		{"empty layout", SpaceFile{}, true},
		{"ragged rows", SpaceFile{Layout: []string{"...", ".."}}, true},
		{"unknown character", SpaceFile{Layout: []string{".x."}}, true},
		{"two spawn markers", SpaceFile{Layout: []string{"s.s"}}, true},
		{"spawn on obstacle", SpaceFile{Layout: []string{"#.."}, Spawn: &engine.Position{X: 0, Y: 0}}, true},
		{"fully blocked", SpaceFile{Layout: []string{"##", "##"}}, true},
		{"custom legend", SpaceFile{
			Layout: []string{"~TT~"},
			Legend: map[string]string{"~": RoleFloor, "T": RoleBlocked},
		}, false},
		{"legend with bad role", SpaceFile{
			Layout: []string{"."},
			Legend: map[string]string{".": "lava"},
		}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseSpace("s", &test.file)
			if (err != nil) != test.wantErr {
				t.Errorf("ParseSpace() error = %v, wantErr %v", err, test.wantErr)
			}
		})
	}
}

func TestParseSpaceSpawnFallback(t *testing.T) {
	space, err := ParseSpace("s", &SpaceFile{Layout: []string{"##", "#."}})
	if err != nil {
		t.Fatalf("ParseSpace returned error: %v", err)
	}
	if space.Spawn != (engine.Position{X: 1, Y: 1}) {
		t.Errorf("fallback spawn = %v, want (1,1)", space.Spawn)
	}
}
