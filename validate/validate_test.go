package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		valid   bool
	}{
		{
			"valid space",
			`{"name": "Lobby", "layout": ["....", ".##.", "..s."]}`,
			true,
		},
		{
			"broken json",
			`{"layout": [`,
			false,
		},
		{
			"ragged layout",
			`{"layout": ["....", ".."]}`,
			false,
		},
		{
			"unknown character",
			`{"layout": ["..X."]}`,
			false,
		},
		{
			"spawn on obstacle",
			`{"layout": ["#..."], "spawn": {"x": 0, "y": 0}}`,
			false,
		},
		{
			"fully blocked",
			`{"layout": ["##", "##"]}`,
			false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := writeFile(t, dir, "case.json", test.content)
			result := validateFile(path)
			if result.Valid != test.valid {
				t.Errorf("Valid = %v, want %v (errors: %v)", result.Valid, test.valid, result.Errors)
			}
			if !result.Valid && len(result.Errors) == 0 {
				t.Error("invalid result carries no error messages")
			}
		})
	}
}

func TestValidateFileReportsGeometry(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "plaza.json", `{"layout": ["......", "..##..", "......"]}`)

	result := validateFile(path)
	if !result.Valid {
		t.Fatalf("unexpected failure: %v", result.Errors)
	}
	if result.Space.ID != "plaza" {
		t.Errorf("space id = %q, want plaza (derived from filename)", result.Space.ID)
	}
	if result.Space.Width != 6 || result.Space.Height != 3 {
		t.Errorf("dimensions = %dx%d, want 6x3", result.Space.Width, result.Space.Height)
	}
	if len(result.Space.Blocked) != 2 {
		t.Errorf("blocked cells = %d, want 2", len(result.Space.Blocked))
	}
}
