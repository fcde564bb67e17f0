package engine

import "fmt"

// Position represents x,y coordinates on a space grid
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String returns the position in "(x,y)" form for logs and errors.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Space represents the read-only geometry of a virtual space. It is supplied
// by the platform's map service and never mutated by the presence core.
type Space struct {
	ID      string   `json:"id"`
	Name    string   `json:"name,omitempty"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Spawn   Position `json:"spawn"`
	Blocked map[Position]bool `json:"-"`
}

// InBounds reports whether the position lies inside the space rectangle.
func (s *Space) InBounds(p Position) bool {
	return p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height
}

// IsBlocked reports whether the position is covered by a static obstacle.
// Out-of-bounds positions are not the obstacle set's concern; callers check
// InBounds separately.
func (s *Space) IsBlocked(p Position) bool {
	return s.Blocked[p]
}

// Walkable reports whether the position is inside bounds and unobstructed
// by static geometry.
func (s *Space) Walkable(p Position) bool {
	return s.InBounds(p) && !s.IsBlocked(p)
}

// FirstWalkable scans the grid row-major and returns the first cell that is
// not blocked. It is the spawn fallback for spaces configured without an
// explicit spawn cell. The second return is false when the space has no
// walkable cell at all.
func (s *Space) FirstWalkable() (Position, bool) {
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			p := Position{X: x, Y: y}
			if !s.IsBlocked(p) {
				return p, true
			}
		}
	}
	return Position{}, false
}

// Validate checks the structural invariants of a space definition.
func (s *Space) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("space has no id")
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("space %s has invalid dimensions %dx%d", s.ID, s.Width, s.Height)
	}
	for p := range s.Blocked {
		if !s.InBounds(p) {
			return fmt.Errorf("space %s has blocked cell %s outside bounds", s.ID, p)
		}
	}
	if !s.Walkable(s.Spawn) {
		return fmt.Errorf("space %s spawn %s is not a walkable cell", s.ID, s.Spawn)
	}
	return nil
}
