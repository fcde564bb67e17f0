package engine

// RejectReason names the first movement rule a rejected request failed.
// The taxonomy exists for logging and metrics; every rejection looks the
// same to the client (it stays where it was).
type RejectReason string

const (
	RejectNone     RejectReason = ""
	RejectStep     RejectReason = "step"     // not exactly one orthogonal cell
	RejectBounds   RejectReason = "bounds"   // outside the space rectangle
	RejectBlocked  RejectReason = "blocked"  // static obstacle
	RejectOccupied RejectReason = "occupied" // another user stands there
)

// MoveResult is the validator's decision plus the authoritative resulting
// position: the requested cell when accepted, the unchanged current cell
// otherwise.
type MoveResult struct {
	Accepted bool
	Position Position
	Reason   RejectReason
}

// ValidateMove decides whether an occupant at current may move to requested
// within space. occupied reports whether some other occupant of the same
// room currently stands on a cell; it may be nil when occupancy is not a
// concern (e.g. analysis tooling).
//
// Rules are applied in order: single-step, boundary, static obstruction,
// occupant obstruction. The function is pure and never mutates its inputs.
func ValidateMove(current, requested Position, space *Space, occupied func(Position) bool) MoveResult {
	reject := func(reason RejectReason) MoveResult {
		return MoveResult{Accepted: false, Position: current, Reason: reason}
	}

	dx := requested.X - current.X
	dy := requested.Y - current.Y
	if !isSingleStep(dx, dy) {
		return reject(RejectStep)
	}
	if !space.InBounds(requested) {
		return reject(RejectBounds)
	}
	if space.IsBlocked(requested) {
		return reject(RejectBlocked)
	}
	if occupied != nil && occupied(requested) {
		return reject(RejectOccupied)
	}
	return MoveResult{Accepted: true, Position: requested, Reason: RejectNone}
}

// isSingleStep reports whether the delta is exactly one cell along exactly
// one axis. Diagonals, zero-length moves, and multi-cell jumps all fail.
func isSingleStep(dx, dy int) bool {
	if dx != 0 && dy != 0 {
		return false
	}
	return dx == 1 || dx == -1 || dy == 1 || dy == -1
}
