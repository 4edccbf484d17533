package flappy

// TrailPoint is one recorded bird position.
type TrailPoint struct {
	X, Y float64
}

// Trail is a bounded history of bird positions that scrolls with the world.
// It has no effect on gameplay.
type Trail struct {
	points []TrailPoint
	max    int
}

// NewTrail creates a trail holding at most max points.
func NewTrail(max int) Trail {
	return Trail{max: max}
}

// Advance shifts existing points left, drops the ones that left the screen,
// appends p and keeps only the newest max points.
func (t *Trail) Advance(shift float64, p TrailPoint) {
	if t.max <= 0 {
		return
	}
	kept := t.points[:0]
	for _, q := range t.points {
		q.X -= shift
		if q.X >= 0 {
			kept = append(kept, q)
		}
	}
	kept = append(kept, p)
	if over := len(kept) - t.max; over > 0 {
		kept = append(kept[:0], kept[over:]...)
	}
	t.points = kept
}

// Points returns the trail, oldest first.
func (t *Trail) Points() []TrailPoint {
	return t.points
}

// Clear empties the trail.
func (t *Trail) Clear() {
	t.points = t.points[:0]
}
