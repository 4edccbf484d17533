package flappy

import "github.com/vovakirdan/flappy-arcade/internal/core"

// Obstacle is a pair of columns with a vertical gap between them.
type Obstacle struct {
	X      float64 // Left edge
	GapTop float64 // Y where the gap begins
	Passed bool    // Set once the bird has cleared the obstacle
}

// TopRect returns the collision box of the upper column.
func (o Obstacle) TopRect(width float64) core.Rect {
	return core.NewRect(o.X, 0, width, o.GapTop)
}

// BottomRect returns the collision box of the lower column.
func (o Obstacle) BottomRect(width, gapHeight, worldH float64) core.Rect {
	bottomY := o.GapTop + gapHeight
	return core.NewRect(o.X, bottomY, width, worldH-bottomY)
}

// Field handles movement, removal and scoring of obstacles. Spawning is
// driven from outside so it can run on its own timer.
type Field struct {
	obstacles []Obstacle
	width     float64
	gapHeight float64
}

// NewField creates an empty field for obstacles of the given geometry.
func NewField(width, gapHeight float64) *Field {
	return &Field{
		obstacles: make([]Obstacle, 0, 8),
		width:     width,
		gapHeight: gapHeight,
	}
}

// Clear removes all obstacles.
func (f *Field) Clear() {
	f.obstacles = f.obstacles[:0]
}

// Spawn appends an obstacle with its left edge at x.
func (f *Field) Spawn(x, gapTop float64) {
	f.obstacles = append(f.obstacles, Obstacle{X: x, GapTop: gapTop})
}

// Advance moves every obstacle left by speed and drops the ones that are
// fully off screen.
func (f *Field) Advance(speed float64) {
	kept := f.obstacles[:0]
	for _, o := range f.obstacles {
		o.X -= speed
		if o.X+f.width > 0 {
			kept = append(kept, o)
		}
	}
	f.obstacles = kept
}

// Collides reports whether box overlaps any obstacle column.
func (f *Field) Collides(box core.Rect, worldH float64) bool {
	for _, o := range f.obstacles {
		if box.Intersects(o.TopRect(f.width)) || box.Intersects(o.BottomRect(f.width, f.gapHeight, worldH)) {
			return true
		}
	}
	return false
}

// Credit marks obstacles whose right edge is left of birdX as passed and
// returns how many were newly passed. Each obstacle is credited at most once.
func (f *Field) Credit(birdX float64) int {
	passed := 0
	for i := range f.obstacles {
		if !f.obstacles[i].Passed && f.obstacles[i].X+f.width < birdX {
			f.obstacles[i].Passed = true
			passed++
		}
	}
	return passed
}

// Obstacles returns the live obstacles, oldest first.
func (f *Field) Obstacles() []Obstacle {
	return f.obstacles
}

// Len returns the number of live obstacles.
func (f *Field) Len() int {
	return len(f.obstacles)
}
