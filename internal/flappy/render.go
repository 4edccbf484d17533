package flappy

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/vovakirdan/flappy-arcade/internal/core"
)

// Glyphs used when projecting the world onto a character grid.
const (
	BirdChar       = '█'
	BirdBeakChar   = '▶'
	BirdWingChar   = '▲'
	ObstacleChar   = '█'
	ObstacleCap    = '▀'
	ObstacleCapTop = '▄'
	GroundChar     = '▒'
	TrailChar      = '·'
)

// projection maps world units to screen cells.
type projection struct {
	sx, sy float64
}

func (p projection) col(x float64) int { return int(math.Floor(x * p.sx)) }
func (p projection) row(y float64) int { return int(math.Floor(y * p.sy)) }

// span returns the first and one-past-last cell covered by [a, a+l).
func span(a, l, scale float64) (int, int) {
	lo := int(math.Floor(a * scale))
	hi := int(math.Ceil((a + l) * scale))
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

// Render draws the current state onto dst. The world is scaled to fill the
// whole screen.
func (e *Engine) Render(dst *core.Screen) {
	dst.Clear()
	if dst.Width() == 0 || dst.Height() == 0 || e.width <= 0 {
		return
	}

	cfg := e.cfg
	p := projection{
		sx: float64(dst.Width()) / e.width,
		sy: float64(dst.Height()) / cfg.World.Height,
	}

	// Ground starts below the lowest point the bird can reach
	groundRow := p.row(e.floor() + cfg.Bird.Height)
	if groundRow < dst.Height() {
		dst.DrawRect(0, groundRow, dst.Width(), dst.Height()-groundRow, GroundChar, core.ColorOrange)
	}

	for _, o := range e.field.Obstacles() {
		e.drawObstacle(dst, p, o, groundRow)
	}

	e.drawTrail(dst, p)
	e.drawBird(dst, p)

	dst.DrawText(2, 0, fmt.Sprintf(" Score: %d ", e.score))

	switch {
	case e.phase == PhaseIdle:
		DrawMessage(dst, "FLAPPY", "Press Space or click to start")
	case e.paused:
		DrawMessage(dst, "PAUSED", "Press P to resume")
	case e.phase == PhaseGameOver:
		DrawMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d", e.score), "Press R to restart")
	}
}

// drawObstacle renders both columns of one obstacle, capped at the gap.
func (e *Engine) drawObstacle(dst *core.Screen, p projection, o Obstacle, groundRow int) {
	x0, x1 := span(o.X, e.cfg.Obstacles.Width, p.sx)
	w := x1 - x0

	gapTopRow := p.row(o.GapTop)
	gapBottomRow := int(math.Ceil((o.GapTop + e.cfg.Obstacles.GapHeight) * p.sy))

	if gapTopRow > 0 {
		dst.DrawRect(x0, 0, w, gapTopRow, ObstacleChar, core.ColorGreen)
		dst.DrawHLine(x0, gapTopRow-1, w, ObstacleCap, core.ColorBrightGreen)
	}
	if gapBottomRow < groundRow {
		dst.DrawRect(x0, gapBottomRow, w, groundRow-gapBottomRow, ObstacleChar, core.ColorGreen)
		dst.DrawHLine(x0, gapBottomRow, w, ObstacleCapTop, core.ColorBrightGreen)
	}
}

// drawTrail renders the trail green where the bird was rising and red where
// it was falling.
func (e *Engine) drawTrail(dst *core.Screen, p projection) {
	points := e.trail.Points()
	cy := e.cfg.Bird.Height / 2
	for i, pt := range points {
		rising := false
		switch {
		case i > 0:
			rising = pt.Y < points[i-1].Y
		case len(points) > 1:
			rising = points[1].Y < pt.Y
		}
		color := core.ColorRed
		if rising {
			color = core.ColorGreen
		}
		x := p.col(pt.X)
		if x >= p.col(e.cfg.Bird.X) {
			continue // Under the bird
		}
		dst.SetColored(x, p.row(pt.Y+cy), TrailChar, color)
	}
}

// drawBird renders the bird box with a beak on its right edge.
func (e *Engine) drawBird(dst *core.Screen, p projection) {
	cfg := e.cfg
	x0, x1 := span(cfg.Bird.X, cfg.Bird.Width, p.sx)
	y0, y1 := span(e.bird.Y, cfg.Bird.Height, p.sy)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dst.SetColored(x, y, BirdChar, core.ColorBrightYellow)
		}
	}
	mid := y0 + (y1-y0)/2
	dst.SetColored(x1-1, mid, BirdBeakChar, core.ColorOrange)
	if e.bird.Flapping {
		dst.SetColored(x0, y0, BirdWingChar, core.ColorWhite)
	}
}

// DrawMessage draws a bordered box in the middle of dst with a title and
// any number of lines below it.
func DrawMessage(dst *core.Screen, title string, lines ...string) {
	boxW := utf8.RuneCountInString(title)
	for _, l := range lines {
		boxW = max(boxW, utf8.RuneCountInString(l))
	}
	boxW += 4
	boxH := len(lines) + 4
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.DrawRect(boxX, boxY, boxW, boxH, ' ', core.ColorDefault)
	dst.DrawBox(boxX, boxY, boxW, boxH)

	dst.DrawTextColored(boxX+(boxW-utf8.RuneCountInString(title))/2, boxY+1, title, core.ColorYellow)
	for i, l := range lines {
		dst.DrawText(boxX+(boxW-utf8.RuneCountInString(l))/2, boxY+3+i, l)
	}
}
