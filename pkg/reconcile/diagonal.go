package reconcile

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultDuration is the length of one animated transition.
const DefaultDuration = 750 * time.Millisecond

// Point is a position in layout space. X is the sibling axis, Y the depth
// axis.
type Point struct {
	X, Y float64
}

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Diagonal returns the SVG path of a horizontal cubic Bézier link from s to
// d. The depth axis is drawn horizontally, so Y is written first:
//
//	M sy sx C my sx, my dx, dy dx    where my = (sy+dy)/2
//
// It returns "" when either endpoint is not finite.
func Diagonal(s, d Point) string {
	if !s.Finite() || !d.Finite() {
		return ""
	}
	my := (s.Y + d.Y) / 2

	var b strings.Builder
	b.WriteString("M ")
	b.WriteString(num(s.Y))
	b.WriteByte(' ')
	b.WriteString(num(s.X))
	b.WriteString(" C ")
	b.WriteString(num(my))
	b.WriteByte(' ')
	b.WriteString(num(s.X))
	b.WriteString(", ")
	b.WriteString(num(my))
	b.WriteByte(' ')
	b.WriteString(num(d.X))
	b.WriteString(", ")
	b.WriteString(num(d.Y))
	b.WriteByte(' ')
	b.WriteString(num(d.X))
	return b.String()
}

// Lerp interpolates between a and b at t in [0, 1].
func Lerp(a, b Point, t float64) Point {
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// EaseCubicInOut is the default transition easing.
func EaseCubicInOut(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 4 * t * t * t
	default:
		u := -2*t + 2
		return 1 - u*u*u/2
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
