package reconcile

import (
	"fmt"
	"math"
	"testing"
)

func TestDiagonal(t *testing.T) {
	tests := []struct {
		name string
		s, d Point
		want string
	}{
		{
			name: "basic",
			s:    Point{X: 10, Y: 0},
			d:    Point{X: 30, Y: 180},
			want: "M 0 10 C 90 10, 90 30, 180 30",
		},
		{
			name: "fractional",
			s:    Point{X: 1.5, Y: 1},
			d:    Point{X: 2.25, Y: 2},
			want: "M 1 1.5 C 1.5 1.5, 1.5 2.25, 2 2.25",
		},
		{
			name: "collapsed",
			s:    Point{X: 5, Y: 5},
			d:    Point{X: 5, Y: 5},
			want: "M 5 5 C 5 5, 5 5, 5 5",
		},
		{"nan source", Point{X: math.NaN()}, Point{}, ""},
		{"inf target", Point{}, Point{Y: math.Inf(-1)}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Diagonal(tt.s, tt.d); got != tt.want {
				t.Errorf("Diagonal = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEaseCubicInOut(t *testing.T) {
	tests := map[float64]float64{-1: 0, 0: 0, 0.5: 0.5, 1: 1, 2: 1}
	for in, want := range tests {
		if got := EaseCubicInOut(in); math.Abs(got-want) > 1e-12 {
			t.Errorf("EaseCubicInOut(%v) = %v, want %v", in, got, want)
		}
	}
	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := EaseCubicInOut(float64(i) / 100)
		if v < prev {
			t.Fatalf("easing not monotonic at %d", i)
		}
		prev = v
	}
}

func TestTransitionAt(t *testing.T) {
	tr := Transition{From: Point{0, 0}, To: Point{10, 20}}
	if got := tr.At(0); got != (Point{0, 0}) {
		t.Errorf("At(0) = %+v", got)
	}
	if got := tr.At(1); got != (Point{10, 20}) {
		t.Errorf("At(1) = %+v", got)
	}
	if got := tr.At(0.5); got != (Point{5, 10}) {
		t.Errorf("At(0.5) = %+v", got)
	}
}

func ExampleDiagonal() {
	fmt.Println(Diagonal(Point{X: 0, Y: 0}, Point{X: 40, Y: 180}))
	// Output: M 0 0 C 90 0, 90 40, 180 40
}
