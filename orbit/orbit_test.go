package orbit

import (
	"math"
	"testing"

	"github.com/echoflaresat/orrery/vectors"
)

const eps = 1e-9

func TestPositionStaysOnCircle(t *testing.T) {
	distances := []float64{0.5, 4, 9, 35, 1e4}
	times := []float64{0, 0.016, 1, 12.5, 3600, 1e6}
	speeds := []float64{-0.3, 0, 0.08, 0.6, 1.2}
	offsets := []float64{0, 1, 4, -2.5, 100}

	for _, d := range distances {
		for _, tm := range times {
			for _, s := range speeds {
				for _, o := range offsets {
					p := Position(d, s, o, tm)
					if p.Y != 0 {
						t.Fatalf("position left the XZ plane: %+v", p)
					}
					if got := p.Norm(); math.Abs(got-d) > eps*math.Max(1, d) {
						t.Fatalf("Position(%v,%v,%v,%v) radius = %v", d, s, o, tm, got)
					}
				}
			}
		}
	}
}

func TestPositionMatchesAngle(t *testing.T) {
	p := Position(9, 0.6, 4, 2)
	theta := 2*0.6 + 4
	want := vectors.Vec3{X: math.Cos(theta) * 9, Z: math.Sin(theta) * 9}
	if vectors.Distance(p, want) > eps {
		t.Fatalf("Position = %+v, want %+v", p, want)
	}
}

func TestPolyline(t *testing.T) {
	for _, r := range []float64{4, 9, 35} {
		pts := Polyline(r)
		if len(pts) != 65 {
			t.Fatalf("len = %d, want 65", len(pts))
		}
		if pts[0] != pts[len(pts)-1] {
			t.Fatalf("polyline not closed: %+v vs %+v", pts[0], pts[len(pts)-1])
		}
		for i, p := range pts {
			if math.Abs(p.Norm()-r) > eps || p.Y != 0 {
				t.Fatalf("point %d = %+v not on circle %v", i, p, r)
			}
		}
	}
}

func TestRingRecomputesOnlyOnRadiusChange(t *testing.T) {
	var r Ring
	a := r.Points(4)
	b := r.Points(4)
	if &a[0] != &b[0] {
		t.Fatal("ring recomputed for identical radius")
	}
	c := r.Points(6)
	if &a[0] == &c[0] || math.Abs(c[0].Norm()-6) > eps {
		t.Fatal("ring not recomputed for new radius")
	}
}

func TestFocusedSpinIsOneFifth(t *testing.T) {
	for _, clock := range []Clock{PerFrame, PerSecond} {
		t.Run(clock.String(), func(t *testing.T) {
			free := Spin{Clock: clock}
			held := Spin{Clock: clock}
			for i := 0; i < 600; i++ {
				free.Advance(false, 1.0/60)
				held.Advance(true, 1.0/60)
			}
			ratio := held.Angle() / free.Angle()
			if math.Abs(ratio-0.2) > 1e-12 {
				t.Fatalf("focused/unfocused = %v, want 0.2", ratio)
			}
		})
	}
}

func TestSpinIsMonotonic(t *testing.T) {
	s := Spin{Clock: PerSecond}
	prev := s.Angle()
	for i, dt := range []float64{0.016, 0, -1, 0.5, 0.016} {
		got := s.Advance(i%2 == 0, dt)
		if got < prev {
			t.Fatalf("spin decreased: %v -> %v", prev, got)
		}
		prev = got
	}
}

func TestPerFrameIgnoresFrameTime(t *testing.T) {
	a := Spin{}
	b := Spin{}
	a.Advance(false, 1.0/30)
	b.Advance(false, 1.0/144)
	if a.Angle() != b.Angle() || a.Angle() != SpinPerFrame {
		t.Fatalf("per-frame spin depends on dt: %v vs %v", a.Angle(), b.Angle())
	}
}
