package vectors

import (
	"math"
	"testing"
)

func near(a, b Vec3) bool {
	return Distance(a, b) < 1e-12
}

func TestRotations(t *testing.T) {
	tests := []struct {
		name string
		got  Vec3
		want Vec3
	}{
		// +Y rotation carries +X toward -Z, matching a right-handed Y-up scene
		{"y quarter", Vec3{1, 0, 0}.RotateY(math.Pi / 2), Vec3{0, 0, -1}},
		{"y keeps height", Vec3{0, 3, 0}.RotateY(1.3), Vec3{0, 3, 0}},
		{"z quarter", Vec3{1, 0, 0}.RotateZ(math.Pi / 2), Vec3{0, 1, 0}},
		{"z keeps depth", Vec3{0, 0, 2}.RotateZ(0.4), Vec3{0, 0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !near(tt.got, tt.want) {
				t.Fatalf("got %+v, want %+v", tt.got, tt.want)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	a, b := Vec3{0, 20, 45}, Vec3{0, 60, 0}
	if !near(a.Lerp(b, 0), a) || !near(a.Lerp(b, 1), b) {
		t.Fatal("endpoints")
	}
	if got := a.Lerp(b, 0.04); !near(got, Vec3{0, 21.6, 43.2}) {
		t.Fatalf("Lerp = %+v", got)
	}
}

func TestNormalizeZero(t *testing.T) {
	if Zero().Normalize() != (Vec3{}) {
		t.Fatal("zero vector should stay zero")
	}
	if n := (Vec3{3, 0, 4}).Normalize().Norm(); math.Abs(n-1) > 1e-12 {
		t.Fatalf("norm = %v", n)
	}
}
