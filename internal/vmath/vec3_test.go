package vmath

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"axis", Vec3{X: 5}, Vec3{X: 1}},
		{"3-4-5", Vec3{X: 3, Z: 4}, Vec3{X: 0.6, Z: 0.8}},
		{"zero", Zero, Zero},
		{"nan", Vec3{X: float32(math.NaN())}, Zero},
		{"inf", Vec3{Y: float32(math.Inf(-1))}, Zero},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in)
			d := Sub(got, tc.want)
			if MagSq(d) > 1e-12 {
				t.Errorf("Normalize(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDist(t *testing.T) {
	if d := Dist(Vec3{1, 2, 3}, Vec3{4, 6, 3}); d != 5 {
		t.Errorf("Dist = %v, want 5", d)
	}
}

func TestBoundsValidate(t *testing.T) {
	ok := Bounds{Min: Vec3{-1, 0, -1}, Max: Vec3{1, 0, 1}}
	if err := ok.Validate(); err != nil {
		t.Errorf("flat box should be valid: %v", err)
	}
	if !ok.Contains(Vec3{0.5, 0, -1}) {
		t.Errorf("expected point on the box to be contained")
	}
	bad := Bounds{Min: Vec3{0, 2, 0}, Max: Vec3{1, 1, 1}}
	if err := bad.Validate(); err == nil {
		t.Errorf("expected min > max to be rejected")
	}
}

func TestUnion(t *testing.T) {
	u := Union(
		Bounds{Min: Vec3{-1, 0, -1}, Max: Vec3{1, 0, 1}},
		Bounds{Min: Vec3{0, -2, 0}, Max: Vec3{5, 1, 0.5}},
	)
	want := Bounds{Min: Vec3{-1, -2, -1}, Max: Vec3{5, 1, 1}}
	if u != want {
		t.Fatalf("Union = %v, want %v", u, want)
	}
}
