package vmath

import "math"

// Vec3 is a float32 3D vector. Arena coordinates are Y-up; the viewer projects X/Z.
type Vec3 struct {
	X float32 `toml:"x" yaml:"x"`
	Y float32 `toml:"y" yaml:"y"`
	Z float32 `toml:"z" yaml:"z"`
}

var Zero = Vec3{}

func Add(a, b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func Sub(a, b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func Scale(v Vec3, s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func MagSq(v Vec3) float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Mag accumulates in float64 so large arena coordinates don't lose precision before the sqrt.
func Mag(v Vec3) float32 {
	x, y, z := float64(v.X), float64(v.Y), float64(v.Z)
	return float32(math.Sqrt(x*x + y*y + z*z))
}

// Dist is the Euclidean distance between a and b.
func Dist(a, b Vec3) float32 {
	return Mag(Sub(a, b))
}

// Normalize returns the unit vector of v, or Zero when v has zero (or non-finite) magnitude.
func Normalize(v Vec3) Vec3 {
	mag := Mag(v)
	if mag == 0 || IsNaN(mag) || math.IsInf(float64(mag), 0) {
		return Zero
	}
	inv := 1 / mag
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// Finite reports whether every component is neither NaN nor ±Inf.
func Finite(v Vec3) bool {
	for _, c := range [3]float32{v.X, v.Y, v.Z} {
		if IsNaN(c) || math.IsInf(float64(c), 0) {
			return false
		}
	}
	return true
}

func IsNaN(f float32) bool { return f != f }

// Lerp interpolates between a and b by t without clamping.
func Lerp(a, b Vec3, t float32) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}
