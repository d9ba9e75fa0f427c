package vmath

import "fmt"

// Bounds is an axis-aligned box given by its min and max corners (inclusive).
type Bounds struct {
	Min Vec3 `toml:"min" yaml:"min"`
	Max Vec3 `toml:"max" yaml:"max"`
}

// Validate rejects boxes whose min corner exceeds the max corner on any axis.
func (b Bounds) Validate() error {
	if !Finite(b.Min) || !Finite(b.Max) {
		return fmt.Errorf("bounds %v..%v: non-finite corner", b.Min, b.Max)
	}
	if b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z {
		return fmt.Errorf("bounds %v..%v: min exceeds max", b.Min, b.Max)
	}
	return nil
}

func (b Bounds) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

func (b Bounds) Size() Vec3 {
	return Sub(b.Max, b.Min)
}

// Union returns the smallest box containing every input box.
func Union(boxes ...Bounds) Bounds {
	if len(boxes) == 0 {
		return Bounds{}
	}
	out := boxes[0]
	for _, b := range boxes[1:] {
		out.Min = Vec3{min(out.Min.X, b.Min.X), min(out.Min.Y, b.Min.Y), min(out.Min.Z, b.Min.Z)}
		out.Max = Vec3{max(out.Max.X, b.Max.X), max(out.Max.Y, b.Max.Y), max(out.Max.Z, b.Max.Z)}
	}
	return out
}
