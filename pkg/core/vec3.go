package core

import (
	"math"

	"github.com/pkg/errors"
)

// Epsilon is the tolerance used when deciding whether a value is zero
const Epsilon = 1e-10

// ErrZeroVector is returned when a direction is constructed from the zero vector
var ErrZeroVector = errors.New("zero vector")

// Vec3 represents a point, a direction or an RGB color.
// Colors use a 0..255 scale per channel and are clamped only on output.
type Vec3 struct {
	X, Y, Z float64
}

// Zero is the origin and the color black
var Zero = Vec3{}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// NewVector creates a direction vector, rejecting the zero vector
func NewVector(x, y, z float64) (Vec3, error) {
	v := Vec3{X: x, Y: y, Z: z}
	if v.IsZero() {
		return Vec3{}, ErrZeroVector
	}
	return v, nil
}

// NewColor creates a color from its red, green and blue channels
func NewColor(r, g, b float64) Vec3 {
	return Vec3{X: r, Y: g, Z: b}
}

// Gray creates a color with the same value in every channel
func Gray(v float64) Vec3 {
	return Vec3{X: v, Y: v, Z: v}
}

// IsZero reports whether all components are within Epsilon of zero
func IsZero(x float64) bool {
	return math.Abs(x) < Epsilon
}

// AlignZero snaps values within Epsilon of zero to exactly zero
func AlignZero(x float64) float64 {
	if IsZero(x) {
		return 0
	}
	return x
}

// IsZero reports whether every component is within Epsilon of zero
func (v Vec3) IsZero() bool {
	return IsZero(v.X) && IsZero(v.Y) && IsZero(v.Z)
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Divide returns the vector divided by a scalar
func (v Vec3) Divide(scalar float64) Vec3 {
	return Vec3{v.X / scalar, v.Y / scalar, v.Z / scalar}
}

// MultiplyVec returns component-wise multiplication of two vectors
func (v Vec3) MultiplyVec(other Vec3) Vec3 {
	return Vec3{v.X * other.X, v.Y * other.Y, v.Z * other.Z}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Distance returns the distance between two points
func (v Vec3) Distance(other Vec3) float64 {
	return v.Subtract(other).Length()
}

// DistanceSquared returns the squared distance between two points
func (v Vec3) DistanceSquared(other Vec3) float64 {
	return v.Subtract(other).LengthSquared()
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Normalize returns a unit vector in the same direction
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{0, 0, 0}
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Reflect mirrors the vector about the unit normal n: v - 2(v·n)n
func (v Vec3) Reflect(n Vec3) Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Orthogonal returns a unit vector perpendicular to v
func (v Vec3) Orthogonal() Vec3 {
	if math.Abs(v.X) < math.Abs(v.Y) {
		return Vec3{0, -v.Z, v.Y}.Normalize()
	}
	return Vec3{-v.Z, 0, v.X}.Normalize()
}

// LowerThan reports whether every component is below k
func (v Vec3) LowerThan(k float64) bool {
	return v.X < k && v.Y < k && v.Z < k
}

// Clamp returns a vector with components clamped to [min, max]
func (v Vec3) Clamp(minVal, maxVal float64) Vec3 {
	return Vec3{
		X: max(minVal, min(maxVal, v.X)),
		Y: max(minVal, min(maxVal, v.Y)),
		Z: max(minVal, min(maxVal, v.Z)),
	}
}

// AlmostEquals reports whether every component differs by less than tolerance
func (v Vec3) AlmostEquals(other Vec3, tolerance float64) bool {
	return math.Abs(v.X-other.X) < tolerance &&
		math.Abs(v.Y-other.Y) < tolerance &&
		math.Abs(v.Z-other.Z) < tolerance
}

// Average returns the arithmetic mean of the given colors, or black for none
func Average(colors []Vec3) Vec3 {
	if len(colors) == 0 {
		return Vec3{}
	}
	var sum Vec3
	for _, c := range colors {
		sum = sum.Add(c)
	}
	return sum.Divide(float64(len(colors)))
}
