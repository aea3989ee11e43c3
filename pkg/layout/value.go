package layout

import (
	"fmt"
	"math"

	"github.com/go-drift/fabric/pkg/graphics"
)

// Undefined marks a size or style number that has no value. It is NaN, so
// every ordered comparison against it is false.
var Undefined = math.NaN()

// IsUndefined reports whether f is Undefined.
func IsUndefined(f float64) bool {
	return math.IsNaN(f)
}

// FloatsEqual compares two sizes within graphics.Epsilon, treating two
// Undefined values as equal.
func FloatsEqual(a, b float64) bool {
	return graphics.FloatsEqual(a, b)
}

func maxOrDefined(a, b float64) float64 {
	if !IsUndefined(a) && !IsUndefined(b) {
		return math.Max(a, b)
	}
	if IsUndefined(a) {
		return b
	}
	return a
}

func minOrDefined(a, b float64) float64 {
	if !IsUndefined(a) && !IsUndefined(b) {
		return math.Min(a, b)
	}
	if IsUndefined(a) {
		return b
	}
	return a
}

// orZero unwraps an optional number the way the algorithm consumes margins
// and positions: missing values contribute nothing.
func orZero(f float64) float64 {
	if IsUndefined(f) {
		return 0
	}
	return f
}

// Unit specifies how a Value is interpreted.
type Unit uint8

const (
	UnitUndefined Unit = iota // No value; the zero Value
	UnitPoint                 // Absolute points
	UnitPercent               // Percentage of the owner's size
	UnitAuto                  // Size determined by content/flex
)

func (u Unit) String() string {
	switch u {
	case UnitPoint:
		return "pt"
	case UnitPercent:
		return "%"
	case UnitAuto:
		return "auto"
	default:
		return "undefined"
	}
}

// Value represents a style length that can be points, percentage, or auto.
type Value struct {
	Amount float64
	Unit   Unit
}

// Points returns a Value measured in absolute points. NaN collapses to
// an undefined Value.
func Points(v float64) Value {
	if IsUndefined(v) || math.IsInf(v, 0) {
		return Value{}
	}
	return Value{Amount: v, Unit: UnitPoint}
}

// Percent returns a Value representing a percentage of the owner size.
// The value is on a 0-100 scale (50.0 = 50%).
func Percent(p float64) Value {
	if IsUndefined(p) || math.IsInf(p, 0) {
		return Value{}
	}
	return Value{Amount: p, Unit: UnitPercent}
}

// Auto returns a Value that should be computed from content/flex.
func Auto() Value {
	return Value{Unit: UnitAuto}
}

// IsDefined reports whether the Value carries a number.
func (v Value) IsDefined() bool {
	return v.Unit == UnitPoint || v.Unit == UnitPercent
}

// IsAuto returns true if this value should be computed from content/flex.
func (v Value) IsAuto() bool {
	return v.Unit == UnitAuto
}

// Resolve computes the value in points against the owner size. Undefined,
// auto, and percentages of an undefined owner resolve to Undefined.
func (v Value) Resolve(ownerSize float64) float64 {
	switch v.Unit {
	case UnitPoint:
		return v.Amount
	case UnitPercent:
		return v.Amount * ownerSize * 0.01
	default:
		return Undefined
	}
}

// Equal compares two values within graphics.Epsilon.
func (v Value) Equal(other Value) bool {
	if v.Unit != other.Unit {
		return false
	}
	if v.Unit == UnitUndefined || v.Unit == UnitAuto {
		return true
	}
	return FloatsEqual(v.Amount, other.Amount)
}

func (v Value) String() string {
	switch v.Unit {
	case UnitPoint:
		return fmt.Sprintf("%gpt", v.Amount)
	case UnitPercent:
		return fmt.Sprintf("%g%%", v.Amount)
	case UnitAuto:
		return "auto"
	default:
		return "undefined"
	}
}
