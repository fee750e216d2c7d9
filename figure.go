package realvalue

import (
	"fmt"
	"math"
)

// Figure is a float value that might be undefined.
//
// Undefined figures are reported as missing values, never as zero.
type Figure struct {
	v  float64
	ok bool
}

// Some returns a defined Figure. NaN and infinities are treated as undefined.
func Some(v float64) Figure {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Figure{}
	}
	return Figure{v, true}
}

// None is the undefined Figure.
var None = Figure{}

// Get returns the value and whether it is defined.
func (f Figure) Get() (float64, bool) { return f.v, f.ok }

// Defined reports whether the figure holds a value.
func (f Figure) Defined() bool { return f.ok }

// Value returns the value, or 0 if undefined.
func (f Figure) Value() float64 { return f.v }

// Cell returns the value as a table cell: a float64, or nil when undefined.
func (f Figure) Cell() any {
	if !f.ok {
		return nil
	}
	return f.v
}

func (f Figure) String() string {
	if !f.ok {
		return "-"
	}
	return fmt.Sprintf("%g", f.v)
}

// Percent is a percentage figure, 12.5 means 12.5%.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString formats the percentage with its sign, 0 is "-".
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
