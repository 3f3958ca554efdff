package shapeinference

import (
	"fmt"
	"math/bits"

	"github.com/gomlx/stridedslice/internal/utils"
	"github.com/pkg/errors"
)

// Mask is a set of axes packed as bits: bit i (from the least-significant bit) refers to axis i.
type Mask int

// MaxMaskAxis is the largest axis that can be represented in a Mask.
const MaxMaskAxis = bits.UintSize - 2

// MaskFromAxes returns a Mask with the bits of the given axes set.
// It returns an error for negative, too large, or repeated axes.
func MaskFromAxes(axes ...int) (Mask, error) {
	var m Mask
	seen := utils.MakeSet[int](len(axes))
	for _, axis := range axes {
		if axis < 0 || axis > MaxMaskAxis {
			return 0, errors.Errorf("axis %d cannot be represented in a mask, it must be in [0, %d]", axis, MaxMaskAxis)
		}
		if seen.Has(axis) {
			return 0, errors.Errorf("axis %d given more than once in %v", axis, axes)
		}
		seen.Insert(axis)
		m |= 1 << axis
	}
	return m, nil
}

// Has returns whether the bit for the axis is set.
func (m Mask) Has(axis int) bool {
	if axis < 0 || axis >= bits.UintSize {
		return false
	}
	return uint(m)&(1<<uint(axis)) != 0
}

// Axes returns the axes set in the mask, in increasing order.
func (m Mask) Axes() []int {
	var axes []int
	for v := uint(m); v != 0; v &= v - 1 {
		axes = append(axes, bits.TrailingZeros(v))
	}
	return axes
}

// String implements fmt.Stringer.
func (m Mask) String() string {
	return fmt.Sprintf("%#b%v", uint(m), m.Axes())
}
