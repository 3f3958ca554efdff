// Package stridedslice resolves and applies tensor slices over flat row-major storage.
//
// Among its features:
//
// - Simple slicing (begin and size per axis) with validation.
// - Strided slicing with begin/end/shrink-axis masks, negative indices and negative strides,
//   following the semantics of Python slices: out-of-bound indices are clamped.
// - Shape inference: it calculates the output shapes, with shrunk axes removed.
// - Contiguous regions are copied in one go from the flat storage.
//
// The index arithmetic lives in the shapeinference package, and the generic extraction from Go
// slices in the slicing package.
package stridedslice

import "github.com/gomlx/stridedslice/shapeinference"

// Mask is a set of axes packed as bits. See shapeinference.Mask.
type Mask = shapeinference.Mask

// Masks groups the bitmasks of a strided slice. See shapeinference.StridedSliceMasks.
type Masks = shapeinference.StridedSliceMasks

// Resolve returns the start index and size of each axis, and the shrunk axes, of a strided slice
// over a tensor with the given dimensions. See shapeinference.StridedSlice.
func Resolve(dimensions, begin, end, strides []int, masks Masks) (startIndex, size, shrinkAxis []int, err error) {
	return shapeinference.StridedSlice(dimensions, begin, end, strides,
		masks.Begin, masks.End, masks.Ellipsis, masks.NewAxis, masks.ShrinkAxis)
}
