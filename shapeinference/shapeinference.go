// Package shapeinference resolves slicing parameters into concrete per-axis indices, and calculates
// the shapes resulting from slicing operations, validating their inputs.
//
// Two flavors of slicing are supported:
//
//   - Simple slicing (ValidateSlice, SliceShape): a begin index and a size per axis, all within bounds.
//   - Strided slicing (StridedSlice, StridedSliceShape): begin/end/strides per axis, with bitmasks to
//     select default bounds and to shrink axes, negative-index wraparound and reverse (negative stride)
//     traversal. Out-of-bound indices are clamped, never rejected.
//
// It also provides the helpers (IsContiguous, FlatOffset) used to copy a contiguous selection
// straight out of a flat row-major buffer.
//
// All functions are pure and safe for concurrent use.
package shapeinference

import (
	"math"
	"slices"

	"github.com/gomlx/stridedslice/internal/utils"
	"github.com/gomlx/stridedslice/types/shapes"
	"github.com/pkg/errors"
)

// ErrUnsupportedMask is returned (wrapped) by StridedSlice when an ellipsis or new-axis mask is given.
var ErrUnsupportedMask = errors.New("mask not supported")

// ValidateSlice checks the parameters of a simple (non-strided) slice: begin and size must have one
// element per axis of shape, and for every axis begin[axis] + size[axis] <= shape[axis].
// Negative begin or size values are also rejected.
func ValidateSlice(shape, begin, size []int) error {
	rank := len(shape)
	opName := "Slice"
	if len(begin) != rank {
		return errors.Errorf("%s: len(begin)=%d, but operand rank is %d", opName, len(begin), rank)
	}
	if len(size) != rank {
		return errors.Errorf("%s: len(size)=%d, but operand rank is %d", opName, len(size), rank)
	}
	for axis := range rank {
		if begin[axis] < 0 || size[axis] < 0 {
			return errors.Errorf("%s: begin[%d]=%d and size[%d]=%d must be non-negative (operand dimensions %v)",
				opName, axis, begin[axis], axis, size[axis], shape)
		}
		if begin[axis]+size[axis] > shape[axis] {
			return errors.Errorf("%s: begin[%d]=%d + size[%d]=%d exceeds the dimension %d of axis %d (operand rank %d, dimensions %v)",
				opName, axis, begin[axis], axis, size[axis], shape[axis], axis, rank, shape)
		}
	}
	return nil
}

// SliceShape returns the output shape of a simple slice of operand: the dtype of the operand and
// dimensions given by size.
func SliceShape(operand shapes.Shape, begin, size []int) (output shapes.Shape, err error) {
	if !operand.Ok() {
		return shapes.Invalid(), errors.Errorf("Slice: invalid operand shape %s", operand)
	}
	if err = ValidateSlice(operand.Dimensions, begin, size); err != nil {
		return shapes.Invalid(), errors.WithMessagef(err, "operand shape %s", operand)
	}
	return shapes.Make(operand.DType, size...), nil
}

// StartForAxis returns the index of the first element selected in the given axis.
//
// If beginMask is set for the axis, begin[axis] is ignored and the selection starts at the first
// element when iterating forward (positive stride) or at the last element when iterating backward.
// Negative indices count from the end of the axis. The result is clamped to [0, shape[axis]-1].
func StartForAxis(beginMask Mask, begin, strides, shape []int, axis int) int {
	axisSize := shape[axis]
	if axisSize == 0 {
		return 0
	}
	start := begin[axis]
	if beginMask.Has(axis) {
		if strides[axis] > 0 {
			start = math.MinInt
		} else {
			start = math.MaxInt
		}
	}
	if start < 0 {
		start += axisSize
	}
	return utils.Clamp(start, 0, axisSize-1)
}

// StopForAxis returns the exclusive stop index for the given axis.
//
// If endMask is set for the axis, end[axis] is ignored and the selection goes up to the last element
// when iterating forward, or down to the first element when iterating backward.
// Negative indices count from the end of the axis.
//
// For positive strides the result is clamped to [0, shape[axis]]. For negative strides it is clamped
// to [-1, shape[axis]-1], where -1 means "stop after index 0".
func StopForAxis(endMask Mask, end, strides, shape []int, axis int) int {
	axisSize := shape[axis]
	stride := strides[axis]
	stop := end[axis]
	if endMask.Has(axis) {
		if stride > 0 {
			stop = math.MaxInt
		} else {
			stop = math.MinInt
		}
	}
	if stop < 0 {
		stop += axisSize
	}
	if stride > 0 {
		return utils.Clamp(stop, 0, axisSize)
	}
	return utils.Clamp(stop, -1, axisSize-1)
}

// stridedCount returns how many times `start += stride` is taken before start reaches stop.
// It is 0 if start is already past stop in the direction of stride.
func stridedCount(start, stop, stride int) int {
	if stride > 0 {
		if start >= stop {
			return 0
		}
		return (stop - start + stride - 1) / stride
	}
	if start <= stop {
		return 0
	}
	return (start - stop - stride - 1) / -stride
}

// StridedSlice resolves the parameters of a strided slice over a tensor with the given shape.
//
// begin, end and strides must have at least one element per axis of shape. Strides can be negative,
// for a reverse traversal, but not zero. Masks are bit-packed: bit i refers to axis i.
//
//   - beginMask/endMask: ignore begin[i]/end[i] and use the full range of the axis instead.
//   - shrinkAxisMask: select exactly the element at the resolved start of the axis, and mark
//     the axis to be removed from the output shape.
//   - ellipsisMask/newAxisMask: not supported, they must be 0.
//
// It returns for each axis the start index and the number of elements selected (size), and the
// list of shrunk axes, in increasing order.
//
// Example:
//
//	// x[1:3, :] for x shaped [4, 4]
//	StridedSlice([]int{4, 4}, []int{1, 0}, []int{3, 4}, []int{1, 1}, 0, 0, 0, 0, 0)
//	// -> startIndex=[1 0], size=[2 4], shrinkAxis=[]
func StridedSlice(shape, begin, end, strides []int, beginMask, endMask, ellipsisMask, newAxisMask, shrinkAxisMask Mask) (
	startIndex, size, shrinkAxis []int, err error) {
	opName := "StridedSlice"
	if ellipsisMask != 0 {
		err = errors.Wrapf(ErrUnsupportedMask, "%s: ellipsisMask=%s", opName, ellipsisMask)
		return
	}
	if newAxisMask != 0 {
		err = errors.Wrapf(ErrUnsupportedMask, "%s: newAxisMask=%s", opName, newAxisMask)
		return
	}
	rank := len(shape)
	for _, param := range []struct {
		name   string
		values []int
	}{{"begin", begin}, {"end", end}, {"strides", strides}} {
		if len(param.values) < rank {
			err = errors.Errorf("%s: len(%s)=%d, but operand rank is %d", opName, param.name, len(param.values), rank)
			return
		}
	}
	for axis := range rank {
		if shape[axis] < 0 {
			err = errors.Errorf("%s: invalid negative dimension %d for axis %d (dimensions %v)", opName, shape[axis], axis, shape)
			return
		}
		if strides[axis] == 0 {
			err = errors.Errorf("%s: strides[%d] is 0, strides must be non-zero", opName, axis)
			return
		}
	}

	startIndex = make([]int, rank)
	size = make([]int, rank)
	shrinkAxis = make([]int, 0, rank)
	for axis := range rank {
		if shape[axis] == 0 {
			if shrinkAxisMask.Has(axis) {
				return nil, nil, nil, errors.Errorf("%s: cannot shrink axis %d, it has dimension 0", opName, axis)
			}
			continue
		}
		start := StartForAxis(beginMask, begin, strides, shape, axis)
		startIndex[axis] = start
		if shrinkAxisMask.Has(axis) {
			// Exactly one element, in whichever direction the stride points.
			shrinkAxis = append(shrinkAxis, axis)
			size[axis] = 1
			continue
		}
		stop := StopForAxis(endMask, end, strides, shape, axis)
		size[axis] = stridedCount(start, stop, strides[axis])
	}
	return
}

// IsContiguous returns whether the region selected by begin and size, on a tensor with the given shape
// stored in row-major order, is one unbroken run of elements in the flat storage.
//
// That is the case if every axis after the first one with size > 1 is selected in full.
// It doesn't take strides into account: the region is assumed to be selected with stride 1 on
// every axis of size > 1.
func IsContiguous(shape, begin, size []int) bool {
	firstNonOneAxis := len(size)
	for axis, dim := range size {
		if dim > 1 {
			firstNonOneAxis = axis
			break
		}
	}
	for axis := firstNonOneAxis + 1; axis < len(size); axis++ {
		if begin[axis] > 0 || size[axis] != shape[axis] {
			return false
		}
	}
	return true
}

// FlatOffset returns the position in a flat buffer of the element at begin, given the flat strides
// of each axis (see shapes.Shape.Strides). The stride of the last axis is assumed to be 1.
//
// An empty begin returns 1: callers handling scalars must not rely on it.
func FlatOffset(begin, strides []int) int {
	if len(begin) == 0 {
		return 1
	}
	lastAxis := len(begin) - 1
	offset := begin[lastAxis]
	for axis := range lastAxis {
		offset += begin[axis] * strides[axis]
	}
	return offset
}

// StridedSliceMasks groups the bitmasks of a strided slice. See StridedSlice.
type StridedSliceMasks struct {
	Begin, End, Ellipsis, NewAxis, ShrinkAxis Mask
}

// Resolution holds the resolved parameters of a strided slice.
type Resolution struct {
	// Start index of each axis.
	Start []int

	// Size is the number of elements selected in each axis.
	Size []int

	// Strides used for each axis.
	Strides []int

	// ShrinkAxes lists the axes removed from the output shape, in increasing order.
	ShrinkAxes []int
}

// OutputDimensions returns the dimensions of the result: Size without the shrunk axes.
func (r Resolution) OutputDimensions() []int {
	dims := make([]int, 0, len(r.Size))
	for axis, dim := range r.Size {
		if !slices.Contains(r.ShrinkAxes, axis) {
			dims = append(dims, dim)
		}
	}
	return dims
}

// IsContiguous returns whether the resolved region can be copied as one run from a flat row-major
// buffer of the given dimensions, in order: besides IsContiguous, every axis with more than one
// element selected must be traversed with stride 1.
func (r Resolution) IsContiguous(dimensions []int) bool {
	for axis, dim := range r.Size {
		if dim > 1 && r.Strides[axis] != 1 {
			return false
		}
	}
	return IsContiguous(dimensions, r.Start, r.Size)
}

// StridedSliceShape resolves a strided slice over operand (see StridedSlice), and returns the output
// shape, with the shrunk axes removed, along with the resolved parameters.
func StridedSliceShape(operand shapes.Shape, begin, end, strides []int, masks StridedSliceMasks) (
	output shapes.Shape, resolution Resolution, err error) {
	if !operand.Ok() {
		return shapes.Invalid(), resolution, errors.Errorf("StridedSlice: invalid operand shape %s", operand)
	}
	resolution.Start, resolution.Size, resolution.ShrinkAxes, err = StridedSlice(
		operand.Dimensions, begin, end, strides,
		masks.Begin, masks.End, masks.Ellipsis, masks.NewAxis, masks.ShrinkAxis)
	if err != nil {
		return shapes.Invalid(), Resolution{}, errors.WithMessagef(err, "operand shape %s", operand)
	}
	resolution.Strides = slices.Clone(strides[:operand.Rank()])
	output = shapes.Make(operand.DType, resolution.OutputDimensions()...)
	return
}
