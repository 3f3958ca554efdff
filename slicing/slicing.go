// Package slicing extracts slices of tensors stored as flat row-major Go slices.
//
// Parameters are resolved and validated by the shapeinference package. When the selected region
// is contiguous in the flat storage, it is copied in one go, otherwise the elements are gathered
// walking the operand with the flat strides of each axis.
package slicing

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/stridedslice/shapeinference"
	"github.com/gomlx/stridedslice/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Slice returns the region of flat (a tensor with the given shape) starting at begin and with
// the given size per axis. The output has the same rank as the operand.
//
// Example:
//
//	Slice([]int{0, 1, 2, 3, 4, 5}, shapes.Make(dtypes.Int64, 2, 3), []int{0, 1}, []int{2, 2})
//	// -> []int{1, 2, 4, 5} shaped (Int64)[2 2]
func Slice[T any](flat []T, shape shapes.Shape, begin, size []int) ([]T, shapes.Shape, error) {
	if err := checkFlat(flat, shape); err != nil {
		return nil, shapes.Invalid(), err
	}
	outputShape, err := shapeinference.SliceShape(shape, begin, size)
	if err != nil {
		return nil, shapes.Invalid(), err
	}
	strides := make([]int, shape.Rank())
	for axis := range strides {
		strides[axis] = 1
	}
	resolution := shapeinference.Resolution{Start: begin, Size: size, Strides: strides}
	return gather(flat, shape, resolution), outputShape, nil
}

// StridedSlice returns the region of flat (a tensor with the given shape) selected by begin, end
// and strides, with the given masks. See shapeinference.StridedSlice for details.
//
// The output shape has the shrunk axes removed.
//
// Example:
//
//	// x[::-1] for x = []float32{1, 2, 3}
//	StridedSlice([]float32{1, 2, 3}, shapes.Make(dtypes.Float32, 3), []int{0}, []int{0}, []int{-1},
//		shapeinference.StridedSliceMasks{Begin: 1, End: 1})
//	// -> []float32{3, 2, 1}
func StridedSlice[T any](flat []T, shape shapes.Shape, begin, end, strides []int, masks shapeinference.StridedSliceMasks) (
	[]T, shapes.Shape, error) {
	if err := checkFlat(flat, shape); err != nil {
		return nil, shapes.Invalid(), err
	}
	outputShape, resolution, err := shapeinference.StridedSliceShape(shape, begin, end, strides, masks)
	if err != nil {
		return nil, shapes.Invalid(), err
	}
	return gather(flat, shape, resolution), outputShape, nil
}

// MustSlice is like Slice, but panics (with exceptions.Panicf) on errors.
func MustSlice[T any](flat []T, shape shapes.Shape, begin, size []int) ([]T, shapes.Shape) {
	output, outputShape, err := Slice(flat, shape, begin, size)
	if err != nil {
		exceptions.Panicf("MustSlice: %+v", err)
	}
	return output, outputShape
}

// MustStridedSlice is like StridedSlice, but panics (with exceptions.Panicf) on errors.
func MustStridedSlice[T any](flat []T, shape shapes.Shape, begin, end, strides []int,
	masks shapeinference.StridedSliceMasks) ([]T, shapes.Shape) {
	output, outputShape, err := StridedSlice(flat, shape, begin, end, strides, masks)
	if err != nil {
		exceptions.Panicf("MustStridedSlice: %+v", err)
	}
	return output, outputShape
}

func checkFlat[T any](flat []T, shape shapes.Shape) error {
	if !shape.Ok() {
		return errors.Errorf("invalid operand shape %s", shape)
	}
	if len(flat) != shape.Size() {
		return errors.Errorf("operand has %d elements, but its shape %s requires %d", len(flat), shape, shape.Size())
	}
	return nil
}

// gather copies the region described by resolution out of flat.
// The parameters must have been validated already.
func gather[T any](flat []T, shape shapes.Shape, resolution shapeinference.Resolution) []T {
	rank := shape.Rank()
	outputSize := 1
	for _, dim := range resolution.Size {
		outputSize *= dim
	}
	output := make([]T, outputSize)
	if outputSize == 0 {
		return output
	}
	if rank == 0 {
		output[0] = flat[0]
		return output
	}

	flatStrides := shape.Strides()
	if resolution.IsContiguous(shape.Dimensions) {
		offset := shapeinference.FlatOffset(resolution.Start, flatStrides)
		if klog.V(2).Enabled() {
			klog.Infof("slicing %s: contiguous copy of %d elements from offset %d", shape, outputSize, offset)
		}
		copy(output, flat[offset:offset+outputSize])
		return output
	}
	if klog.V(2).Enabled() {
		klog.Infof("slicing %s: strided gather of %d elements, start=%v size=%v strides=%v",
			shape, outputSize, resolution.Start, resolution.Size, resolution.Strides)
	}

	// Find flatIdx start value, and scale the flat strides by the requested strides.
	var flatIdx int
	for axis, idx := range resolution.Start {
		flatIdx += flatStrides[axis] * idx
		flatStrides[axis] *= resolution.Strides[axis]
	}

	perAxisIdx := make([]int, rank)
	perAxisSize := resolution.Size
	for outputIdx := range output {
		output[outputIdx] = flat[flatIdx]
		if outputIdx == outputSize-1 {
			break
		}

		// Iterate to the next operand position.
		for axis := rank - 1; axis >= 0; axis-- {
			if perAxisSize[axis] == 1 {
				continue
			}
			perAxisIdx[axis]++
			flatIdx += flatStrides[axis]
			if perAxisIdx[axis] < perAxisSize[axis] {
				break
			}

			// Rewind the current axis, and bump the next one.
			perAxisIdx[axis] = 0
			flatIdx -= perAxisSize[axis] * flatStrides[axis]
		}
	}
	return output
}
