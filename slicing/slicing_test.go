package slicing

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/stridedslice/shapeinference"
	"github.com/gomlx/stridedslice/types/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

// arange returns a flat slice with values 0 to n-1.
func arange(n int) []int {
	values := make([]int, n)
	for i := range values {
		values[i] = i
	}
	return values
}

type Masks = shapeinference.StridedSliceMasks

func TestSlice(t *testing.T) {
	shape := shapes.Make(dtypes.Int64, 2, 3, 4)
	x := arange(shape.Size())

	t.Run("contiguous", func(t *testing.T) {
		got, gotShape, err := Slice(x, shape, []int{1, 0, 0}, []int{1, 3, 4})
		require.NoError(t, err)
		assert.Equal(t, arange(24)[12:], got)
		assert.NoError(t, gotShape.CheckDims(1, 3, 4))
	})

	t.Run("partial-rows", func(t *testing.T) {
		got, gotShape, err := Slice(x, shape, []int{0, 1, 1}, []int{2, 2, 2})
		require.NoError(t, err)
		assert.Equal(t, []int{5, 6, 9, 10, 17, 18, 21, 22}, got)
		assert.NoError(t, gotShape.CheckDims(2, 2, 2))
	})

	t.Run("single-element", func(t *testing.T) {
		got, _, err := Slice(x, shape, []int{1, 2, 3}, []int{1, 1, 1})
		require.NoError(t, err)
		assert.Equal(t, []int{23}, got)
	})

	t.Run("empty", func(t *testing.T) {
		got, gotShape, err := Slice(x, shape, []int{1, 1, 1}, []int{1, 0, 2})
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Equal(t, 0, gotShape.Size())
	})

	t.Run("scalar", func(t *testing.T) {
		got, gotShape, err := Slice([]float32{42}, shapes.Make(dtypes.Float32), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []float32{42}, got)
		assert.True(t, gotShape.IsScalar())
	})

	t.Run("errors", func(t *testing.T) {
		_, _, err := Slice(x, shape, []int{1, 0, 0}, []int{2, 3, 4})
		require.Error(t, err)
		_, _, err = Slice(x[:10], shape, []int{0, 0, 0}, []int{1, 1, 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "10 elements")
	})
}

func TestStridedSlice(t *testing.T) {
	t.Run("sub-matrix", func(t *testing.T) {
		got, gotShape, err := StridedSlice(arange(16), shapes.Make(dtypes.Int64, 4, 4),
			[]int{1, 0}, []int{3, 4}, []int{1, 1}, Masks{})
		require.NoError(t, err)
		assert.Equal(t, arange(16)[4:12], got)
		assert.NoError(t, gotShape.CheckDims(2, 4))
	})

	t.Run("reverse", func(t *testing.T) {
		got, _, err := StridedSlice(arange(5), shapes.Make(dtypes.Int64, 5),
			[]int{4}, []int{-1}, []int{-1}, Masks{End: 1})
		require.NoError(t, err)
		assert.Equal(t, []int{4, 3, 2, 1, 0}, got)
	})

	t.Run("mixed", func(t *testing.T) {
		// x[1, ::-1, 2:] for x shaped [3, 4, 5].
		got, gotShape, err := StridedSlice(arange(60), shapes.Make(dtypes.Int64, 3, 4, 5),
			[]int{1, 0, 2}, []int{0, 0, 0}, []int{1, -1, 1},
			Masks{Begin: 0b010, End: 0b110, ShrinkAxis: 0b001})
		require.NoError(t, err)
		assert.Equal(t, []int{37, 38, 39, 32, 33, 34, 27, 28, 29, 22, 23, 24}, got)
		assert.NoError(t, gotShape.CheckDims(4, 3))
	})

	t.Run("float16-with-step", func(t *testing.T) {
		x := make([]float16.Float16, 6)
		for i := range x {
			x[i] = float16.Fromfloat32(float32(i))
		}
		got, gotShape, err := StridedSlice(x, shapes.Make(dtypes.Float16, 6),
			[]int{1}, []int{6}, []int{2}, Masks{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		for i, want := range []float32{1, 3, 5} {
			assert.Equal(t, want, got[i].Float32())
		}
		assert.True(t, shapes.Make(dtypes.Float16, 3).Equal(gotShape))
	})

	t.Run("all-shrunk", func(t *testing.T) {
		got, gotShape, err := StridedSlice(arange(4), shapes.Make(dtypes.Int64, 2, 2),
			[]int{1, -2}, []int{0, 0}, []int{1, 1}, Masks{ShrinkAxis: 0b11})
		require.NoError(t, err)
		assert.Equal(t, []int{2}, got)
		assert.True(t, gotShape.IsScalar())
	})

	t.Run("empty", func(t *testing.T) {
		got, gotShape, err := StridedSlice(arange(4), shapes.Make(dtypes.Int64, 4),
			[]int{3}, []int{1}, []int{1}, Masks{})
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NoError(t, gotShape.CheckDims(0))
	})

	t.Run("scalar", func(t *testing.T) {
		got, gotShape, err := StridedSlice([]bool{true}, shapes.Make(dtypes.Bool), nil, nil, nil, Masks{})
		require.NoError(t, err)
		assert.Equal(t, []bool{true}, got)
		assert.True(t, gotShape.IsScalar())
	})

	t.Run("unsupported-mask", func(t *testing.T) {
		_, _, err := StridedSlice(arange(4), shapes.Make(dtypes.Int64, 4),
			[]int{0}, []int{4}, []int{1}, Masks{Ellipsis: 1})
		require.Error(t, err)
	})
}

func TestMustVariants(t *testing.T) {
	shape := shapes.Make(dtypes.Int64, 4)
	got, _ := MustSlice(arange(4), shape, []int{1}, []int{2})
	assert.Equal(t, []int{1, 2}, got)
	got, _ = MustStridedSlice(arange(4), shape, []int{0}, []int{0}, []int{-2}, Masks{Begin: 1, End: 1})
	assert.Equal(t, []int{3, 1}, got)

	err := exceptions.TryCatch[error](func() { _, _ = MustSlice(arange(4), shape, []int{3}, []int{2}) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MustSlice")
	err = exceptions.TryCatch[error](func() {
		_, _ = MustStridedSlice(arange(4), shape, []int{0}, []int{4}, []int{1}, Masks{NewAxis: 1})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newAxisMask")
}
