// slicecalc prints how a strided slice resolves over a tensor shape: the start index and size of
// each axis, the shrunk axes, the output shape, and whether the region is contiguous in the flat
// row-major storage.
//
// Example:
//
//	go run ./internal/cmd/slicecalc -shape=4,4 -begin=1,0 -end=3,4 -strides=1,1
package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/stridedslice/shapeinference"
	"github.com/gomlx/stridedslice/types/shapes"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagShape   = flag.String("shape", "", "Comma-separated dimensions of the operand, e.g. \"4,4\".")
	flagBegin   = flag.String("begin", "", "Comma-separated begin index per axis. Defaults to 0 for every axis.")
	flagEnd     = flag.String("end", "", "Comma-separated end index (exclusive) per axis. Defaults to the dimension of each axis.")
	flagStrides = flag.String("strides", "", "Comma-separated stride per axis. Defaults to 1 for every axis.")

	flagBeginMask  = flag.Int("begin_mask", 0, "Bitmask of axes whose begin is ignored.")
	flagEndMask    = flag.Int("end_mask", 0, "Bitmask of axes whose end is ignored.")
	flagShrinkMask = flag.Int("shrink_axis_mask", 0, "Bitmask of axes to shrink (select a single element and remove).")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *flagShape == "" {
		klog.Fatalf("-shape must be given")
	}
	shape := shapes.Make(dtypes.Int64, must.M1(parseInts("shape", *flagShape, 0, 0))...)
	rank := shape.Rank()
	begin := must.M1(parseInts("begin", *flagBegin, rank, 0))
	end := must.M1(parseInts("end", *flagEnd, rank, 0))
	if *flagEnd == "" {
		copy(end, shape.Dimensions)
	}
	strides := must.M1(parseInts("strides", *flagStrides, rank, 1))

	masks := shapeinference.StridedSliceMasks{
		Begin:      shapeinference.Mask(*flagBeginMask),
		End:        shapeinference.Mask(*flagEndMask),
		ShrinkAxis: shapeinference.Mask(*flagShrinkMask),
	}
	klog.V(1).Infof("shape=%s begin=%v end=%v strides=%v masks=%+v", shape, begin, end, strides, masks)
	output, resolution, err := shapeinference.StridedSliceShape(shape, begin, end, strides, masks)
	if err != nil {
		klog.Fatalf("Failed to resolve slice: %+v", err)
	}

	fmt.Printf("start:       %v\n", resolution.Start)
	fmt.Printf("size:        %v\n", resolution.Size)
	fmt.Printf("shrink axes: %v\n", resolution.ShrinkAxes)
	fmt.Printf("output:      %v\n", output.Dimensions)
	if resolution.IsContiguous(shape.Dimensions) {
		offset := 0
		if rank > 0 {
			offset = shapeinference.FlatOffset(resolution.Start, shape.Strides())
		}
		fmt.Printf("contiguous:  true (flat offset %d, %d elements)\n", offset, output.Size())
	} else {
		fmt.Printf("contiguous:  false\n")
	}
}

// parseInts parses a comma-separated list of integers. If value is empty and rank > 0, it returns
// rank copies of defaultValue.
func parseInts(name, value string, rank, defaultValue int) ([]int, error) {
	if value == "" {
		values := make([]int, rank)
		for i := range values {
			values[i] = defaultValue
		}
		return values, nil
	}
	parts := strings.Split(value, ",")
	values := make([]int, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse -%s=%q", name, value)
		}
		values[i] = v
	}
	if rank > 0 && len(values) != rank {
		return nil, errors.Errorf("-%s=%q has %d values, but the shape has rank %d", name, value, len(values), rank)
	}
	return values, nil
}
