package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInts(t *testing.T) {
	values, err := parseInts("begin", "1, -2,3", 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, -2, 3}, values)

	values, err = parseInts("strides", "", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, values)

	_, err = parseInts("end", "1,x", 2, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-end")

	_, err = parseInts("end", "1,2,3", 2, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rank 2")
}
