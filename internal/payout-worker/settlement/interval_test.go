package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleInterval(t *testing.T) {
	answers := []ScaleAnswer{{From: d("0")}, {From: d("10")}, {From: d("20")}}

	iv, ok := ScaleInterval(d("15"), answers)
	require.True(t, ok)
	assert.Equal(t, 1, iv.Index)
	assertDecimal(t, "10", iv.From)
	require.True(t, iv.To.Valid)
	assertDecimal(t, "20", iv.To.Decimal)

	iv, ok = ScaleInterval(d("10"), answers)
	require.True(t, ok)
	assert.Equal(t, 1, iv.Index)

	iv, ok = ScaleInterval(d("99"), answers)
	require.True(t, ok)
	assert.Equal(t, 2, iv.Index)
	assert.False(t, iv.To.Valid)

	_, ok = ScaleInterval(d("-1"), answers)
	assert.False(t, ok)
}
