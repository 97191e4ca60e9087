package orientation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLabel(t *testing.T) {
	tests := []struct {
		label    string
		expected Degrees
	}{
		{Portrait, Rotate0},
		{PortraitUpsideDown, Rotate180},
		{LandscapeLeft, Rotate90},
		{LandscapeRight, Rotate270},
		{"LANDSCAPE-LEFT", Rotate90},
		{"", Rotate0},
		{"sideways", Rotate0},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := FromLabel(tt.label)
			assert.Equal(t, tt.expected, got)
			// pure: same input, same output
			assert.Equal(t, got, FromLabel(tt.label))
		})
	}
}

func TestFromLabel_AlwaysQuadrant(t *testing.T) {
	for _, label := range []string{Portrait, PortraitUpsideDown, LandscapeLeft, LandscapeRight} {
		assert.Contains(t, []Degrees{0, 90, 180, 270}, FromLabel(label))
	}
}

func TestFromDegrees(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected Degrees
	}{
		{"zero", 0, Rotate0},
		{"ninety", 90, Rotate90},
		{"full turn", 360, Rotate0},
		{"negative", -90, Rotate270},
		{"large", 630, Rotate270},
		{"snaps down", 44, Rotate0},
		{"snaps up", 100, Rotate90},
		{"near full turn", 350, Rotate0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromDegrees(tt.in))
		})
	}
}

func TestFromEXIF(t *testing.T) {
	assert.Equal(t, Rotate0, FromEXIF(1))
	assert.Equal(t, Rotate0, FromEXIF(2))
	assert.Equal(t, Rotate180, FromEXIF(3))
	assert.Equal(t, Rotate90, FromEXIF(6))
	assert.Equal(t, Rotate270, FromEXIF(8))
	assert.Equal(t, Rotate0, FromEXIF(0))
	assert.Equal(t, Rotate0, FromEXIF(99))
}

func TestResolve(t *testing.T) {
	deg, err := Resolve("landscape-right")
	require.NoError(t, err)
	assert.Equal(t, Rotate270, deg)

	deg, err = Resolve("180")
	require.NoError(t, err)
	assert.Equal(t, Rotate180, deg)

	deg, err = Resolve(float64(90))
	require.NoError(t, err)
	assert.Equal(t, Rotate90, deg)

	deg, err = Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, Rotate0, deg)

	_, err = Resolve([]int{1})
	assert.Error(t, err)
}

func TestSwapsAxes(t *testing.T) {
	assert.False(t, Rotate0.SwapsAxes())
	assert.True(t, Rotate90.SwapsAxes())
	assert.False(t, Rotate180.SwapsAxes())
	assert.True(t, Rotate270.SwapsAxes())
}
