package frame

import (
	"errors"
	"fmt"
	"math"

	"github.com/smegmarip/stash-face-detector-plugin/internal/orientation"
)

var (
	// ErrMalformedFrame is returned when a plane is shorter than the declared dimensions require
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrUnsupportedLayout is returned for an unknown chroma layout name
	ErrUnsupportedLayout = errors.New("unsupported frame layout")
)

// MaxPixels bounds width*height so that plane sizes never overflow int
const MaxPixels = math.MaxInt32

// Layout describes how the chroma samples of a 4:2:0 frame are stored
type Layout string

const (
	// LayoutPlanar is three planes: Y, U, V (I420)
	LayoutPlanar Layout = "planar"
	// LayoutSemiPlanar is two planes: Y, then interleaved U,V (NV12)
	LayoutSemiPlanar Layout = "semiplanar"
	// LayoutNV21 is two planes: Y, then interleaved V,U
	LayoutNV21 Layout = "nv21"
)

// ParseLayout maps a layout name to a Layout. Empty means planar.
func ParseLayout(name string) (Layout, error) {
	switch Layout(name) {
	case "", LayoutPlanar:
		return LayoutPlanar, nil
	case LayoutSemiPlanar, "nv12":
		return LayoutSemiPlanar, nil
	case LayoutNV21:
		return LayoutNV21, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLayout, name)
}

// Frame is one camera sample. Planes are tightly packed (stride == width).
// A Frame is not retained past the call that receives it.
type Frame struct {
	Width       int
	Height      int
	Orientation orientation.Degrees
	Layout      Layout
	Planes      [][]byte
}

// chromaSize returns the dimensions of one subsampled chroma plane
func (f *Frame) chromaSize() (int, int) {
	return (f.Width + 1) / 2, (f.Height + 1) / 2
}

// Validate checks plane count and that every plane holds at least as many
// bytes as the dimensions require.
func (f *Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ErrMalformedFrame, f.Width, f.Height)
	}
	if f.Width > MaxPixels/f.Height {
		return fmt.Errorf("%w: dimensions %dx%d exceed %d pixels", ErrMalformedFrame, f.Width, f.Height, MaxPixels)
	}

	cw, ch := f.chromaSize()
	lumaSize := f.Width * f.Height
	chromaSize := cw * ch

	var required []int
	switch f.Layout {
	case LayoutPlanar, "":
		required = []int{lumaSize, chromaSize, chromaSize}
	case LayoutSemiPlanar, LayoutNV21:
		required = []int{lumaSize, 2 * chromaSize}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedLayout, f.Layout)
	}

	if len(f.Planes) < len(required) {
		return fmt.Errorf("%w: layout %s needs %d planes, got %d", ErrMalformedFrame, f.layout(), len(required), len(f.Planes))
	}

	for i, size := range required {
		if len(f.Planes[i]) < size {
			return fmt.Errorf("%w: plane %d has %d bytes, need %d for %dx%d",
				ErrMalformedFrame, i, len(f.Planes[i]), size, f.Width, f.Height)
		}
	}

	return nil
}

func (f *Frame) layout() Layout {
	if f.Layout == "" {
		return LayoutPlanar
	}
	return f.Layout
}

// NV21 packs the frame into a single semi-planar buffer: luma unchanged,
// followed by chroma interleaved V before U.
func (f *Frame) NV21() ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	cw, ch := f.chromaSize()
	lumaSize := f.Width * f.Height
	chromaSize := cw * ch

	buf := make([]byte, lumaSize+2*chromaSize)
	copy(buf, f.Planes[0][:lumaSize])
	vu := buf[lumaSize:]

	switch f.layout() {
	case LayoutPlanar:
		u, v := f.Planes[1], f.Planes[2]
		for i := 0; i < chromaSize; i++ {
			vu[2*i] = v[i]
			vu[2*i+1] = u[i]
		}
	case LayoutSemiPlanar:
		uv := f.Planes[1]
		for i := 0; i < chromaSize; i++ {
			vu[2*i] = uv[2*i+1]
			vu[2*i+1] = uv[2*i]
		}
	case LayoutNV21:
		copy(vu, f.Planes[1][:2*chromaSize])
	}

	return buf, nil
}
