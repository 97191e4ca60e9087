package orientation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Device orientation labels reported by the camera host
const (
	Portrait           = "portrait"
	PortraitUpsideDown = "portrait-upside-down"
	LandscapeLeft      = "landscape-left"
	LandscapeRight     = "landscape-right"
)

// Degrees is the clockwise rotation that makes a frame upright.
// Only 0, 90, 180 and 270 are ever produced.
type Degrees int

const (
	Rotate0   Degrees = 0
	Rotate90  Degrees = 90
	Rotate180 Degrees = 180
	Rotate270 Degrees = 270
)

// SwapsAxes reports whether applying the rotation exchanges width and height
func (d Degrees) SwapsAxes() bool {
	return d == Rotate90 || d == Rotate270
}

// FromLabel maps a device orientation label to its rotation.
// Unknown labels, including "portrait", resolve to 0.
func FromLabel(label string) Degrees {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case PortraitUpsideDown:
		return Rotate180
	case LandscapeLeft:
		return Rotate90
	case LandscapeRight:
		return Rotate270
	default:
		return Rotate0
	}
}

// FromDegrees normalises an intrinsic rotation in degrees. Negative and
// out-of-range values wrap modulo 360; anything between quadrants snaps to
// the nearest one.
func FromDegrees(deg float64) Degrees {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return Rotate0
	}
	quadrant := int(math.Round(deg/90)) % 4
	if quadrant < 0 {
		quadrant += 4
	}
	return Degrees(quadrant * 90)
}

// FromEXIF maps an EXIF orientation tag (1..8) to its rotation component.
// Mirrored variants share the rotation of their unmirrored counterpart.
func FromEXIF(tag int) Degrees {
	switch tag {
	case 3, 4:
		return Rotate180
	case 5, 6:
		return Rotate90
	case 7, 8:
		return Rotate270
	default:
		return Rotate0
	}
}

// Resolve accepts whatever the caller supplied for orientation: a label, a
// numeric string, or a number, and returns the canonical rotation.
func Resolve(value interface{}) (Degrees, error) {
	switch v := value.(type) {
	case nil:
		return Rotate0, nil
	case Degrees:
		return FromDegrees(float64(v)), nil
	case int:
		return FromDegrees(float64(v)), nil
	case int64:
		return FromDegrees(float64(v)), nil
	case float64:
		return FromDegrees(v), nil
	case string:
		if deg, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return FromDegrees(deg), nil
		}
		return FromLabel(v), nil
	default:
		return Rotate0, fmt.Errorf("unsupported orientation value %v (%T)", value, value)
	}
}
