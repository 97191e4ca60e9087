package normalize

import (
	"image"
	"math"

	"github.com/stashapp/stash/pkg/plugin/common/log"

	"github.com/smegmarip/stash-face-detector-plugin/internal/detector"
	"github.com/smegmarip/stash-face-detector-plugin/internal/face"
)

// Unavailable marks a classification value that was requested but not reported
const Unavailable = -1.0

// Options controls how raw detections are turned into result faces
type Options struct {
	Config   detector.Config
	Recenter bool
	ScaleX   float64
	ScaleY   float64
}

// NewOptions combines the detector configuration in effect with the per-call
// options. width and height are the dimensions of the upright image handed to
// the detector, so window scaling already accounts for 90/270 rotations.
func NewOptions(cfg detector.Config, opts detector.Options, width, height int) Options {
	return Options{
		Config:   cfg,
		Recenter: opts.RecenterBounds,
		ScaleX:   Scale(opts.WindowWidth, width),
		ScaleY:   Scale(opts.WindowHeight, height),
	}
}

// Scale returns window/extent, or 1 when either is unset
func Scale(window float64, extent int) float64 {
	if window <= 0 || extent <= 0 {
		return 1
	}
	return window / float64(extent)
}

func (o Options) scales() (float64, float64) {
	sx, sy := o.ScaleX, o.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}

// Faces normalizes every raw detection, keeping detector order
func Faces(raws []detector.RawFace, o Options) []Face {
	faces := make([]Face, 0, len(raws))
	for i := range raws {
		faces = append(faces, NormalizeFace(raws[i], o))
	}
	return faces
}

// NormalizeFace converts a single raw detection
func NormalizeFace(raw detector.RawFace, o Options) Face {
	sx, sy := o.scales()

	f := Face{
		Bounds:     BoundsOf(raw.Bounds, o.Recenter, sx, sy),
		RollAngle:  raw.RollAngle,
		PitchAngle: raw.PitchAngle,
		YawAngle:   raw.YawAngle,
	}

	if o.Config.Landmarks() {
		f.Landmarks = landmarks(raw.Landmarks, sx, sy)
	}
	if o.Config.Contours() {
		f.Contours = contours(raw.Contours, sx, sy)
	}
	if o.Config.Classification() {
		f.LeftEyeOpenProbability = probability(raw.LeftEyeOpenProbability)
		f.RightEyeOpenProbability = probability(raw.RightEyeOpenProbability)
		f.SmilingProbability = probability(raw.SmilingProbability)
	}
	if o.Config.TrackingEnabled && raw.TrackingID != nil {
		id := *raw.TrackingID
		f.TrackingID = &id
	}

	return f
}

// BoundsOf computes output bounds for r. Centers follow integer pixel
// semantics, (left+right)>>1, while recentring uses the exact center.
func BoundsOf(r image.Rectangle, recenter bool, sx, sy float64) Bounds {
	r = r.Canon()

	width := float64(r.Dx())
	height := float64(r.Dy())
	centerX := float64((r.Min.X + r.Max.X) >> 1)
	centerY := float64((r.Min.Y + r.Max.Y) >> 1)

	b := Bounds{
		Width:   width * sx,
		Height:  height * sy,
		Top:     float64(r.Min.Y) * sy,
		Left:    float64(r.Min.X) * sx,
		Right:   float64(r.Max.X) * sx,
		Bottom:  float64(r.Max.Y) * sy,
		CenterX: centerX * sx,
		CenterY: centerY * sy,
	}

	if recenter {
		exactCenterX := float64(r.Min.X+r.Max.X) * 0.5
		exactCenterY := float64(r.Min.Y+r.Max.Y) * 0.5
		offsetX := (exactCenterX - math.Ceil(width)) / 2
		offsetY := (exactCenterY - math.Ceil(height)) / 2
		x := float64(r.Max.X) + offsetX
		y := float64(r.Min.Y) + offsetY
		correctedX := (centerX + (centerX - x)) * sx
		correctedY := (centerY + (y - centerY)) * sy
		b.X = &correctedX
		b.Y = &correctedY
	}

	return b
}

func landmarks(raw map[face.LandmarkType]face.Point, sx, sy float64) map[string]face.Point {
	out := make(map[string]face.Point, len(raw))
	for _, lt := range face.Landmarks() {
		p, ok := raw[lt]
		if !ok {
			log.Tracef("landmark %s not detected", lt)
			continue
		}
		out[lt.String()] = face.Point{X: p.X * sx, Y: p.Y * sy}
	}
	return out
}

func contours(raw map[face.ContourType][]face.Point, sx, sy float64) map[string][]face.Point {
	out := make(map[string][]face.Point, len(raw))
	for _, ct := range face.Contours() {
		points := raw[ct]
		if len(points) == 0 {
			log.Tracef("contour %s not detected", ct)
			continue
		}
		scaled := make([]face.Point, len(points))
		for i, p := range points {
			scaled[i] = face.Point{X: p.X * sx, Y: p.Y * sy}
		}
		out[ct.String()] = scaled
	}
	return out
}

func probability(p *float64) *float64 {
	v := Unavailable
	if p != nil && !math.IsNaN(*p) {
		v = *p
	}
	return &v
}
