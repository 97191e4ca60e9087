package tracking

import (
	"context"
	"image"
	"math"
	"sync"

	flatbush "github.com/bmharper/flatbush-go"

	"github.com/smegmarip/stash-face-detector-plugin/internal/detector"
)

// MinIoU is the overlap above which a detection continues an existing track
const MinIoU = 0.3

// Tracker assigns stable ids to faces across consecutive frames by matching
// each detection to the previous frame's boxes.
type Tracker struct {
	mu     sync.Mutex
	tracks []track
	nextID int
}

type track struct {
	id  int
	box image.Rectangle
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{}
}

// Assign returns one id per box. Boxes overlapping a previous track keep its
// id; the rest fall back to the nearest unmatched track within one face
// width, or get a fresh id. Tracks not seen in this frame are dropped.
func (t *Tracker) Assign(boxes []image.Rectangle) []int {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]int, len(boxes))
	for i := range ids {
		ids[i] = -1
	}

	if len(t.tracks) != 0 {
		fb := flatbush.NewFlatbush[int32]()
		fb.Reserve(len(t.tracks))
		for _, tr := range t.tracks {
			fb.Add(int32(tr.box.Min.X), int32(tr.box.Min.Y), int32(tr.box.Max.X), int32(tr.box.Max.Y))
		}
		fb.Finish()

		matched := make([]bool, len(t.tracks))
		for i, box := range boxes {
			bufX := int32(box.Dx())
			bufY := int32(box.Dy())
			nearby := fb.Search(int32(box.Min.X)-bufX, int32(box.Min.Y)-bufY, int32(box.Max.X)+bufX, int32(box.Max.Y)+bufY)

			overlap, nearest := -1, -1
			bestIoU := 0.0
			nearestDistance := math.MaxFloat64
			for _, j := range nearby {
				if matched[j] {
					continue
				}
				old := t.tracks[j].box
				if iou := IoU(box, old); iou > bestIoU {
					bestIoU = iou
					overlap = j
				}
				if distance := centerDistance(box, old); distance < nearestDistance {
					nearestDistance = distance
					nearest = j
				}
			}

			var best int
			switch {
			case overlap != -1 && bestIoU >= MinIoU:
				best = overlap
			case nearest != -1 && nearestDistance <= float64(max(box.Dx(), box.Dy())):
				best = nearest
			default:
				continue
			}
			matched[best] = true
			ids[i] = t.tracks[best].id
		}
	}

	next := make([]track, len(boxes))
	for i, box := range boxes {
		if ids[i] == -1 {
			ids[i] = t.nextID
			t.nextID++
		}
		next[i] = track{id: ids[i], box: box}
	}
	t.tracks = next

	return ids
}

// IoU calculates Intersection over Union of two rectangles
func IoU(a, b image.Rectangle) float64 {
	inter := a.Intersect(b)
	if inter.Empty() {
		return 0.0
	}

	intersection := inter.Dx() * inter.Dy()
	union := a.Dx()*a.Dy() + b.Dx()*b.Dy() - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

func centerDistance(a, b image.Rectangle) float64 {
	ax := float64(a.Min.X+a.Max.X) / 2
	ay := float64(a.Min.Y+a.Max.Y) / 2
	bx := float64(b.Min.X+b.Max.X) / 2
	by := float64(b.Min.Y+b.Max.Y) / 2
	return math.Hypot(ax-bx, ay-by)
}

// trackedDetector stamps tracking ids onto the faces of an inner detector
type trackedDetector struct {
	inner   detector.Detector
	tracker *Tracker
}

// Wrap returns a Detector that assigns tracking ids to every face inner reports
func Wrap(inner detector.Detector) detector.Detector {
	return &trackedDetector{inner: inner, tracker: NewTracker()}
}

func (d *trackedDetector) Detect(ctx context.Context, img image.Image) ([]detector.RawFace, error) {
	faces, err := d.inner.Detect(ctx, img)
	if err != nil {
		return nil, err
	}

	boxes := make([]image.Rectangle, len(faces))
	for i := range faces {
		boxes[i] = faces[i].Bounds.Canon()
	}

	ids := d.tracker.Assign(boxes)
	for i := range faces {
		id := ids[i]
		faces[i].TrackingID = &id
	}
	return faces, nil
}
