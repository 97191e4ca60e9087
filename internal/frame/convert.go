package frame

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/stashapp/stash/pkg/plugin/common/log"

	"github.com/smegmarip/stash-face-detector-plugin/internal/orientation"
)

// IntermediateQuality is the JPEG quality of the NV21 compression stage.
// The precision lost here is accepted.
const IntermediateQuality = 90

// TransportFormat selects the encoding of the converted frame payload
type TransportFormat string

const (
	TransportJPEG TransportFormat = "jpeg"
	TransportPNG  TransportFormat = "png"
)

// ParseTransportFormat maps a setting value to a TransportFormat, defaulting to JPEG
func ParseTransportFormat(value string) TransportFormat {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "png":
		return TransportPNG
	default:
		return TransportJPEG
	}
}

// nv21ToYCbCr wraps an NV21 buffer as a 4:2:0 YCbCr image
func nv21ToYCbCr(nv21 []byte, width, height int) *image.YCbCr {
	img := image.NewYCbCr(image.Rect(0, 0, width, height), image.YCbCrSubsampleRatio420)
	lumaSize := width * height
	copy(img.Y, nv21[:lumaSize])

	vu := nv21[lumaSize:]
	for i := range img.Cb {
		img.Cr[i] = vu[2*i]
		img.Cb[i] = vu[2*i+1]
	}
	return img
}

// CompressNV21 encodes the frame's NV21 representation as JPEG at IntermediateQuality
func (f *Frame) CompressNV21() ([]byte, error) {
	nv21, err := f.NV21()
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	ycbcr := nv21ToYCbCr(nv21, f.Width, f.Height)
	if err := imaging.Encode(buf, ycbcr, imaging.JPEG, imaging.JPEGQuality(IntermediateQuality)); err != nil {
		return nil, fmt.Errorf("failed to compress NV21 frame: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode converts the frame into an upright RGB bitmap: NV21 packing,
// JPEG compression, decode, then rotation by the frame orientation.
func (f *Frame) Decode() (*image.NRGBA, error) {
	compressed, err := f.CompressNV21()
	if err != nil {
		return nil, err
	}

	decoded, err := imaging.Decode(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("failed to decode compressed frame: %w", err)
	}

	log.Tracef("Decoded %dx%d frame (%d compressed bytes), rotating %d degrees",
		f.Width, f.Height, len(compressed), f.Orientation)
	return Rotate(decoded, f.Orientation), nil
}

// Rotate turns img clockwise by deg. Width and height are swapped for 90 and 270.
func Rotate(img image.Image, deg orientation.Degrees) *image.NRGBA {
	// imaging rotates counter-clockwise
	switch deg {
	case orientation.Rotate90:
		return imaging.Rotate270(img)
	case orientation.Rotate180:
		return imaging.Rotate180(img)
	case orientation.Rotate270:
		return imaging.Rotate90(img)
	default:
		return imaging.Clone(img)
	}
}

// EncodeTransport encodes img in the given format and returns it base64 encoded
func EncodeTransport(img image.Image, format TransportFormat, quality int) (string, error) {
	if quality <= 0 || quality > 100 {
		quality = IntermediateQuality
	}

	buf := new(bytes.Buffer)
	var err error
	switch format {
	case TransportPNG:
		err = imaging.Encode(buf, img, imaging.PNG)
	default:
		err = imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode transport image: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
