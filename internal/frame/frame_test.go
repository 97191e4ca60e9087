package frame

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smegmarip/stash-face-detector-plugin/internal/orientation"
)

// solidFrame builds a planar frame filled with a single YUV value
func solidFrame(width, height int, y, u, v byte) *Frame {
	cw, ch := (width+1)/2, (height+1)/2
	return &Frame{
		Width:  width,
		Height: height,
		Layout: LayoutPlanar,
		Planes: [][]byte{
			bytes.Repeat([]byte{y}, width*height),
			bytes.Repeat([]byte{u}, cw*ch),
			bytes.Repeat([]byte{v}, cw*ch),
		},
	}
}

func TestParseLayout(t *testing.T) {
	tests := []struct {
		name     string
		expected Layout
		wantErr  bool
	}{
		{"", LayoutPlanar, false},
		{"planar", LayoutPlanar, false},
		{"semiplanar", LayoutSemiPlanar, false},
		{"nv12", LayoutSemiPlanar, false},
		{"nv21", LayoutNV21, false},
		{"rgb", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := ParseLayout(tt.name)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnsupportedLayout))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, layout)
		})
	}
}

func TestValidate_ShortPlanes(t *testing.T) {
	tests := []struct {
		name  string
		frame *Frame
	}{
		{
			name: "short luma",
			frame: &Frame{Width: 4, Height: 4, Layout: LayoutPlanar, Planes: [][]byte{
				make([]byte, 15), make([]byte, 4), make([]byte, 4),
			}},
		},
		{
			name: "short chroma",
			frame: &Frame{Width: 4, Height: 4, Layout: LayoutPlanar, Planes: [][]byte{
				make([]byte, 16), make([]byte, 4), make([]byte, 3),
			}},
		},
		{
			name: "short interleaved chroma",
			frame: &Frame{Width: 4, Height: 4, Layout: LayoutSemiPlanar, Planes: [][]byte{
				make([]byte, 16), make([]byte, 7),
			}},
		},
		{
			name: "missing plane",
			frame: &Frame{Width: 4, Height: 4, Layout: LayoutPlanar, Planes: [][]byte{
				make([]byte, 16),
			}},
		},
		{
			name:  "zero dimensions",
			frame: &Frame{Width: 0, Height: 4},
		},
		{
			name: "dimensions overflow plane sizes",
			frame: &Frame{Width: 1 << 32, Height: 1 << 32, Layout: LayoutNV21, Planes: [][]byte{
				{}, {},
			}},
		},
		{
			name:  "pixel count above limit",
			frame: &Frame{Width: MaxPixels/2 + 1, Height: 2, Layout: LayoutNV21, Planes: [][]byte{{}, {}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.frame.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedFrame))
		})
	}
}

func TestNV21_OversizedFrameIsMalformed(t *testing.T) {
	f := &Frame{Width: 1 << 32, Height: 1 << 32, Layout: LayoutNV21, Planes: [][]byte{{}, {}}}

	assert.NotPanics(t, func() {
		_, err := f.NV21()
		assert.True(t, errors.Is(err, ErrMalformedFrame))
	})
}

func TestValidate_OddDimensions(t *testing.T) {
	f := solidFrame(5, 3, 16, 128, 128)
	assert.NoError(t, f.Validate())
}

func TestNV21_VBeforeU(t *testing.T) {
	f := &Frame{
		Width:  2,
		Height: 2,
		Layout: LayoutPlanar,
		Planes: [][]byte{{1, 2, 3, 4}, {0xAA}, {0xBB}},
	}

	nv21, err := f.NV21()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 0xBB, 0xAA}, nv21)
}

func TestNV21_SwapsSemiPlanar(t *testing.T) {
	f := &Frame{
		Width:  4,
		Height: 2,
		Layout: LayoutSemiPlanar,
		Planes: [][]byte{make([]byte, 8), {0x10, 0x20, 0x11, 0x21}},
	}

	nv21, err := f.NV21()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x20, 0x10, 0x21, 0x11}, nv21[8:])
}

func TestNV21_PassesThroughNV21(t *testing.T) {
	f := &Frame{
		Width:  2,
		Height: 2,
		Layout: LayoutNV21,
		Planes: [][]byte{{9, 9, 9, 9}, {0x30, 0x40, 0xFF}},
	}

	nv21, err := f.NV21()
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9, 9, 9, 0x30, 0x40}, nv21)
}

func TestDecode_ColorOrder(t *testing.T) {
	// Strong red: high V (Cr), low U (Cb)
	f := solidFrame(16, 16, 82, 90, 240)

	img, err := f.Decode()
	require.NoError(t, err)

	c := color.NRGBAModel.Convert(img.At(8, 8)).(color.NRGBA)
	assert.Greater(t, int(c.R), int(c.B)+100, "red frame decoded as %+v", c)
}

func TestDecode_RotationSwapsDimensions(t *testing.T) {
	tests := []struct {
		deg            orientation.Degrees
		expectedWidth  int
		expectedHeight int
	}{
		{orientation.Rotate0, 32, 16},
		{orientation.Rotate90, 16, 32},
		{orientation.Rotate180, 32, 16},
		{orientation.Rotate270, 16, 32},
	}

	for _, tt := range tests {
		f := solidFrame(32, 16, 128, 128, 128)
		f.Orientation = tt.deg

		img, err := f.Decode()
		require.NoError(t, err)
		assert.Equal(t, tt.expectedWidth, img.Bounds().Dx(), "rotation %d", tt.deg)
		assert.Equal(t, tt.expectedHeight, img.Bounds().Dy(), "rotation %d", tt.deg)
	}
}

func TestDecode_Malformed(t *testing.T) {
	f := solidFrame(16, 16, 0, 0, 0)
	f.Planes[0] = f.Planes[0][:100]

	_, err := f.Decode()
	assert.True(t, errors.Is(err, ErrMalformedFrame))
}

func TestRotate_Clockwise(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	src.Set(1, 0, color.NRGBA{B: 255, A: 255})

	// clockwise quarter turn puts the left pixel on top
	rotated := Rotate(src, orientation.Rotate90)
	require.Equal(t, image.Rect(0, 0, 1, 2), rotated.Bounds())
	assert.Equal(t, uint8(255), rotated.NRGBAAt(0, 0).R)
	assert.Equal(t, uint8(255), rotated.NRGBAAt(0, 1).B)
}

func TestEncodeTransport(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))

	for _, format := range []TransportFormat{TransportJPEG, TransportPNG} {
		t.Run(string(format), func(t *testing.T) {
			payload, err := EncodeTransport(img, format, 90)
			require.NoError(t, err)

			raw, err := base64.StdEncoding.DecodeString(payload)
			require.NoError(t, err)

			decoded, name, err := image.Decode(bytes.NewReader(raw))
			require.NoError(t, err)
			assert.Equal(t, string(format), name)
			assert.Equal(t, 8, decoded.Bounds().Dx())
			assert.Equal(t, 4, decoded.Bounds().Dy())
		})
	}
}

func TestParseTransportFormat(t *testing.T) {
	assert.Equal(t, TransportPNG, ParseTransportFormat("PNG"))
	assert.Equal(t, TransportJPEG, ParseTransportFormat("jpeg"))
	assert.Equal(t, TransportJPEG, ParseTransportFormat("gif"))
	assert.Equal(t, TransportJPEG, ParseTransportFormat(""))
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewNRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func TestLoadStill_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "still.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 12, 7), 0o644))

	still, err := LoadStill(path)
	require.NoError(t, err)
	assert.Equal(t, "png", still.Format)
	assert.Equal(t, orientation.Rotate0, still.Orientation)
	assert.Equal(t, 12, still.Image.Bounds().Dx())

	still, err = LoadStill("file://" + path)
	require.NoError(t, err)
	assert.Equal(t, 7, still.Image.Bounds().Dy())
}

func TestLoadStill_HTTP(t *testing.T) {
	data := encodePNG(t, 3, 3)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/face.png" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(data)
	}))
	defer server.Close()

	still, err := LoadStill(server.URL + "/face.png")
	require.NoError(t, err)
	assert.Equal(t, 3, still.Image.Bounds().Dx())

	_, err = LoadStill(server.URL + "/missing.png")
	assert.Error(t, err)
}

func TestLoadStill_Errors(t *testing.T) {
	_, err := LoadStill("")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "garbage.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))
	_, err = LoadStill(path)
	assert.Error(t, err)
}
