package frame

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/stashapp/stash/pkg/plugin/common/log"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WEBP decoder

	"github.com/smegmarip/stash-face-detector-plugin/internal/orientation"
)

// Still is a decoded still image made upright according to its EXIF orientation
type Still struct {
	Image       *image.NRGBA
	Orientation orientation.Degrees
	Format      string
}

var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// ReadSource reads image bytes from a file path, a file:// URI or an http(s) URL
func ReadSource(source string) ([]byte, error) {
	if source == "" {
		return nil, fmt.Errorf("empty image source")
	}

	u, err := url.Parse(source)
	if err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return fetch(source)
		case "file":
			return os.ReadFile(u.Path)
		}
	}

	return os.ReadFile(source)
}

func fetch(source string) ([]byte, error) {
	log.Debugf("Fetching image: %s", source)

	resp, err := httpClient.Get(source)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch failed: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return data, nil
}

// exifOrientation returns the rotation recorded in the image's EXIF block, or 0
func exifOrientation(data []byte) orientation.Degrees {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return orientation.Rotate0
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return orientation.Rotate0
	}

	value, err := tag.Int(0)
	if err != nil {
		return orientation.Rotate0
	}

	return orientation.FromEXIF(value)
}

// DecodeStill decodes image bytes and rotates the result upright
func DecodeStill(data []byte) (*Still, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	deg := exifOrientation(data)
	log.Debugf("Decoded %s image %dx%d (exif rotation %d)", format, img.Bounds().Dx(), img.Bounds().Dy(), deg)

	return &Still{
		Image:       Rotate(img, deg),
		Orientation: deg,
		Format:      format,
	}, nil
}

// LoadStill reads and decodes a still image from source
func LoadStill(source string) (*Still, error) {
	data, err := ReadSource(source)
	if err != nil {
		return nil, fmt.Errorf("could not load image from %s: %w", source, err)
	}
	return DecodeStill(data)
}
