package loader

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/Carmen-Shannon/oxy-sword/common"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage is returned when texture data is not an image format the loader can decode.
var ErrUnsupportedImage = errors.New("unsupported image format")

// supportedExtensions lists the sniffed file types with a registered image decoder.
var supportedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"bmp":  true,
	"webp": true,
}

// DecodeImage sniffs, decodes, and converts raw image bytes into RGBA8 texture data
// with a full mip chain down to 1x1.
//
// Parameters:
//   - data: the encoded image (PNG, JPEG, BMP, or WebP)
//
// Returns:
//   - *common.TextureStagingData: the base image followed by its mips
//   - error: an error wrapping ErrUnsupportedImage for unknown content, or a decode error
func DecodeImage(data []byte) (*common.TextureStagingData, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || !supportedExtensions[kind.Extension] {
		return nil, fmt.Errorf("sniffed type %q: %w", kind.MIME.Value, ErrUnsupportedImage)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %w", kind.Extension, err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("image has no pixels: %w", ErrUnsupportedImage)
	}

	base := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(base, base.Bounds(), img, bounds.Min, draw.Src)

	return &common.TextureStagingData{Levels: buildMipChain(base)}, nil
}

// MipLevelCount returns the number of levels in a full mip chain for the given size.
//
// Parameters:
//   - width, height: base level dimensions
//
// Returns:
//   - int: floor(log2(max(width, height))) + 1
func MipLevelCount(width, height int) int {
	n := 1
	for size := max(width, height); size > 1; size >>= 1 {
		n++
	}
	return n
}

// buildMipChain halves the image with bilinear filtering until both sides reach 1.
func buildMipChain(base *image.NRGBA) []common.ImageLevel {
	w, h := base.Bounds().Dx(), base.Bounds().Dy()
	levels := make([]common.ImageLevel, 0, MipLevelCount(w, h))
	levels = append(levels, toLevel(base))

	prev := base
	for w > 1 || h > 1 {
		w, h = max(w/2, 1), max(h/2, 1)
		next := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(next, next.Bounds(), prev, prev.Bounds(), draw.Src, nil)
		levels = append(levels, toLevel(next))
		prev = next
	}
	return levels
}

func toLevel(img *image.NRGBA) common.ImageLevel {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	pix := img.Pix
	if img.Stride != w*4 {
		pix = make([]byte, 0, w*h*4)
		for y := range h {
			pix = append(pix, img.Pix[y*img.Stride:y*img.Stride+w*4]...)
		}
	}
	return common.ImageLevel{Pixels: pix, Width: uint32(w), Height: uint32(h)}
}
