package export

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Decode reads an image in the named format. The format is never sniffed:
// tga has no magic bytes and registers as a match for any input, so
// image.Decode cannot tell it apart from the others.
func Decode(r io.Reader, format string) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "png":
		img, err = png.Decode(r)
	case "jpg", "jpeg":
		img, err = jpeg.Decode(r)
	case "webp":
		img, err = webp.Decode(r)
	case "bmp":
		img, err = bmp.Decode(r)
	case "tga":
		img, err = tga.Decode(r)
	case "tiff", "tif":
		img, err = tiff.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("export: decode %s: %w", format, err)
	}
	return img, nil
}
