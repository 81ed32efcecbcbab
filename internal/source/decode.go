package source

import (
	"bytes"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	apperrors "github.com/ironsheep/image-stats/internal/errors"
	"github.com/ironsheep/image-stats/internal/exifmeta"
)

// Decoded is a decoded image together with its encoded bytes.
//
// It implements exifmeta.Metadata, reading tags from the original bytes so
// metadata is unaffected by any later resizing of Image.
type Decoded struct {
	Image  image.Image
	Format string // Registered format name: "jpeg", "png", "gif", "tiff", "bmp" or "webp"
	data   []byte
}

// Decode decodes an encoded image. The data slice is retained, not copied.
func Decode(data []byte) (*Decoded, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewDecodeError("failed to decode image", err)
	}
	return &Decoded{Image: img, Format: format, data: data}, nil
}

// Size returns the length of the encoded image in bytes.
func (d *Decoded) Size() int {
	return len(d.data)
}

// RawTags extracts EXIF tags from the encoded bytes. Formats that do not
// carry an EXIF block in a form the extractor reads yield no tags.
func (d *Decoded) RawTags() (exifmeta.RawTags, error) {
	switch d.Format {
	case "jpeg", "tiff":
		return exifmeta.Extract(bytes.NewReader(d.data))
	}
	return exifmeta.RawTags{}, nil
}
