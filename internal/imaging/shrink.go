package imaging

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

// DefaultMaxDimension bounds the longer image side before per-pixel statistics.
const DefaultMaxDimension = 512

// DefaultFilter is the resampling filter used by Shrink when none is named.
const DefaultFilter = "box"

var filters = map[string]imaging.ResampleFilter{
	"box":        imaging.Box,
	"linear":     imaging.Linear,
	"catmullrom": imaging.CatmullRom,
	"lanczos":    imaging.Lanczos,
}

// ValidFilter reports whether name is a known resampling filter.
func ValidFilter(name string) bool {
	_, ok := filters[strings.ToLower(name)]
	return ok
}

// FilterNames lists the accepted resampling filter names.
func FilterNames() []string {
	return []string{"box", "linear", "catmullrom", "lanczos"}
}

// ShrinkSize computes the dimensions Shrink would produce for a w x h image.
//
// If neither side exceeds maxDim the input size is returned unchanged. A
// maxDim <= 0 selects DefaultMaxDimension.
func ShrinkSize(w, h, maxDim int) (int, int) {
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	if w >= h {
		return maxDim, scaled(h, maxDim, w)
	}
	return scaled(w, maxDim, h), maxDim
}

func scaled(short, maxDim, long int) int {
	n := int(math.Round(float64(short) * float64(maxDim) / float64(long)))
	if n < 1 {
		n = 1
	}
	return n
}

// Shrink bounds img so that its longer side is at most maxDim, preserving the
// aspect ratio. Images already within the bound are returned as is; nothing
// is ever upscaled.
//
// filter names one of FilterNames; an empty or unknown name uses
// DefaultFilter, which averages source areas when downscaling.
func Shrink(img image.Image, maxDim int, filter string) image.Image {
	b := img.Bounds()
	w, h := ShrinkSize(b.Dx(), b.Dy(), maxDim)
	if w == b.Dx() && h == b.Dy() {
		return img
	}

	f, ok := filters[strings.ToLower(filter)]
	if !ok {
		f = filters[DefaultFilter]
	}
	return imaging.Resize(img, w, h, f)
}

// ShrinkDescription is a short human-readable summary of a resize, for logs.
func ShrinkDescription(from, to image.Rectangle) string {
	return fmt.Sprintf("%dx%d -> %dx%d", from.Dx(), from.Dy(), to.Dx(), to.Dy())
}
