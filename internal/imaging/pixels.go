package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// AlphaThreshold is the minimum alpha for a pixel to count in color statistics.
const AlphaThreshold = 128

// Pixel is a non-premultiplied 8-bit RGBA sample.
type Pixel struct {
	R, G, B, A uint8
}

// RGB returns the color channels normalized to [0,1].
func (p Pixel) RGB() [3]float64 {
	return [3]float64{float64(p.R) / 255, float64(p.G) / 255, float64(p.B) / 255}
}

func (p Pixel) channel(ch int) uint8 {
	switch ch {
	case 0:
		return p.R
	case 1:
		return p.G
	default:
		return p.B
	}
}

// PixelBuffer is a flat sequence of pixels in row-major scan order.
type PixelBuffer []Pixel

// FilterValid flattens img into scan order and keeps only the pixels whose
// alpha is at least AlphaThreshold.
//
// Images that are not already *image.NRGBA are converted first, so the channel
// values are always straight (non-premultiplied) 8-bit samples. Rows are
// scanned in parallel and joined back in order.
func FilterValid(img image.Image) PixelBuffer {
	src := toNRGBA(img)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}

	rows := make([]PixelBuffer, h)
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			line := src.Pix[off : off+w*4]
			row := make(PixelBuffer, 0, w)
			for i := 0; i < len(line); i += 4 {
				if line[i+3] < AlphaThreshold {
					continue
				}
				row = append(row, Pixel{R: line[i], G: line[i+1], B: line[i+2], A: line[i+3]})
			}
			rows[y] = row
		}
	})

	total := 0
	for _, r := range rows {
		total += len(r)
	}
	if total == 0 {
		return nil
	}

	buf := make(PixelBuffer, 0, total)
	for _, r := range rows {
		buf = append(buf, r...)
	}
	return buf
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	return imaging.Clone(img)
}
