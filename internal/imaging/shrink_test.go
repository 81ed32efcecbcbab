package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShrinkSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h, maxDim int
		wantW, wantH int
	}{
		{"within bound", 300, 200, 512, 300, 200},
		{"exactly at bound", 512, 512, 512, 512, 512},
		{"landscape", 1024, 768, 512, 512, 384},
		{"portrait", 600, 1200, 512, 256, 512},
		{"rounds shorter side", 1000, 333, 512, 512, 170},
		{"thin strip keeps one pixel", 10000, 2, 512, 512, 1},
		{"default bound", 2048, 1024, 0, 512, 256},
		{"square", 900, 900, 100, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ShrinkSize(tt.w, tt.h, tt.maxDim)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestShrinkSize_Properties(t *testing.T) {
	for w := 1; w <= 1500; w += 37 {
		for h := 1; h <= 1500; h += 41 {
			nw, nh := ShrinkSize(w, h, 512)
			assert.LessOrEqual(t, nw, w)
			assert.LessOrEqual(t, nh, h)
			if w <= 512 && h <= 512 {
				assert.Equal(t, w, nw)
				assert.Equal(t, h, nh)
				continue
			}
			assert.Equal(t, 512, max(nw, nh))

			ideal := float64(min(w, h)) * 512 / float64(max(w, h))
			assert.LessOrEqual(t, math.Abs(float64(min(nw, nh))-ideal), 1.0, "%dx%d -> %dx%d", w, h, nw, nh)
		}
	}
}

func TestShrink_NoOpReturnsSameImage(t *testing.T) {
	img := createInMemoryImage(64, 32, color.NRGBA{1, 2, 3, 255})
	assert.Same(t, img.(*image.NRGBA), Shrink(img, 512, "").(*image.NRGBA))
}

func TestShrink_Downscales(t *testing.T) {
	img := createInMemoryImage(1024, 256, color.NRGBA{200, 100, 50, 255})

	for _, f := range append(FilterNames(), "unknown") {
		out := Shrink(img, 512, f)
		assert.Equal(t, 512, out.Bounds().Dx(), "filter %s", f)
		assert.Equal(t, 128, out.Bounds().Dy(), "filter %s", f)

		// A flat image stays flat under every filter.
		r, g, b, a := out.At(100, 50).RGBA()
		assert.Equal(t, []uint32{200, 100, 50, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8}, "filter %s", f)
	}
}

func TestValidFilter(t *testing.T) {
	assert.True(t, ValidFilter("box"))
	assert.True(t, ValidFilter("Lanczos"))
	assert.False(t, ValidFilter("bicubic"))
}
