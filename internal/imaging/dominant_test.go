package imaging

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketKey(t *testing.T) {
	tests := []struct {
		name string
		p    Pixel
		want int
	}{
		{"black", Pixel{0, 0, 0, 255}, 0},
		{"white", Pixel{255, 255, 255, 255}, 9},
		{"red", Pixel{255, 0, 0, 255}, 99},
		{"green", Pixel{0, 255, 0, 255}, 3099},
		{"blue", Pixel{0, 0, 255, 255}, 6099},
		{"dark red", Pixel{200, 0, 0, 255}, 97},
		{"gray", Pixel{128, 128, 128, 255}, 5},
		// hue is exactly 144 degrees, so it lands in bucket 4 rather than 3
		{"hue on bucket edge", Pixel{0, 5, 2, 255}, 4090},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BucketKey(tt.p))
		})
	}
}

func TestDominant_Majority(t *testing.T) {
	buf := append(repeat(Pixel{200, 0, 0, 255}, 9), Pixel{0, 200, 0, 255})
	assert.Equal(t, [3]float64{200.0 / 255, 0, 0}, Dominant(buf))
}

func TestDominant_ReturnsFirstPixelOfBucket(t *testing.T) {
	// Both reds land in the same bucket; the first one seen is reported.
	buf := PixelBuffer{
		{0, 0, 255, 255},
		{250, 5, 5, 255},
		{255, 0, 0, 255},
		{252, 2, 2, 255},
	}

	p, ok := DominantPixel(buf)
	require.True(t, ok)
	assert.Equal(t, Pixel{250, 5, 5, 255}, p)
}

func TestDominant_TieGoesToFirstSeenBucket(t *testing.T) {
	green := Pixel{0, 255, 0, 255}
	blue := Pixel{0, 0, 255, 255}

	p, _ := DominantPixel(PixelBuffer{green, blue, blue, green})
	assert.Equal(t, green, p)

	p, _ = DominantPixel(PixelBuffer{blue, green, green, blue})
	assert.Equal(t, blue, p)
}

func TestDominant_IsAlwaysAnInputPixel(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	buf := make(PixelBuffer, 500)
	for i := range buf {
		buf[i] = Pixel{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255}
	}

	got := Dominant(buf)
	found := false
	for _, p := range buf {
		if p.RGB() == got {
			found = true
			break
		}
	}
	assert.True(t, found, "dominant %v is not one of the input pixels", got)
}

func TestDominant_Empty(t *testing.T) {
	_, ok := DominantPixel(nil)
	assert.False(t, ok)
	assert.Equal(t, [3]float64{}, Dominant(nil))
}
