package imaging

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"arithmetic", Arithmetic},
		{"harmonic", Harmonic},
		{"geometric", Geometric},
		{"", Arithmetic},
		{"median", Arithmetic},
		{"Harmonic", Arithmetic},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseMethod(tt.in), "input %q", tt.in)
	}
}

func TestAverage_UniformChannelsAreExact(t *testing.T) {
	for _, v := range []uint8{0, 1, 37, 128, 254, 255} {
		buf := repeat(Pixel{v, 255 - v, v / 3, 255}, 97)
		want := [3]float64{float64(v) / 255, float64(255-v) / 255, float64(v/3) / 255}

		for _, m := range []Method{Arithmetic, Harmonic, Geometric} {
			assert.Equal(t, want, Average(buf, m), "value %d method %s", v, m)
		}
	}
}

func TestAverage_MeanInequality(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(200)
		buf := make(PixelBuffer, n)
		for i := range buf {
			buf[i] = Pixel{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255}
		}

		a := Average(buf, Arithmetic)
		g := Average(buf, Geometric)
		h := Average(buf, Harmonic)
		for ch := 0; ch < 3; ch++ {
			assert.LessOrEqual(t, h[ch], g[ch]+1e-12, "trial %d channel %d", trial, ch)
			assert.LessOrEqual(t, g[ch], a[ch]+1e-12, "trial %d channel %d", trial, ch)
			for _, v := range []float64{a[ch], g[ch], h[ch]} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		}
	}
}

func TestAverage_StrictWhenValuesDiffer(t *testing.T) {
	buf := PixelBuffer{{10, 0, 0, 255}, {250, 0, 0, 255}}

	a := Average(buf, Arithmetic)[0]
	g := Average(buf, Geometric)[0]
	h := Average(buf, Harmonic)[0]

	assert.Less(t, h, g)
	assert.Less(t, g, a)
	assert.InDelta(t, 130.0/255, a, 1e-12)
	assert.InDelta(t, 50.0/255, g, 1e-9) // sqrt(10*250)
	assert.InDelta(t, (2.0/(0.1+0.004))/255, h, 1e-9)
}

func TestAverage_ZeroChannelIsFloored(t *testing.T) {
	buf := PixelBuffer{{0, 100, 100, 255}, {200, 100, 100, 255}}

	h := Average(buf, Harmonic)
	g := Average(buf, Geometric)

	require.False(t, math.IsNaN(h[0]), "harmonic produced NaN")
	assert.InDelta(t, 0, h[0], 1e-6)
	assert.InDelta(t, 0, g[0], 1e-3)
	assert.Equal(t, 100.0/255, h[1])
	assert.Equal(t, 100.0/255, g[2])
}

func TestAverage_UnknownMethodFallsBack(t *testing.T) {
	buf := PixelBuffer{{10, 20, 30, 255}, {50, 60, 70, 255}}
	assert.Equal(t, Average(buf, Arithmetic), Average(buf, Method("mode")))
}

func TestAverage_Empty(t *testing.T) {
	assert.Equal(t, [3]float64{}, Average(nil, Harmonic))
}
