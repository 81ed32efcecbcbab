package imaging

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AverageColor is the channel-wise average of the valid pixels of an image.
type AverageColor struct {
	RGB    [3]float64 `json:"rgb"`    // Normalized components in [0,1]
	Hex    string     `json:"hex"`    // Lowercase "#rrggbb"
	Method Method     `json:"method"` // Method that produced RGB
}

// DominantColor is the representative pixel of the most populated HSV bucket.
//
// RGB is always one of the input pixels divided by 255, never a bucket centroid.
type DominantColor struct {
	RGB [3]float64 `json:"rgb"`
	Hex string     `json:"hex"`
}

// ColorResult bundles the color statistics of one image.
type ColorResult struct {
	AvgColor      AverageColor  `json:"avg_color"`
	DominantColor DominantColor `json:"dominant_color"`
}

// Analyze computes the average and dominant colors of buf.
//
// It returns nil when buf is empty, which callers report as "no color data".
func Analyze(buf PixelBuffer, method Method) *ColorResult {
	if len(buf) == 0 {
		return nil
	}

	method = ParseMethod(string(method))
	avg := Average(buf, method)
	dom := Dominant(buf)

	return &ColorResult{
		AvgColor: AverageColor{
			RGB:    avg,
			Hex:    Hex(avg),
			Method: method,
		},
		DominantColor: DominantColor{
			RGB: dom,
			Hex: Hex(dom),
		},
	}
}

// Hex formats a normalized RGB triple as a lowercase "#rrggbb" string.
//
// Components are scaled to 0-255 and rounded to the nearest integer. Values
// outside [0,1] are clamped so the result always has exactly six hex digits.
func Hex(rgb [3]float64) string {
	return fmt.Sprintf("#%02x%02x%02x", to8(rgb[0]), to8(rgb[1]), to8(rgb[2]))
}

// ParseHex decodes a "#rrggbb" string into a normalized RGB triple.
// The leading '#' is optional and hex digits are case-insensitive.
func ParseHex(s string) ([3]float64, error) {
	var rgb [3]float64
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return rgb, fmt.Errorf("invalid hex color %q: must be 6 hex digits", s)
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return rgb, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		rgb[i] = float64(v) / 255
	}
	return rgb, nil
}

func to8(c float64) uint8 {
	if math.IsNaN(c) || c <= 0 {
		return 0
	}
	if c >= 1 {
		return 255
	}
	return uint8(math.Round(c * 255))
}

func clampUnit(c float64) float64 {
	switch {
	case math.IsNaN(c) || c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}
