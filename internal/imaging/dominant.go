package imaging

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// hsvBuckets is the number of equal-width buckets per HSV component.
const hsvBuckets = 10

// BucketKey quantizes a pixel's HSV representation into a single integer.
//
// Hue, saturation and value are each scaled to [0,1] and split into ten
// buckets (0-9, with 1.0 folded into bucket 9). The key is
//
//	hue*1000 + saturation*10 + value
func BucketKey(p Pixel) int {
	c := colorful.Color{R: float64(p.R) / 255, G: float64(p.G) / 255, B: float64(p.B) / 255}
	h, s, v := c.Hsv()
	return bucket(h/360)*1000 + bucket(s)*10 + bucket(v)
}

func bucket(c float64) int {
	b := int(c * hsvBuckets)
	if b < 0 {
		return 0
	}
	if b >= hsvBuckets {
		return hsvBuckets - 1
	}
	return b
}

// DominantPixel returns the first pixel, in scan order, of the most populated
// HSV bucket. When several buckets share the highest count, the bucket seen
// first during the scan wins. The second result is false for an empty buffer.
func DominantPixel(buf PixelBuffer) (Pixel, bool) {
	if len(buf) == 0 {
		return Pixel{}, false
	}

	counts := make(map[int]int)
	first := make(map[int]int)
	var order []int

	for i, p := range buf {
		k := BucketKey(p)
		if _, seen := first[k]; !seen {
			first[k] = i
			order = append(order, k)
		}
		counts[k]++
	}

	best := order[0]
	for _, k := range order[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return buf[first[best]], true
}

// Dominant returns the normalized RGB of DominantPixel. An empty buffer
// yields black.
func Dominant(buf PixelBuffer) [3]float64 {
	p, ok := DominantPixel(buf)
	if !ok {
		return [3]float64{}
	}
	return p.RGB()
}
