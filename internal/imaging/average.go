package imaging

import "math"

// Method selects the statistic used to average color channels.
type Method string

const (
	Arithmetic Method = "arithmetic"
	Harmonic   Method = "harmonic"
	Geometric  Method = "geometric"
)

// meanFloor keeps harmonic and geometric means away from 1/0 and log(0).
const meanFloor = 1e-8

// ParseMethod resolves a method name. Anything unrecognized, including the
// empty string, is arithmetic.
func ParseMethod(name string) Method {
	switch Method(name) {
	case Harmonic:
		return Harmonic
	case Geometric:
		return Geometric
	default:
		return Arithmetic
	}
}

// Average computes the per-channel mean of buf under method and returns the
// result normalized to [0,1].
//
// For every channel harmonic <= geometric <= arithmetic. A channel whose
// values are all identical yields exactly v/255 under every method. An empty
// buffer yields black.
func Average(buf PixelBuffer, method Method) [3]float64 {
	var out [3]float64
	if len(buf) == 0 {
		return out
	}

	method = ParseMethod(string(method))
	for ch := 0; ch < 3; ch++ {
		lo, hi := channelRange(buf, ch)
		if lo == hi {
			out[ch] = float64(lo) / 255
			continue
		}

		var v float64
		switch method {
		case Harmonic:
			v = harmonicMean(buf, ch)
		case Geometric:
			v = geometricMean(buf, ch)
		default:
			v = arithmeticMean(buf, ch)
		}
		out[ch] = clampUnit(v / 255)
	}
	return out
}

func channelRange(buf PixelBuffer, ch int) (lo, hi uint8) {
	lo, hi = 255, 0
	for _, p := range buf {
		v := p.channel(ch)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func arithmeticMean(buf PixelBuffer, ch int) float64 {
	var sum float64
	for _, p := range buf {
		sum += float64(p.channel(ch))
	}
	return sum / float64(len(buf))
}

func harmonicMean(buf PixelBuffer, ch int) float64 {
	var sum float64
	for _, p := range buf {
		sum += 1 / math.Max(float64(p.channel(ch)), meanFloor)
	}
	return 1 / (sum / float64(len(buf)))
}

func geometricMean(buf PixelBuffer, ch int) float64 {
	var sum float64
	for _, p := range buf {
		sum += math.Log(math.Max(float64(p.channel(ch)), meanFloor))
	}
	return math.Exp(sum / float64(len(buf)))
}
