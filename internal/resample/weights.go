package resample

import "math"

// fracBits is the fixed-point precision of a weight. A full weight is
// 1 << fracBits.
const fracBits = 14

const one = 1 << fracBits

// sample holds the contributions to one destination index: weights[i]
// applies to source index start+i.
type sample struct {
	start   int
	weights []int32
}

// computeWeights builds the weight table for one axis resized from srcLen
// to dstLen. Weights are normalized so each table sums to exactly one.
func computeWeights(srcLen, dstLen int, f *Filter) []sample {
	scale := float64(dstLen) / float64(srcLen)
	samples := make([]sample, dstLen)
	fw := make([]float64, 0, 16)

	if scale < 1 {
		radius := f.Support / scale
		for x := range samples {
			center := float64(x) / scale
			left, right := bounds(center, radius, srcLen)
			fw = fw[:0]
			for i := left; i <= right; i++ {
				fw = append(fw, f.Kernel((float64(i)-center)*scale))
			}
			samples[x] = normalize(left, fw, center, srcLen)
		}
		return samples
	}

	for x := range samples {
		center := float64(x) / scale
		left, right := bounds(center, f.Support, srcLen)
		fw = fw[:0]
		for i := left; i <= right; i++ {
			fw = append(fw, f.Kernel(float64(i)-center))
		}
		samples[x] = normalize(left, fw, center, srcLen)
	}
	return samples
}

func bounds(center, radius float64, n int) (int, int) {
	left := int(math.Round(center - radius))
	right := int(math.Round(center + radius))
	return max(left, 0), min(right, n-1)
}

// normalize converts fw to fixed point. The rounding residue goes to the
// largest weight so a constant signal is preserved exactly. A kernel that
// sums to zero degenerates to the nearest source sample.
func normalize(start int, fw []float64, center float64, n int) sample {
	var sum float64
	for _, w := range fw {
		sum += w
	}
	if len(fw) == 0 || math.Abs(sum) < 1e-12 {
		nearest := min(max(int(math.Round(center)), 0), n-1)
		return sample{start: nearest, weights: []int32{one}}
	}

	weights := make([]int32, len(fw))
	var total int32
	peak := 0
	for i, w := range fw {
		weights[i] = int32(math.Round(w / sum * one))
		total += weights[i]
		if weights[i] > weights[peak] {
			peak = i
		}
	}
	weights[peak] += one - total
	return sample{start: start, weights: weights}
}
