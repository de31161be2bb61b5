package forensics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/dsp/fourier"
)

// grayscale converts an RGB pixel buffer to a row-major float64 gray plane,
// gray = mean over channels.
func grayscale(pixels []byte, width, height int) [][]float64 {
	gray := make([][]float64, height)
	for y := 0; y < height; y++ {
		row := make([]float64, width)
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			row[x] = (float64(pixels[i]) + float64(pixels[i+1]) + float64(pixels[i+2])) / 3.0
		}
		gray[y] = row
	}
	return gray
}

func flatten(m [][]float64) []float64 {
	out := make([]float64, 0, len(m)*len(m[0]))
	for _, row := range m {
		out = append(out, row...)
	}
	return out
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

func variance(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	m := mean(v)
	sum := 0.0
	for _, x := range v {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(v))
}

func stddev(v []float64) float64 {
	return math.Sqrt(variance(v))
}

// skewness is the third standardized moment of v. Returns 0 if std < 1,
// avoiding a blown-up statistic on near-constant input.
func skewness(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	m := mean(v)
	sd := stddev(v)
	if sd < 1 {
		return 0
	}
	sum := 0.0
	for _, x := range v {
		d := (x - m) / sd
		sum += d * d * d
	}
	return sum / float64(len(v))
}

// percentile returns the p-th percentile (0-100) of v using linear
// interpolation between closest ranks.
func percentile(v []float64, p float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sorted := append([]float64(nil), v...)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	idx := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// histogram256 bins values in [0,255] (rounded to nearest integer) into a
// 256-bucket histogram.
func histogram256(v []float64) [256]int {
	var hist [256]int
	for _, x := range v {
		b := int(math.Round(x))
		if b < 0 {
			b = 0
		}
		if b > 255 {
			b = 255
		}
		hist[b]++
	}
	return hist
}

// shannonEntropy computes the base-2 Shannon entropy of a histogram,
// dropping zero bins before taking the log.
func shannonEntropy(hist []int) float64 {
	total := 0
	for _, f := range hist {
		total += f
	}
	if total == 0 {
		return 0
	}
	entropy := 0.0
	for _, f := range hist {
		if f == 0 {
			continue
		}
		p := float64(f) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// hannWindow returns the n-point Hann window.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := 0; i < n; i++ {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// fft2D runs a separable row-then-column complex 2-D FFT over a square
// real-valued input using gonum's 1-D complex FFT, the same kernel the
// broader retrieval pack reaches for (gonum.org/v1/gonum) rather than a
// hand-rolled transform.
func fft2D(data [][]float64) [][]complex128 {
	s := len(data)
	rowFFT := fourier.NewCmplxFFT(s)

	rows := make([][]complex128, s)
	for y, row := range data {
		in := make([]complex128, s)
		for x, v := range row {
			in[x] = complex(v, 0)
		}
		rows[y] = rowFFT.Coefficients(nil, in)
	}

	colFFT := fourier.NewCmplxFFT(s)
	out := make([][]complex128, s)
	for y := range out {
		out[y] = make([]complex128, s)
	}
	col := make([]complex128, s)
	for x := 0; x < s; x++ {
		for y := 0; y < s; y++ {
			col[y] = rows[y][x]
		}
		res := colFFT.Coefficients(nil, col)
		for y := 0; y < s; y++ {
			out[y][x] = res[y]
		}
	}
	return out
}

// fftShift2D swaps quadrants so the DC component lands at the center, like
// numpy.fft.fftshift.
func fftShift2D(m [][]complex128) [][]complex128 {
	s := len(m)
	half := s / 2
	out := make([][]complex128, s)
	for i := range out {
		out[i] = make([]complex128, s)
	}
	for y := 0; y < s; y++ {
		for x := 0; x < s; x++ {
			ny := (y + half) % s
			nx := (x + half) % s
			out[ny][nx] = m[y][x]
		}
	}
	return out
}

// pearson computes the Pearson correlation coefficient between a and b. If
// either series has std < 0.01 the pair is treated as highly correlated
// (0.95); a non-finite result is treated as 0.
func pearson(a, b []float64) float64 {
	sa, sb := stddev(a), stddev(b)
	if sa < 0.01 || sb < 0.01 {
		return 0.95
	}
	ma, mb := mean(a), mean(b)
	var cov, va, vb float64
	for i := range a {
		da := a[i] - ma
		db := b[i] - mb
		cov += da * db
		va += da * da
		vb += db * db
	}
	denom := math.Sqrt(va * vb)
	if denom == 0 {
		return 0
	}
	r := cov / denom
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
