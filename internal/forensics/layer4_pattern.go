package forensics

import (
	"bytes"
	"fmt"
	"math"

	"github.com/klauspost/compress/flate"

	"github.com/humanmark/forensic/internal/imaging"
)

const compressibilityDefault = 0.5

// Pattern scores the pattern/semantic layer: texture regularity,
// frequency-domain statistics, channel correlation, histogram smoothness,
// and compressibility.
func Pattern(img *imaging.DecodedImage) LayerReport {
	var (
		score    float64
		findings []string
		details  = map[string]Detail{}
	)

	gray := grayscale(img.Pixels, img.Width, img.Height)

	if img.Width >= 64 && img.Height >= 64 {
		similarity, texVariance := textureStats(gray, img.Width, img.Height)
		details["texture_similarity"] = Real(similarity)
		details["texture_variance"] = Real(texVariance)
		switch {
		case similarity > 0.85:
			score += 30
			findings = append(findings, "High texture similarity (repetitive patterns)")
		case similarity > 0.70:
			score += 15
			findings = append(findings, "Moderate texture similarity")
		}
		if texVariance < 100 {
			score += 20
			findings = append(findings, "Low texture variance")
		}

		highFreq, flatness := frequencyDomain(gray, img.Width, img.Height)
		details["high_freq_ratio"] = Real(highFreq)
		details["spectral_flatness"] = Real(flatness)
		switch {
		case highFreq < 0.02:
			score += 30
			findings = append(findings, "Abnormally low high-frequency content")
		case highFreq < 0.05:
			score += 15
			findings = append(findings, "Limited high-frequency detail")
		}
		switch {
		case flatness > 0.7:
			score += 25
			findings = append(findings, "Flat frequency spectrum (AI fingerprint)")
		case flatness > 0.5:
			score += 10
			findings = append(findings, "Relatively flat spectrum")
		}
	}

	avgCorr := channelCorrelation(img.Pixels, img.Width, img.Height)
	details["avg_channel_correlation"] = Real(avgCorr)
	switch {
	case avgCorr > 0.92:
		score += 25
		findings = append(findings, "Very high channel correlation")
	case avgCorr > 0.85:
		score += 15
		findings = append(findings, "High channel correlation")
	}

	smoothness, uniqueCount := histogramStats(flatten(gray))
	details["histogram_smoothness"] = Real(smoothness)
	details["unique_bin_count"] = Int(uniqueCount)
	if smoothness > 0.9 {
		score += 20
		findings = append(findings, "Unnaturally smooth histogram")
	}
	if uniqueCount < 200 {
		score += 15
		findings = append(findings, fmt.Sprintf("Limited value range (%d/256)", uniqueCount))
	}

	compressibility := compressibilityRatio(img.Pixels, img.Width, img.Height)
	details["compressibility"] = Real(compressibility)
	if compressibility > 0.85 {
		score += 15
		findings = append(findings, "High data redundancy")
	}

	if len(findings) == 0 {
		findings = append(findings, "Pattern analysis within normal range")
	}

	return LayerReport{
		Name:       "semantic_analysis",
		Score:      clampScore(score),
		Confidence: clampUnit(0.55+score/180, 0.95),
		Findings:   findings,
		Details:    details,
	}
}

// textureStats partitions gray into disjoint 32x32 blocks and reports how
// uniform the blocks' local statistics are to each other.
func textureStats(gray [][]float64, width, height int) (similarity, texVariance float64) {
	var means, stds []float64
	for y := 0; y+32 <= height; y += 32 {
		for x := 0; x+32 <= width; x += 32 {
			block := make([]float64, 0, 1024)
			for py := y; py < y+32; py++ {
				for px := x; px < x+32; px++ {
					block = append(block, gray[py][px])
				}
			}
			means = append(means, mean(block))
			stds = append(stds, stddev(block))
		}
	}
	if len(means) < 4 {
		return 0.5, 100
	}
	m := mean(stds)
	similarity = 1 - stddev(stds)/(m+1)
	if similarity < 0 {
		similarity = 0
	}
	if similarity > 1 {
		similarity = 1
	}
	texVariance = variance(means)
	return similarity, texVariance
}

// frequencyDomain windows and transforms the centered square crop of gray
// and reports the high-frequency energy ratio and spectral flatness of the
// log-magnitude spectrum.
func frequencyDomain(gray [][]float64, width, height int) (highFreq, flatness float64) {
	s := width
	if height < s {
		s = height
	}
	if s > 256 {
		s = 256
	}
	if s < 2 {
		return 0, 0
	}

	top := height/2 - s/2
	left := width/2 - s/2

	window := hannWindow(s)
	crop := make([][]float64, s)
	for y := 0; y < s; y++ {
		row := make([]float64, s)
		for x := 0; x < s; x++ {
			row[x] = gray[top+y][left+x] * window[y] * window[x]
		}
		crop[y] = row
	}

	spectrum := fftShift2D(fft2D(crop))
	m := make([][]float64, s)
	for y := 0; y < s; y++ {
		row := make([]float64, s)
		for x := 0; x < s; x++ {
			row[x] = math.Log(cmplxAbs(spectrum[y][x]) + 1)
		}
		m[y] = row
	}

	total := 0.0
	var positive []float64
	var highSum float64
	center := float64(s) / 2
	threshold := 0.35 * float64(s)
	for y := 0; y < s; y++ {
		for x := 0; x < s; x++ {
			v := m[y][x]
			total += v
			if v > 0 {
				positive = append(positive, v)
			}
			dx := float64(x) - center
			dy := float64(y) - center
			if math.Sqrt(dx*dx+dy*dy) > threshold {
				highSum += v
			}
		}
	}
	highFreq = highSum / (total + 1)

	if len(positive) == 0 {
		return highFreq, 0
	}
	logSum := 0.0
	for _, v := range positive {
		logSum += math.Log(v + 1e-10)
	}
	geoMean := math.Exp(logSum / float64(len(positive)))
	arithMean := mean(positive)
	flatness = geoMean / (arithMean + 1e-10)
	if flatness > 1.0 {
		flatness = 1.0
	}
	return highFreq, flatness
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// channelCorrelation subsamples each channel on a stride proportional to
// image size and reports the average absolute Pearson correlation across
// the three channel pairs.
func channelCorrelation(pixels []byte, width, height int) float64 {
	minDim := width
	if height < minDim {
		minDim = height
	}
	stride := minDim / 100
	if stride < 1 {
		stride = 1
	}

	var r, g, b []float64
	for y := 0; y < height; y += stride {
		for x := 0; x < width; x += stride {
			i := (y*width + x) * 3
			r = append(r, float64(pixels[i]))
			g = append(g, float64(pixels[i+1]))
			b = append(b, float64(pixels[i+2]))
		}
	}

	rg := abs(pearson(r, g))
	rb := abs(pearson(r, b))
	gb := abs(pearson(g, b))
	return (rg + rb + gb) / 3.0
}

// histogramStats builds the 256-bin histogram of gray and reports its
// smoothness (how slowly adjacent bin counts change) and the count of
// non-zero bins.
func histogramStats(gray []float64) (smoothness float64, uniqueCount int) {
	hist := histogram256(gray)

	diffSum := 0.0
	for i := 1; i < 256; i++ {
		d := hist[i] - hist[i-1]
		if d < 0 {
			d = -d
		}
		diffSum += float64(d)
	}
	meanDiff := diffSum / 255.0

	sum := 0
	for _, f := range hist {
		sum += f
		if f != 0 {
			uniqueCount++
		}
	}
	meanBin := float64(sum) / 256.0

	smoothness = 1 - meanDiff/(meanBin+1)
	if smoothness < 0 {
		smoothness = 0
	}
	if smoothness > 1 {
		smoothness = 1
	}
	return smoothness, uniqueCount
}

// compressibilityRatio downsamples the RGB array every 4th row/column and
// reports how much deflate shrinks it, defaulting on any codec failure.
func compressibilityRatio(pixels []byte, width, height int) float64 {
	var raw []byte
	for y := 0; y < height; y += 4 {
		for x := 0; x < width; x += 4 {
			i := (y*width + x) * 3
			raw = append(raw, pixels[i], pixels[i+1], pixels[i+2])
		}
	}
	if len(raw) == 0 {
		return compressibilityDefault
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestSpeed)
	if err != nil {
		return compressibilityDefault
	}
	if _, err := w.Write(raw); err != nil {
		return compressibilityDefault
	}
	if err := w.Close(); err != nil {
		return compressibilityDefault
	}

	return 1 - float64(buf.Len())/float64(len(raw))
}
