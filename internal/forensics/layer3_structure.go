package forensics

import (
	"math"

	"github.com/humanmark/forensic/internal/imaging"
)

// Structure scores the structure layer: edge statistics, dynamic range,
// gradient consistency, symmetry, and local contrast.
func Structure(img *imaging.DecodedImage) LayerReport {
	var (
		score    float64
		findings []string
		details  = map[string]Detail{}
	)

	gray := grayscale(img.Pixels, img.Width, img.Height)
	mag := gradientMagnitude(gray, img.Width, img.Height)
	flatMag := flattenFloat(mag)

	density, uniformity := edgeStats(flatMag)
	details["edge_density"] = Real(density)
	details["edge_uniformity"] = Real(uniformity)
	switch {
	case density < 0.05:
		score += 25
		findings = append(findings, "Very low edge density (over-smoothed)")
	case density < 0.10:
		score += 15
		findings = append(findings, "Low edge density")
	}
	if uniformity < 1.5 {
		score += 20
		findings = append(findings, "Uniform edge distribution (AI characteristic)")
	}

	flatGray := flatten(gray)
	dynamicRange := percentile(flatGray, 99) - percentile(flatGray, 1)
	details["dynamic_range"] = Real(dynamicRange)
	switch {
	case dynamicRange < 100:
		score += 20
		findings = append(findings, "Limited dynamic range")
	case dynamicRange < 150:
		score += 10
		findings = append(findings, "Moderate dynamic range")
	}

	gradConsistency := stddev(flatMag) / (mean(flatMag) + 1)
	details["gradient_consistency"] = Real(gradConsistency)
	switch {
	case gradConsistency < 2.0:
		score += 20
		findings = append(findings, "Very consistent gradients (AI shading)")
	case gradConsistency < 3.0:
		score += 10
		findings = append(findings, "Consistent gradients")
	}

	if img.Width > 100 && img.Height > 100 {
		hSym, vSym := symmetry(gray, img.Width, img.Height)
		details["h_symmetry"] = Real(hSym)
		details["v_symmetry"] = Real(vSym)
		if hSym > 0.95 && vSym > 0.95 {
			score += 15
			findings = append(findings, "High bilateral symmetry")
		}
	}

	contrast := localContrast(gray, img.Width, img.Height)
	details["local_contrast"] = Real(contrast)
	switch {
	case contrast < 20:
		score += 20
		findings = append(findings, "Low local contrast (AI smoothing artifact)")
	case contrast < 35:
		score += 10
		findings = append(findings, "Moderate local contrast")
	}

	if len(findings) == 0 {
		findings = append(findings, "Structure analysis within normal range")
	}

	return LayerReport{
		Name:       "lighting_geometry",
		Score:      clampScore(score),
		Confidence: clampUnit(0.6+score/200, 0.93),
		Findings:   findings,
		Details:    details,
	}
}

// gradientMagnitude returns the Euclidean combination of the horizontal and
// vertical first differences, cropped to (H-1, W-1).
func gradientMagnitude(gray [][]float64, width, height int) [][]float64 {
	if height < 2 || width < 2 {
		return [][]float64{}
	}
	out := make([][]float64, height-1)
	for y := 0; y < height-1; y++ {
		row := make([]float64, width-1)
		for x := 0; x < width-1; x++ {
			dx := gray[y][x+1] - gray[y][x]
			dy := gray[y+1][x] - gray[y][x]
			row[x] = math.Sqrt(dx*dx + dy*dy)
		}
		out[y] = row
	}
	return out
}

func flattenFloat(m [][]float64) []float64 {
	total := 0
	for _, row := range m {
		total += len(row)
	}
	out := make([]float64, 0, total)
	for _, row := range m {
		out = append(out, row...)
	}
	return out
}

func edgeStats(mag []float64) (density, uniformity float64) {
	if len(mag) == 0 {
		return 0, 0
	}
	above := 0
	for _, v := range mag {
		if v > 30 {
			above++
		}
	}
	density = float64(above) / float64(len(mag))
	uniformity = stddev(mag) / (mean(mag) + 1)
	return density, uniformity
}

// symmetry compares the leftmost/rightmost (resp. topmost/bottommost)
// quarter-width (quarter-height) bands of the grayscale plane.
func symmetry(gray [][]float64, width, height int) (h, v float64) {
	qw := width / 4
	qh := height / 4

	var left, right []float64
	for _, row := range gray {
		left = append(left, row[:qw]...)
		right = append(right, row[width-qw:]...)
	}
	h = 1 - abs(mean(left)-mean(right))/255

	var top, bottom []float64
	for y := 0; y < qh; y++ {
		top = append(top, gray[y]...)
	}
	for y := height - qh; y < height; y++ {
		bottom = append(bottom, gray[y]...)
	}
	v = 1 - abs(mean(top)-mean(bottom))/255

	return h, v
}

// localContrast partitions gray into disjoint 16x16 blocks and averages the
// per-block standard deviation.
func localContrast(gray [][]float64, width, height int) float64 {
	var stds []float64
	for y := 0; y+16 <= height; y += 16 {
		for x := 0; x+16 <= width; x += 16 {
			block := make([]float64, 0, 256)
			for py := y; py < y+16; py++ {
				for px := x; px < x+16; px++ {
					block = append(block, gray[py][px])
				}
			}
			stds = append(stds, stddev(block))
		}
	}
	if len(stds) == 0 {
		return 30
	}
	return mean(stds)
}
