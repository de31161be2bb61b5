package forensics

import (
	"math/rand"
	"testing"

	"github.com/humanmark/forensic/internal/imaging"
)

func uniformImage(w, h int, v byte) *imaging.DecodedImage {
	pixels := make([]byte, w*h*3)
	for i := range pixels {
		pixels[i] = v
	}
	return &imaging.DecodedImage{Pixels: pixels, Width: w, Height: h, Format: imaging.FormatPNG}
}

func noiseImage(w, h int, seed int64) *imaging.DecodedImage {
	r := rand.New(rand.NewSource(seed))
	pixels := make([]byte, w*h*3)
	for i := range pixels {
		pixels[i] = byte(r.Intn(256))
	}
	return &imaging.DecodedImage{Pixels: pixels, Width: w, Height: h, Format: imaging.FormatJPEG}
}

func TestPixelPhysicsUniformImageScoresHigh(t *testing.T) {
	img := uniformImage(64, 64, 128)

	report := PixelPhysics(img)

	if report.Score < 50 {
		t.Errorf("expected a uniform (no-noise, no-texture) image to score high, got %d", report.Score)
	}
	if report.Confidence > 0.95 {
		t.Errorf("confidence must not exceed layer ceiling 0.95, got %v", report.Confidence)
	}
}

func TestPixelPhysicsNoiseImageScoresLow(t *testing.T) {
	img := noiseImage(128, 128, 1)

	report := PixelPhysics(img)

	// Pure synthetic noise legitimately trips the noise-uniformity and
	// skewness signals; what it must not do is look like a smooth,
	// low-entropy generator output.
	if report.Score > 60 {
		t.Errorf("expected a noisy image to stay below the heavy-penalty range, got %d", report.Score)
	}
}

func TestPixelPhysicsFindingsNonEmpty(t *testing.T) {
	report := PixelPhysics(uniformImage(16, 16, 200))
	if len(report.Findings) == 0 {
		t.Error("findings must be non-empty")
	}
}

func TestPixelPhysicsFindingsMatchFiredPenalties(t *testing.T) {
	report := PixelPhysics(uniformImage(64, 64, 128))

	want := []string{
		"Extremely uniform noise (AI hallmark)",
		"Low color entropy",
		"Uniform saturation (AI smoothing)",
		"Unnaturally balanced pixel distribution",
	}
	for _, w := range want {
		if !containsFinding(report.Findings, w) {
			t.Errorf("expected finding %q for a flat uniform image, got %v", w, report.Findings)
		}
	}
}

func TestNoiseUniformityFewPatchesDefault(t *testing.T) {
	gray := [][]float64{{1, 2}, {3, 4}}
	if got := noiseUniformity(gray, 2, 2); got != 0.5 {
		t.Errorf("expected 0.5 default for too few patches, got %v", got)
	}
}

func TestSkewnessLowStdReturnsZero(t *testing.T) {
	flat := []float64{10, 10, 10, 10}
	if got := skewness(flat); got != 0 {
		t.Errorf("expected skewness 0 for near-constant input, got %v", got)
	}
}
