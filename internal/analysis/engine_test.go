package analysis

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time                      { return c.t }
func (c fixedClock) Since(start time.Time) time.Duration { return 0 }

type fixedIDSource struct{ id string }

func (s fixedIDSource) NewID() string { return s.id }

func testEngine() *Engine {
	return NewEngine(
		WithClock(fixedClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}),
		WithIDSource(fixedIDSource{id: "test-id"}),
	)
}

func encodePNG(t *testing.T, w, h int, fill color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestAnalyzeEmptyInputIsInvalid(t *testing.T) {
	e := testEngine()
	_, err := e.Analyze(context.Background(), nil, "x.png")
	var aerr *AnalysisError
	if err == nil {
		t.Fatal("expected an error for empty input")
	}
	if !isAnalysisError(err, &aerr) || aerr.Kind != ErrInvalidInput {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAnalyzeUndecodableInputIsDecodeFailure(t *testing.T) {
	e := testEngine()
	_, err := e.Analyze(context.Background(), []byte("not an image, padded out long enough to pass sniffing"), "x.bmp")
	var aerr *AnalysisError
	if !isAnalysisError(err, &aerr) || aerr.Kind != ErrDecodeFailure {
		t.Errorf("expected ErrDecodeFailure, got %v", err)
	}
}

func TestAnalyzeDeterminism(t *testing.T) {
	e := testEngine()
	data := encodePNG(t, 40, 40, color.RGBA{10, 20, 30, 255})

	a, err := e.Analyze(context.Background(), data, "photo.png")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	b, err := e.Analyze(context.Background(), data, "photo.png")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if a.OverallScore != b.OverallScore || a.Verdict != b.Verdict {
		t.Error("two analyses of byte-identical input must produce byte-identical results")
	}
	if a.Layers.DigitalFootprint.Score != b.Layers.DigitalFootprint.Score {
		t.Error("layer scores must be deterministic")
	}
}

func TestAnalyzeFilenameIndependence(t *testing.T) {
	e := testEngine()
	data := encodePNG(t, 40, 40, color.RGBA{10, 20, 30, 255})

	a, err := e.Analyze(context.Background(), data, "vacation.png")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	b, err := e.Analyze(context.Background(), data, "midjourney_ai_001.png")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if a.Layers.PixelPhysics.Score != b.Layers.PixelPhysics.Score {
		t.Error("L2 must not depend on filename")
	}
	if a.Layers.LightingGeometry.Score != b.Layers.LightingGeometry.Score {
		t.Error("L3 must not depend on filename")
	}
	if a.Layers.SemanticAnalysis.Score != b.Layers.SemanticAnalysis.Score {
		t.Error("L4 must not depend on filename")
	}
	if a.Layers.DigitalFootprint.Score == b.Layers.DigitalFootprint.Score {
		t.Error("expected L1 to differ given an AI-keyword filename")
	}
}

func TestAnalyzeInvariants(t *testing.T) {
	e := testEngine()
	data := encodePNG(t, 80, 80, color.RGBA{200, 50, 10, 255})

	result, err := e.Analyze(context.Background(), data, "a.png")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	reports := map[string]struct {
		score      int
		confidence float64
		ceiling    float64
		findings   []string
	}{
		"digital_footprint": {result.Layers.DigitalFootprint.Score, result.Layers.DigitalFootprint.Confidence, 0.95, result.Layers.DigitalFootprint.Findings},
		"pixel_physics":     {result.Layers.PixelPhysics.Score, result.Layers.PixelPhysics.Confidence, 0.95, result.Layers.PixelPhysics.Findings},
		"lighting_geometry": {result.Layers.LightingGeometry.Score, result.Layers.LightingGeometry.Confidence, 0.93, result.Layers.LightingGeometry.Findings},
		"semantic_analysis": {result.Layers.SemanticAnalysis.Score, result.Layers.SemanticAnalysis.Confidence, 0.95, result.Layers.SemanticAnalysis.Findings},
	}

	for name, r := range reports {
		if r.score < 0 || r.score > 100 {
			t.Errorf("%s: score %d out of [0,100]", name, r.score)
		}
		if r.confidence < 0 || r.confidence > r.ceiling {
			t.Errorf("%s: confidence %v exceeds ceiling %v", name, r.confidence, r.ceiling)
		}
		if len(r.findings) == 0 {
			t.Errorf("%s: findings must be non-empty", name)
		}
	}

	if result.OverallScore < 0 || result.OverallScore > 100 {
		t.Errorf("overall_score %v out of [0,100]", result.OverallScore)
	}
}

func isAnalysisError(err error, target **AnalysisError) bool {
	aerr, ok := err.(*AnalysisError)
	if !ok {
		return false
	}
	*target = aerr
	return true
}
