package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/humanmark/forensic/internal/forensics"
	"github.com/humanmark/forensic/internal/imaging"
	"github.com/humanmark/forensic/pkg/logger"
)

// Clock abstracts wall-clock time and monotonic elapsed-time measurement
// so tests can control timestamps.
type Clock interface {
	Now() time.Time
	Since(start time.Time) time.Duration
}

type systemClock struct{}

func (systemClock) Now() time.Time                      { return time.Now() }
func (systemClock) Since(start time.Time) time.Duration { return time.Since(start) }

// IDSource produces an opaque unique identifier per analysis.
type IDSource interface {
	NewID() string
}

type uuidSource struct{}

func (uuidSource) NewID() string { return uuid.NewString() }

// Engine runs the full decode -> four-layer -> fusion -> assemble pipeline.
// It is stateless per analysis: its fields are immutable collaborators,
// safely shared across concurrent calls to Analyze.
type Engine struct {
	clock Clock
	ids   IDSource
	log   *logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source, for deterministic tests.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithIDSource overrides the engine's ID generator, for deterministic tests.
func WithIDSource(s IDSource) Option {
	return func(e *Engine) { e.ids = s }
}

// WithLogger attaches a structured logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine constructs an Engine, applying defaults (real clock, UUID
// generator, no-op logger) before any supplied options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		clock: systemClock{},
		ids:   uuidSource{},
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// layerResult carries a single layer's output or the panic that replaced
// it, for fan-in after concurrent execution.
type layerResult struct {
	report forensics.LayerReport
	err    error
}

// Analyze runs the full pipeline against raw bytes plus an advisory
// filename, returning a single AnalysisResult or a single AnalysisError
// (never both, never partial results).
func (e *Engine) Analyze(ctx context.Context, data []byte, filename string) (*AnalysisResult, error) {
	start := e.clock.Now()
	id := e.ids.NewID()
	alog := e.log.ForAnalysis(id, filename)

	if len(data) == 0 {
		return nil, newError(ErrInvalidInput, fmt.Errorf("empty input"))
	}

	decoded, err := imaging.Decode(data, filename)
	if err != nil {
		alog.Warn("decode failed", "error", err)
		return nil, newError(ErrDecodeFailure, err)
	}

	footprint, pixelPhysics, structure, pattern, err := e.runLayers(ctx, decoded, filename)
	if err != nil {
		return nil, newError(ErrInternalNumeric, err)
	}

	for _, lr := range []forensics.LayerReport{footprint, pixelPhysics, structure, pattern} {
		alog.LayerScored(lr.Name, lr.Score, lr.Confidence)
	}

	fusion := forensics.Fuse(footprint, pixelPhysics, structure, pattern)

	now := e.clock.Now()
	result := &AnalysisResult{
		ID:             id,
		Verdict:        string(fusion.Verdict),
		Confidence:     round(fusion.Confidence, 2),
		OverallScore:   round(fusion.Score, 1),
		ProcessingTime: round(e.clock.Since(start).Seconds(), 3),
		CreatedAt:      now,
		Layers: LayerReports{
			DigitalFootprint: footprint,
			PixelPhysics:     pixelPhysics,
			LightingGeometry: structure,
			SemanticAnalysis: pattern,
		},
		Metadata: ResultMetadata{
			FileInfo: FileInfo{
				Filename:  filename,
				SizeBytes: decoded.FileSize,
				Format:    string(decoded.Format),
				Width:     decoded.Width,
				Height:    decoded.Height,
			},
			AnalysisTimestamp: now,
			EngineVersion:     EngineVersion,
		},
	}

	alog.Info("analysis complete",
		"verdict", result.Verdict,
		"overall_score", result.OverallScore,
	)
	return result, nil
}

// runLayers executes the four independent layers under a fork/join
// structure, recovering any layer panic into an error so a
// bug in one numeric kernel never corrupts another layer's report.
func (e *Engine) runLayers(ctx context.Context, decoded *imaging.DecodedImage, filename string) (footprint, pixelPhysics, structure, pattern forensics.LayerReport, err error) {
	results := make(chan struct {
		idx    int
		result layerResult
	}, 4)

	run := func(idx int, fn func() forensics.LayerReport) {
		defer func() {
			if r := recover(); r != nil {
				results <- struct {
					idx    int
					result layerResult
				}{idx, layerResult{err: fmt.Errorf("layer %d panicked: %v", idx, r)}}
			}
		}()
		results <- struct {
			idx    int
			result layerResult
		}{idx, layerResult{report: fn()}}
	}

	go run(0, func() forensics.LayerReport { return forensics.Footprint(decoded, filename) })
	go run(1, func() forensics.LayerReport { return forensics.PixelPhysics(decoded) })
	go run(2, func() forensics.LayerReport { return forensics.Structure(decoded) })
	go run(3, func() forensics.LayerReport { return forensics.Pattern(decoded) })

	reports := make([]forensics.LayerReport, 4)
	for i := 0; i < 4; i++ {
		select {
		case <-ctx.Done():
			return footprint, pixelPhysics, structure, pattern, ctx.Err()
		case res := <-results:
			if res.result.err != nil {
				return footprint, pixelPhysics, structure, pattern, res.result.err
			}
			reports[res.idx] = res.result.report
		}
	}

	return reports[0], reports[1], reports[2], reports[3], nil
}

// defaultEngine is the package-level convenience engine used by Analyze.
var defaultEngine = NewEngine()

// Analyze runs the default engine's pipeline. Most callers that don't need
// a custom clock, ID source, or logger should use this directly.
func Analyze(ctx context.Context, data []byte, filename string) (*AnalysisResult, error) {
	return defaultEngine.Analyze(ctx, data, filename)
}
