package analysis

import (
	"math"
	"time"

	"github.com/humanmark/forensic/internal/forensics"
)

// EngineVersion is a fixed string constant of the build, carried verbatim
// into every result's metadata.
const EngineVersion = "forensic-engine/1.0"

// FileInfo describes the analyzed input.
type FileInfo struct {
	Filename  string `json:"filename"`
	SizeBytes int    `json:"size_bytes"`
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// ResultMetadata carries ancillary, non-scoring information about a result.
type ResultMetadata struct {
	FileInfo          FileInfo  `json:"file_info"`
	AnalysisTimestamp time.Time `json:"analysis_timestamp"`
	EngineVersion     string    `json:"engine_version"`
}

// LayerReports maps each fixed layer name to its report.
type LayerReports struct {
	DigitalFootprint forensics.LayerReport `json:"digital_footprint"`
	PixelPhysics     forensics.LayerReport `json:"pixel_physics"`
	LightingGeometry forensics.LayerReport `json:"lighting_geometry"`
	SemanticAnalysis forensics.LayerReport `json:"semantic_analysis"`
}

// AnalysisResult is the single value the engine produces for a successful
// analysis.
type AnalysisResult struct {
	ID             string         `json:"id"`
	Verdict        string         `json:"verdict"`
	Confidence     float64        `json:"confidence"`
	OverallScore   float64        `json:"overall_score"`
	ProcessingTime float64        `json:"processing_time_seconds"`
	CreatedAt      time.Time      `json:"created_at"`
	Layers         LayerReports   `json:"layers"`
	Metadata       ResultMetadata `json:"metadata"`
}

// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
