package forensics

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/humanmark/forensic/internal/imaging"
)

// aiResolutions are side lengths AI image generators gravitate toward.
var aiResolutions = map[int]bool{
	256: true, 512: true, 768: true, 1024: true, 1080: true,
	1152: true, 1344: true, 1536: true, 2048: true, 4096: true,
}

// aiKeywords is checked in order; only the first match fires a penalty.
var aiKeywords = []string{
	"midjourney", "dalle", "dall-e", "stable", "diffusion", "ai",
	"generated", "prompt", "sd_", "mj_", "openai", "flux", "runway",
	"pika", "ideogram", "leonardo", "firefly", "imagen", "kandinsky",
	"deepai", "craiyon", "nightcafe", "artbreeder", "dream", "neural",
	"synthetic",
}

// Footprint scores the digital footprint layer: metadata and naming signals
// that, in aggregate, distinguish camera output from generator output. It
// never inspects pixel data, only EXIF count, dimensions, filename, and
// container format.
func Footprint(img *imaging.DecodedImage, filename string) LayerReport {
	var (
		score    float64
		findings []string
		details  = map[string]Detail{}
	)

	details["exif_count"] = Int(img.ExifEntryCount)
	switch {
	case img.ExifEntryCount == 0:
		score += 35
		findings = append(findings, "No EXIF metadata (strong AI indicator)")
	case img.ExifEntryCount < 10:
		score += 20
		findings = append(findings, fmt.Sprintf("Minimal EXIF (%d entries)", img.ExifEntryCount))
	case img.ExifEntryCount < 20:
		score += 10
		findings = append(findings, fmt.Sprintf("Limited EXIF (%d entries)", img.ExifEntryCount))
	default:
		findings = append(findings, fmt.Sprintf("Rich EXIF data (%d entries)", img.ExifEntryCount))
	}

	if aiResolutions[img.Width] || aiResolutions[img.Height] {
		score += 20
		findings = append(findings, fmt.Sprintf("AI-typical dimension detected (%dx%d)", img.Width, img.Height))
	}
	if isPowerOfTwo(img.Width) || isPowerOfTwo(img.Height) {
		score += 15
		findings = append(findings, "Power-of-2 dimension (AI training artifact)")
	}

	if img.Width == img.Height && img.Width > 1 {
		score += 15
		findings = append(findings, "Perfect 1:1 aspect ratio")
	}

	lower := strings.ToLower(filename)
	for _, kw := range aiKeywords {
		if strings.Contains(lower, kw) {
			score += 40
			findings = append(findings, fmt.Sprintf("AI keyword in filename: '%s'", kw))
			break
		}
	}
	if hasGeneratedFilenamePattern(filename) {
		score += 10
		findings = append(findings, "Generated filename pattern")
	}

	switch img.Format {
	case imaging.FormatPNG:
		score += 10
		findings = append(findings, "PNG format (common for AI outputs)")
	case imaging.FormatWEBP:
		score += 15
		findings = append(findings, "WebP format (AI platform common)")
	}

	details["format_consistency"] = Text(formatConsistency(filename, img.Format))

	if len(findings) == 0 {
		findings = append(findings, "Metadata appears authentic")
	}

	report := LayerReport{
		Name:       "digital_footprint",
		Score:      clampScore(score),
		Confidence: clampUnit(0.6+score/200, 0.95),
		Findings:   findings,
		Details:    details,
	}
	return report
}

// isPowerOfTwo reports whether n is a power of two. A degenerate 1-pixel
// dimension does not count: generator tile sizes start at 2.
func isPowerOfTwo(n int) bool {
	return n > 1 && n&(n-1) == 0
}

// formatConsistency cross-checks the extension the filename declares
// against the sniffed container format. Informational only: it is recorded
// as a detail and never contributes to the score.
func formatConsistency(filename string, format imaging.Format) string {
	var implied imaging.Format
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		implied = imaging.FormatJPEG
	case ".png":
		implied = imaging.FormatPNG
	case ".webp":
		implied = imaging.FormatWEBP
	default:
		return "unknown"
	}
	if implied == format {
		return "match"
	}
	return "mismatch"
}

// hasGeneratedFilenamePattern reports whether filename has two or more
// maximal digit runs, or two or more underscores: the shape of
// "image_001_final.png"-style generator output.
func hasGeneratedFilenamePattern(filename string) bool {
	digitRuns := 0
	inRun := false
	underscores := 0
	for _, r := range filename {
		if r >= '0' && r <= '9' {
			if !inRun {
				digitRuns++
				inRun = true
			}
		} else {
			inRun = false
			if r == '_' {
				underscores++
			}
		}
	}
	return digitRuns >= 2 || underscores >= 2
}
