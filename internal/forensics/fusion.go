package forensics

import "math"

// Verdict is the categorical label derived from the fused overall score.
type Verdict string

const (
	VerdictReal       Verdict = "real"
	VerdictSuspicious Verdict = "suspicious"
	VerdictEdited     Verdict = "edited"
	VerdictFake       Verdict = "fake"
)

// agreementThreshold is the per-layer score at or above which a layer is
// counted toward consensus.
const agreementThreshold = 45

// Fusion is the weighted combination of the four layer reports, tempered
// by how many layers independently agree evidence is present.
type Fusion struct {
	Score      float64
	Verdict    Verdict
	Confidence float64
}

// Fuse combines four layer scores into an overall score and verdict. The
// order of reports is (footprint, pixelPhysics, structure, pattern),
// matching the 0.10/0.30/0.20/0.40 weights.
func Fuse(footprint, pixelPhysics, structure, pattern LayerReport) Fusion {
	s1 := float64(footprint.Score)
	s2 := float64(pixelPhysics.Score)
	s3 := float64(structure.Score)
	s4 := float64(pattern.Score)

	raw := 0.10*s1 + 0.30*s2 + 0.20*s3 + 0.40*s4

	agreement := 0
	for _, s := range []float64{s1, s2, s3, s4} {
		if s >= agreementThreshold {
			agreement++
		}
	}

	var multiplier float64
	switch {
	case agreement <= 1:
		multiplier = 0.55
	case agreement == 2:
		multiplier = 0.75
	default:
		multiplier = 0.90
	}

	score := raw * multiplier
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return Fusion{
		Score:      score,
		Verdict:    verdictFor(score),
		Confidence: math.Min(0.5+math.Abs(score-50)/120, 0.9),
	}
}

func verdictFor(score float64) Verdict {
	switch {
	case score >= 70:
		return VerdictFake
	case score >= 55:
		return VerdictEdited
	case score >= 40:
		return VerdictSuspicious
	default:
		return VerdictReal
	}
}
