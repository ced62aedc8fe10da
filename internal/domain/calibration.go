package domain

import "time"

// Default calibration parameters, in force until feedback accumulates.
const (
	DefaultSemanticWeight   = 0.5
	DefaultStylometryWeight = 0.3
	DefaultCrossLangWeight  = 0.2
	DefaultBaseThreshold    = 40.0

	// MinLayerWeight and MaxLayerWeight bound every rebalanced weight:
	// no layer may be silenced or dominate completely.
	MinLayerWeight = 0.10
	MaxLayerWeight = 0.80

	// MaxThresholdAdjustment bounds the adaptive adjustment to ±15 points.
	MaxThresholdAdjustment = 15.0

	// MinFeedbackForLearning gates threshold adaptation: below this many
	// ledger entries the base threshold applies unmodified.
	MinFeedbackForLearning = 10

	// TargetFalsePositiveRate is the operating point the threshold
	// adjustment steers toward.
	TargetFalsePositiveRate = 0.30
)

// CalibrationState is the process-wide singleton of detection
// parameters. The three layer weights always sum to 1.0 with each in
// [MinLayerWeight, MaxLayerWeight]; the threshold adjustment is clamped
// to ±MaxThresholdAdjustment, but base + adjustment itself is reported
// as-is, never range-checked.
type CalibrationState struct {
	SemanticWeight         float64
	StylometryWeight       float64
	CrossLangWeight        float64
	BaseThreshold          float64
	ThresholdAdjustment    float64
	TotalFeedbackProcessed int
	UpdatedAt              time.Time
}

// DefaultCalibrationState returns the cold-start parameters.
func DefaultCalibrationState() CalibrationState {
	return CalibrationState{
		SemanticWeight:   DefaultSemanticWeight,
		StylometryWeight: DefaultStylometryWeight,
		CrossLangWeight:  DefaultCrossLangWeight,
		BaseThreshold:    DefaultBaseThreshold,
		UpdatedAt:        time.Now().UTC(),
	}
}

// EffectiveThreshold is base + adjustment, the score above which a
// candidate is reported as a match (0-100 scale).
func (s CalibrationState) EffectiveThreshold() float64 {
	return s.BaseThreshold + s.ThresholdAdjustment
}

// Weight returns the current weight for a weighted layer, 0 otherwise.
func (s CalibrationState) Weight(layer DetectionLayer) float64 {
	switch layer {
	case LayerSemantic:
		return s.SemanticWeight
	case LayerStylometry:
		return s.StylometryWeight
	case LayerCrossLang:
		return s.CrossLangWeight
	default:
		return 0
	}
}
