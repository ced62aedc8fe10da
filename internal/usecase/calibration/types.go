package calibration

import "time"

// BucketStats describes feedback falling into one match-score range.
type BucketStats struct {
	Range          string  `json:"range"`
	FalsePositives int     `json:"false_positives"`
	Confirmed      int     `json:"confirmed"`
	FPRate         float64 `json:"fp_rate"` // percent, 1 decimal
}

// ThresholdAnalytics is the structured result of a threshold recompute.
type ThresholdAnalytics struct {
	LearningActive      bool          `json:"learning_active"`
	FeedbackNeeded      int           `json:"feedback_needed,omitempty"`
	TotalFeedback       int           `json:"total_feedback,omitempty"`
	GlobalFPRate        float64       `json:"global_fp_rate,omitempty"` // percent, 1 decimal
	ThresholdAdjustment float64       `json:"threshold_adjustment"`
	EffectiveThreshold  float64       `json:"effective_threshold"`
	OptimalThreshold    float64       `json:"optimal_threshold,omitempty"` // diagnostic, not applied
	ScoreRangeAnalysis  []BucketStats `json:"score_range_analysis,omitempty"`
}

// LayerStats describes accumulated feedback for one detection layer.
type LayerStats struct {
	FalsePositives int     `json:"false_positives"`
	Confirmed      int     `json:"confirmed"`
	Total          int     `json:"total"`
	Accuracy       float64 `json:"accuracy"` // percent, 1 decimal
}

// Weights is the rebalanced weight triple, rounded for display.
type Weights struct {
	Semantic   float64 `json:"semantic"`
	Stylometry float64 `json:"stylometry"`
	CrossLang  float64 `json:"cross_lang"`
}

// Snapshot is the calibration state shaped for API responses.
type Snapshot struct {
	SemanticWeight         float64   `json:"semantic_weight"`
	StylometryWeight       float64   `json:"stylometry_weight"`
	CrossLangWeight        float64   `json:"cross_lang_weight"`
	BaseThreshold          float64   `json:"base_threshold"`
	ThresholdAdjustment    float64   `json:"threshold_adjustment"`
	EffectiveThreshold     float64   `json:"effective_threshold"`
	TotalFeedbackProcessed int       `json:"total_feedback_processed"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// RebalanceResult is the structured result of a weight rebalance.
type RebalanceResult struct {
	LayerStatistics map[string]LayerStats `json:"layer_statistics"`
	NewWeights      Weights               `json:"new_weights"`
	CurrentWeights  Snapshot              `json:"current_weights"`
}

// RetrainResult is the union of a threshold recompute and a weight
// rebalance.
type RetrainResult struct {
	ThresholdAnalytics    ThresholdAnalytics `json:"threshold_analytics"`
	WeightRebalancing     RebalanceResult    `json:"weight_rebalancing"`
	NewEffectiveThreshold float64            `json:"new_effective_threshold"`
}

// Analytics is the aggregate feedback report.
type Analytics struct {
	TotalFeedback       int            `json:"total_feedback"`
	FalsePositives      int            `json:"false_positives"`
	ConfirmedPlagiarism int            `json:"confirmed_plagiarism"`
	InstructorReviews   int            `json:"instructor_reviews"`
	FalsePositiveRate   float64        `json:"false_positive_rate"` // percent, 1 decimal
	AverageSeverity     float64        `json:"average_severity"`
	FeedbackByLayer     map[string]int `json:"feedback_by_layer"`
	LearningActive      bool           `json:"learning_active"`
	CurrentWeights      Snapshot       `json:"current_weights"`
}
