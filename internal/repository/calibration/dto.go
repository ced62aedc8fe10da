package calibration

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/simdex/internal/domain"
)

var stateKey = domain.KeyPrefix + "calibration"

const (
	fieldSemanticWeight    = "semantic_weight"
	fieldStylometryWeight  = "stylometry_weight"
	fieldCrossLangWeight   = "cross_lang_weight"
	fieldBaseThreshold     = "base_threshold"
	fieldAdjustment        = "threshold_adjustment"
	fieldFeedbackProcessed = "total_feedback_processed"
	fieldUpdatedAt         = "updated_at"
)

func buildHashFields(s domain.CalibrationState) map[string]string {
	return map[string]string{
		fieldSemanticWeight:    formatFloat(s.SemanticWeight),
		fieldStylometryWeight:  formatFloat(s.StylometryWeight),
		fieldCrossLangWeight:   formatFloat(s.CrossLangWeight),
		fieldBaseThreshold:     formatFloat(s.BaseThreshold),
		fieldAdjustment:        formatFloat(s.ThresholdAdjustment),
		fieldFeedbackProcessed: strconv.Itoa(s.TotalFeedbackProcessed),
		fieldUpdatedAt:         s.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func parseHashFields(fields map[string]string) (domain.CalibrationState, error) {
	var s domain.CalibrationState
	var err error

	if s.SemanticWeight, err = parseFloat(fields, fieldSemanticWeight); err != nil {
		return domain.CalibrationState{}, err
	}
	if s.StylometryWeight, err = parseFloat(fields, fieldStylometryWeight); err != nil {
		return domain.CalibrationState{}, err
	}
	if s.CrossLangWeight, err = parseFloat(fields, fieldCrossLangWeight); err != nil {
		return domain.CalibrationState{}, err
	}
	if s.BaseThreshold, err = parseFloat(fields, fieldBaseThreshold); err != nil {
		return domain.CalibrationState{}, err
	}
	if s.ThresholdAdjustment, err = parseFloat(fields, fieldAdjustment); err != nil {
		return domain.CalibrationState{}, err
	}

	s.TotalFeedbackProcessed, _ = strconv.Atoi(fields[fieldFeedbackProcessed])
	if s.UpdatedAt, err = time.Parse(time.RFC3339Nano, fields[fieldUpdatedAt]); err != nil {
		s.UpdatedAt = time.Time{}
	}
	return s, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func parseFloat(fields map[string]string, name string) (float64, error) {
	f, err := strconv.ParseFloat(fields[name], 64)
	if err != nil {
		return 0, fmt.Errorf("calibration field %s=%q: %w", name, fields[name], err)
	}
	return f, nil
}
