package simdex

import (
	"context"
	"fmt"
)

// Detect scans the reference corpus for documents similar to text.
func (c *Client) Detect(ctx context.Context, text string, opts DetectOptions) (DetectionResult, error) {
	r, err := c.detectSvc.Detect(ctx, text, opts.Threshold, !opts.DisableCrossLanguage)
	if err != nil {
		return DetectionResult{}, fmt.Errorf("detect: %w", err)
	}
	return fromInternalResult(r), nil
}

// DetectCrossUser scans every other user's documents for similarity to
// owner's text. TotalDocumentsChecked in the result distinguishes "no
// other users" from "no matches".
func (c *Client) DetectCrossUser(
	ctx context.Context, owner, text string, opts DetectOptions,
) (DetectionResult, error) {
	if owner == "" {
		return DetectionResult{}, fmt.Errorf("detect cross-user: owner is required")
	}
	r, err := c.detectSvc.DetectCrossUser(ctx, owner, text, opts.Threshold, !opts.DisableCrossLanguage)
	if err != nil {
		return DetectionResult{}, fmt.Errorf("detect cross-user: %w", err)
	}
	return fromInternalResult(r), nil
}
