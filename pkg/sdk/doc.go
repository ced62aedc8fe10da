// Package simdex provides an embedded Go client for the simdex
// plagiarism detection engine backed by Redis.
//
// The client wires the detection, reference, feedback and calibration
// services directly over a Redis connection, without going through the
// HTTP API:
//
//	client, _ := simdex.New(ctx,
//	    simdex.WithRedis("localhost:6379", ""),
//	    simdex.WithOpenAI(apiKey, "text-embedding-3-small"),
//	)
//	defer client.Close()
//
//	_ = client.AddReference(ctx, "essay-1", referenceText)
//	res, _ := client.Detect(ctx, submission, simdex.DetectOptions{})
//	if res.MaxScore > 70 {
//	    // flag for review
//	}
//
// Feedback closes the loop: graders report false positives and
// confirmed cases, and the calibration engine adjusts the detection
// threshold from the accumulated ledger:
//
//	_, _ = client.SubmitFeedback(ctx, simdex.Feedback{
//	    DocID:      "essay-1",
//	    Text:       submission,
//	    MatchScore: res.MaxScore,
//	    Type:       simdex.FeedbackFalsePositive,
//	})
package simdex
