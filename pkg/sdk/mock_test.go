package simdex

import (
	"context"

	"github.com/kailas-cloud/simdex/internal/domain"
	calibrationuc "github.com/kailas-cloud/simdex/internal/usecase/calibration"
	feedbackuc "github.com/kailas-cloud/simdex/internal/usecase/feedback"
)

// --- detectionUseCase mock ---

type mockDetectionUC struct {
	detectFn    func(ctx context.Context, text string, threshold float64, crossLanguage bool) (domain.DetectionResult, error)
	crossUserFn func(ctx context.Context, owner, text string, threshold float64, crossLanguage bool) (domain.DetectionResult, error)
}

func (m *mockDetectionUC) Detect(
	ctx context.Context, text string, threshold float64, crossLanguage bool,
) (domain.DetectionResult, error) {
	return m.detectFn(ctx, text, threshold, crossLanguage)
}

func (m *mockDetectionUC) DetectCrossUser(
	ctx context.Context, owner, text string, threshold float64, crossLanguage bool,
) (domain.DetectionResult, error) {
	return m.crossUserFn(ctx, owner, text, threshold, crossLanguage)
}

// --- referenceUseCase mock ---

type mockReferenceUC struct {
	addFn        func(ctx context.Context, id, text string) (domain.ReferenceDocument, error)
	removeFn     func(ctx context.Context, id string) error
	clearFn      func(ctx context.Context)
	getFn        func(id string) (domain.ReferenceDocument, error)
	listFn       func() []domain.ReferenceDocument
	addUserFn    func(ctx context.Context, owner, id, text string) (domain.UserDocument, error)
	removeUserFn func(ctx context.Context, owner, id string) error
	listUserFn   func(owner string) []domain.UserDocument
}

func (m *mockReferenceUC) AddDocument(ctx context.Context, id, text string) (domain.ReferenceDocument, error) {
	return m.addFn(ctx, id, text)
}

func (m *mockReferenceUC) RemoveDocument(ctx context.Context, id string) error {
	return m.removeFn(ctx, id)
}

func (m *mockReferenceUC) Clear(ctx context.Context) {
	m.clearFn(ctx)
}

func (m *mockReferenceUC) Get(id string) (domain.ReferenceDocument, error) {
	return m.getFn(id)
}

func (m *mockReferenceUC) List() []domain.ReferenceDocument {
	return m.listFn()
}

func (m *mockReferenceUC) AddUserDocument(
	ctx context.Context, owner, id, text string,
) (domain.UserDocument, error) {
	return m.addUserFn(ctx, owner, id, text)
}

func (m *mockReferenceUC) RemoveUserDocument(ctx context.Context, owner, id string) error {
	return m.removeUserFn(ctx, owner, id)
}

func (m *mockReferenceUC) ListUserDocuments(owner string) []domain.UserDocument {
	return m.listUserFn(owner)
}

// --- feedbackUseCase mock ---

type mockFeedbackUC struct {
	submitFn  func(ctx context.Context, p feedbackuc.SubmitParams) (feedbackuc.Result, error)
	statsFn   func(ctx context.Context) (feedbackuc.Stats, error)
	historyFn func(ctx context.Context, limit int) ([]domain.FeedbackEntry, error)
}

func (m *mockFeedbackUC) Submit(ctx context.Context, p feedbackuc.SubmitParams) (feedbackuc.Result, error) {
	return m.submitFn(ctx, p)
}

func (m *mockFeedbackUC) Stats(ctx context.Context) (feedbackuc.Stats, error) {
	return m.statsFn(ctx)
}

func (m *mockFeedbackUC) History(ctx context.Context, limit int) ([]domain.FeedbackEntry, error) {
	return m.historyFn(ctx, limit)
}

// --- calibrationUseCase mock ---

type mockCalibrationUC struct {
	snapshotFn func() calibrationuc.Snapshot
	retrainFn  func(ctx context.Context) (calibrationuc.RetrainResult, error)
}

func (m *mockCalibrationUC) Snapshot() calibrationuc.Snapshot {
	return m.snapshotFn()
}

func (m *mockCalibrationUC) TriggerRetrain(ctx context.Context) (calibrationuc.RetrainResult, error) {
	return m.retrainFn(ctx)
}

// --- helpers ---

func testClient(
	detectSvc detectionUseCase,
	refSvc referenceUseCase,
	fbSvc feedbackUseCase,
	calSvc calibrationUseCase,
) *Client {
	return &Client{
		detectSvc: detectSvc,
		refSvc:    refSvc,
		fbSvc:     fbSvc,
		calSvc:    calSvc,
	}
}
