// Package chi exposes the detection and calibration services over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/simdex/internal/domain"
	calibrationuc "github.com/kailas-cloud/simdex/internal/usecase/calibration"
	detectionuc "github.com/kailas-cloud/simdex/internal/usecase/detection"
	feedbackuc "github.com/kailas-cloud/simdex/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/simdex/internal/usecase/health"
	referenceuc "github.com/kailas-cloud/simdex/internal/usecase/reference"
)

// usernameHeader carries the acting user for feedback attribution and
// cross-user detection.
const usernameHeader = "X-Username"

// Machine-readable error codes returned alongside HTTP statuses.
const (
	codeBadRequest           = "bad_request"
	codeValidationFailed     = "validation_failed"
	codeUnauthorized         = "unauthorized"
	codeDocumentNotFound     = "document_not_found"
	codeAlreadyExists        = "already_exists"
	codeEmbeddingProviderErr = "embedding_provider_error"
	codeInternalError        = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the use case services into chi routes.
type Server struct {
	detection     *detectionuc.Service
	references    *referenceuc.Service
	feedback      *feedbackuc.Service
	calibration   *calibrationuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	detection *detectionuc.Service,
	references *referenceuc.Service,
	feedback *feedbackuc.Service,
	calibration *calibrationuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		detection:   detection,
		references:  references,
		feedback:    feedback,
		calibration: calibration,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrEmptyText, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidFeedbackType, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidDetectionLayer, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidSeverity, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidConfidence, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderErr),
	}
	return s
}

// Register mounts every route on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/detect", s.handleDetect)
	r.Post("/detect/cross-user", s.handleDetectCrossUser)

	r.Route("/references", func(r chi.Router) {
		r.Post("/", s.handleAddReference)
		r.Get("/", s.handleListReferences)
		r.Delete("/", s.handleClearReferences)
		r.Get("/{docID}", s.handleGetReference)
		r.Delete("/{docID}", s.handleDeleteReference)
	})

	r.Route("/users/{user}/documents", func(r chi.Router) {
		r.Post("/", s.handleAddUserDocument)
		r.Get("/", s.handleListUserDocuments)
		r.Delete("/{docID}", s.handleDeleteUserDocument)
	})

	r.Route("/feedback", func(r chi.Router) {
		r.Post("/", s.handleSubmitFeedback)
		r.Get("/stats", s.handleFeedbackStats)
		r.Get("/history", s.handleFeedbackHistory)
		r.Get("/analytics", s.handleFeedbackAnalytics)
		r.Post("/retrain", s.handleRetrain)
	})

	r.Get("/learning/weights", s.handleLearningWeights)
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// handleDetect handles POST /detect.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeDetect(w, r)
	if !ok {
		return
	}

	result, err := s.detection.Detect(r.Context(), req.Text, req.Threshold, crossLanguageFlag(req))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleDetectCrossUser handles POST /detect/cross-user. The owner is
// taken from the X-Username header; their own documents are excluded
// from the scan.
func (s *Server) handleDetectCrossUser(w http.ResponseWriter, r *http.Request) {
	owner := strings.TrimSpace(r.Header.Get(usernameHeader))
	if owner == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, usernameHeader+" header is required")
		return
	}

	req, ok := s.decodeDetect(w, r)
	if !ok {
		return
	}

	result, err := s.detection.DetectCrossUser(r.Context(), owner, req.Text, req.Threshold, crossLanguageFlag(req))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) decodeDetect(w http.ResponseWriter, r *http.Request) (detectRequest, bool) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return detectRequest{}, false
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "text is required")
		return detectRequest{}, false
	}
	return req, true
}

func crossLanguageFlag(req detectRequest) bool {
	if req.CrossLanguage == nil {
		return true
	}
	return *req.CrossLanguage
}

// handleAddReference handles POST /references.
func (s *Server) handleAddReference(w http.ResponseWriter, r *http.Request) {
	var req addDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.DocID) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "doc_id is required")
		return
	}

	doc, err := s.references.AddDocument(r.Context(), req.DocID, req.Text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, addedResponse{
		Status:   "added",
		DocID:    doc.ID(),
		Language: doc.Language(),
	})
}

// handleListReferences handles GET /references.
func (s *Server) handleListReferences(w http.ResponseWriter, r *http.Request) {
	docs := s.references.List()

	refs := make([]documentSummary, len(docs))
	for i := range docs {
		refs[i] = referenceToSummary(&docs[i])
	}

	writeJSON(w, http.StatusOK, listReferencesResponse{References: refs, Count: len(refs)})
}

// handleGetReference handles GET /references/{docID}.
func (s *Server) handleGetReference(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	doc, err := s.references.Get(docID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, referenceResponse{
		DocID:        doc.ID(),
		Text:         doc.Text(),
		Language:     doc.Language(),
		ModelVersion: doc.ModelVersion(),
		CreatedAt:    doc.CreatedAt(),
	})
}

// handleDeleteReference handles DELETE /references/{docID}.
func (s *Server) handleDeleteReference(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	if err := s.references.RemoveDocument(r.Context(), docID); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deletedResponse{
		Status:    "deleted",
		DocID:     docID,
		Remaining: s.references.Count(),
	})
}

// handleClearReferences handles DELETE /references.
func (s *Server) handleClearReferences(w http.ResponseWriter, r *http.Request) {
	s.references.Clear(r.Context())

	writeJSON(w, http.StatusOK, clearedResponse{
		Status:  "cleared",
		Message: "All reference documents have been removed.",
	})
}

// handleAddUserDocument handles POST /users/{user}/documents.
func (s *Server) handleAddUserDocument(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "user")

	var req addDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.DocID) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "doc_id is required")
		return
	}

	doc, err := s.references.AddUserDocument(r.Context(), owner, req.DocID, req.Text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, addedResponse{
		Status:   "added",
		DocID:    doc.ID(),
		Language: doc.Language(),
		Owner:    doc.Owner(),
	})
}

// handleListUserDocuments handles GET /users/{user}/documents.
func (s *Server) handleListUserDocuments(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "user")

	docs := s.references.ListUserDocuments(owner)
	items := make([]documentSummary, len(docs))
	for i := range docs {
		items[i] = userDocumentToSummary(&docs[i])
	}

	writeJSON(w, http.StatusOK, userDocumentsResponse{Owner: owner, Documents: items, Count: len(items)})
}

// handleDeleteUserDocument handles DELETE /users/{user}/documents/{docID}.
func (s *Server) handleDeleteUserDocument(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "user")
	docID := chi.URLParam(r, "docID")

	if err := s.references.RemoveUserDocument(r.Context(), owner, docID); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deletedResponse{Status: "deleted", DocID: docID})
}

// handleSubmitFeedback handles POST /feedback.
func (s *Server) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.DocID) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "doc_id is required")
		return
	}
	if strings.TrimSpace(req.SubmittedText) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "submitted_text is required")
		return
	}

	feedbackType, err := domain.ParseFeedbackType(req.FeedbackType)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	layer, err := domain.ParseDetectionLayer(req.DetectionLayer)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	result, err := s.feedback.Submit(r.Context(), feedbackuc.SubmitParams{
		User:               r.Header.Get(usernameHeader),
		DocID:              req.DocID,
		Text:               req.SubmittedText,
		MatchScore:         req.MatchScore,
		Type:               feedbackType,
		Severity:           req.Severity,
		Layer:              layer,
		ConfidenceOverride: req.ConfidenceOverride,
		Notes:              req.Notes,
		InstructorReview:   req.InstructorReview,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, feedbackResponse{
		ID:                  result.Entry.ID(),
		Status:              "success",
		FeedbackType:        string(result.Entry.Type()),
		ThresholdAdjustment: result.ThresholdAdjustment,
	})
}

// handleFeedbackStats handles GET /feedback/stats.
func (s *Server) handleFeedbackStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.feedback.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleFeedbackHistory handles GET /feedback/history.
func (s *Server) handleFeedbackHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := s.feedback.History(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	history := make([]feedbackEntryDTO, len(entries))
	for i := range entries {
		history[i] = feedbackEntryToDTO(&entries[i])
	}

	writeJSON(w, http.StatusOK, historyResponse{History: history, Count: len(history)})
}

// handleFeedbackAnalytics handles GET /feedback/analytics.
func (s *Server) handleFeedbackAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := s.calibration.Analytics(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analytics)
}

// handleRetrain handles POST /feedback/retrain.
func (s *Server) handleRetrain(w http.ResponseWriter, r *http.Request) {
	result, err := s.calibration.TriggerRetrain(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleLearningWeights handles GET /learning/weights.
func (s *Server) handleLearningWeights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.calibration.Snapshot())
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:             string(report.Status),
		Checks:             checks,
		ReferenceDocuments: report.ReferenceDocuments,
		UserDocuments:      report.UserDocuments,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrDocumentNotFound,
		domain.ErrAlreadyExists,
		domain.ErrEmptyText,
		domain.ErrInvalidFeedbackType,
		domain.ErrInvalidDetectionLayer,
		domain.ErrInvalidSeverity,
		domain.ErrInvalidConfidence,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
