// Package reference manages the reference corpus and user document
// indexes.
package reference

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/simdex/internal/domain"
	"github.com/kailas-cloud/simdex/internal/index"
)

// Service handles document registration and removal for both indexes.
type Service struct {
	corpus   *index.Store
	users    *index.UserStore
	repo     Repository
	userRepo UserRepository
	embedder Embedder
	langs    LanguageDetector
	logger   *zap.Logger
}

// New creates a reference service.
func New(
	corpus *index.Store,
	users *index.UserStore,
	repo Repository,
	userRepo UserRepository,
	embedder Embedder,
	langs LanguageDetector,
	logger *zap.Logger,
) *Service {
	return &Service{
		corpus:   corpus,
		users:    users,
		repo:     repo,
		userRepo: userRepo,
		embedder: embedder,
		langs:    langs,
		logger:   logger,
	}
}

// AddDocument embeds and indexes a reference document. The id must not
// already be present; re-registering requires removal first.
func (s *Service) AddDocument(ctx context.Context, id, text string) (domain.ReferenceDocument, error) {
	// Validate before spending embedding tokens.
	doc, err := domain.NewReferenceDocument(id, text, nil, "", "")
	if err != nil {
		return domain.ReferenceDocument{}, err
	}
	if s.corpus.Exists(id) {
		return domain.ReferenceDocument{}, fmt.Errorf("document %q: %w", id, domain.ErrAlreadyExists)
	}

	lang := s.langs.Detect(text)

	result, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return domain.ReferenceDocument{}, fmt.Errorf("embed document %q: %w", id, err)
	}

	doc, err = domain.NewReferenceDocument(id, text, result.Embedding, lang.Code, s.embedder.ModelVersion())
	if err != nil {
		return domain.ReferenceDocument{}, err
	}

	s.corpus.Add(doc)
	s.persist(ctx, doc)
	return doc, nil
}

// RemoveDocument deletes a document from the index and storage.
func (s *Service) RemoveDocument(ctx context.Context, id string) error {
	if !s.corpus.Remove(id) {
		return fmt.Errorf("document %q: %w", id, domain.ErrDocumentNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn("Failed to delete document from storage",
			zap.String("doc_id", id), zap.Error(err))
	}
	return nil
}

// Clear drops the whole reference corpus.
func (s *Service) Clear(ctx context.Context) {
	s.corpus.Clear()
	if err := s.repo.DeleteAll(ctx); err != nil {
		s.logger.Warn("Failed to clear corpus storage", zap.Error(err))
	}
}

// Get returns one indexed document.
func (s *Service) Get(id string) (domain.ReferenceDocument, error) {
	doc, ok := s.corpus.Get(id)
	if !ok {
		return domain.ReferenceDocument{}, fmt.Errorf("document %q: %w", id, domain.ErrDocumentNotFound)
	}
	return doc, nil
}

// List returns all indexed documents in registration order.
func (s *Service) List() []domain.ReferenceDocument {
	return s.corpus.List()
}

// Count returns the corpus size.
func (s *Service) Count() int {
	return s.corpus.Count()
}

// AddUserDocument embeds and indexes a document under its owner.
func (s *Service) AddUserDocument(ctx context.Context, owner, id, text string) (domain.UserDocument, error) {
	doc, err := domain.NewUserDocument(owner, id, text, nil, "", "")
	if err != nil {
		return domain.UserDocument{}, err
	}
	if s.users.Exists(owner, id) {
		return domain.UserDocument{}, fmt.Errorf("document %s/%s: %w", owner, id, domain.ErrAlreadyExists)
	}

	lang := s.langs.Detect(text)

	result, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return domain.UserDocument{}, fmt.Errorf("embed document %s/%s: %w", owner, id, err)
	}

	doc, err = domain.NewUserDocument(owner, id, text, result.Embedding, lang.Code, s.embedder.ModelVersion())
	if err != nil {
		return domain.UserDocument{}, err
	}

	s.users.Add(doc)
	if err := s.userRepo.Save(ctx, doc); err != nil {
		s.logger.Warn("Failed to persist user document",
			zap.String("owner", owner), zap.String("doc_id", id), zap.Error(err))
	}
	return doc, nil
}

// RemoveUserDocument deletes an owner's document.
func (s *Service) RemoveUserDocument(ctx context.Context, owner, id string) error {
	if !s.users.Remove(owner, id) {
		return fmt.Errorf("document %s/%s: %w", owner, id, domain.ErrDocumentNotFound)
	}
	if err := s.userRepo.Delete(ctx, owner, id); err != nil {
		s.logger.Warn("Failed to delete user document from storage",
			zap.String("owner", owner), zap.String("doc_id", id), zap.Error(err))
	}
	return nil
}

// ListUserDocuments returns an owner's documents in registration order.
func (s *Service) ListUserDocuments(owner string) []domain.UserDocument {
	return s.users.ListByOwner(owner)
}

func (s *Service) persist(ctx context.Context, doc domain.ReferenceDocument) {
	if err := s.repo.Save(ctx, doc); err != nil {
		s.logger.Warn("Failed to persist document",
			zap.String("doc_id", doc.ID()), zap.Error(err))
	}
}
