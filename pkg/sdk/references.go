package simdex

import (
	"context"
	"fmt"
)

// AddReference embeds and indexes a reference document. The id must not
// already be present; re-registering requires removal first.
func (c *Client) AddReference(ctx context.Context, docID, text string) (Reference, error) {
	d, err := c.refSvc.AddDocument(ctx, docID, text)
	if err != nil {
		return Reference{}, fmt.Errorf("add reference: %w", err)
	}
	return fromInternalReference(d), nil
}

// GetReference retrieves a reference document by ID.
func (c *Client) GetReference(_ context.Context, docID string) (Reference, error) {
	d, err := c.refSvc.Get(docID)
	if err != nil {
		return Reference{}, fmt.Errorf("get reference: %w", err)
	}
	return fromInternalReference(d), nil
}

// ListReferences returns all reference documents.
func (c *Client) ListReferences(_ context.Context) ([]Reference, error) {
	docs := c.refSvc.List()
	out := make([]Reference, len(docs))
	for i, d := range docs {
		out[i] = fromInternalReference(d)
	}
	return out, nil
}

// RemoveReference removes a reference document by ID.
func (c *Client) RemoveReference(ctx context.Context, docID string) error {
	if err := c.refSvc.RemoveDocument(ctx, docID); err != nil {
		return fmt.Errorf("remove reference: %w", err)
	}
	return nil
}

// ClearReferences removes the entire reference corpus.
func (c *Client) ClearReferences(ctx context.Context) error {
	c.refSvc.Clear(ctx)
	return nil
}

// AddUserDocument embeds and indexes a document owned by a user, making
// it visible to other users' cross-user detection.
func (c *Client) AddUserDocument(ctx context.Context, owner, docID, text string) (UserDocument, error) {
	d, err := c.refSvc.AddUserDocument(ctx, owner, docID, text)
	if err != nil {
		return UserDocument{}, fmt.Errorf("add user document: %w", err)
	}
	return fromInternalUserDocument(d), nil
}

// UserDocuments returns all documents owned by a user.
func (c *Client) UserDocuments(_ context.Context, owner string) ([]UserDocument, error) {
	docs := c.refSvc.ListUserDocuments(owner)
	out := make([]UserDocument, len(docs))
	for i, d := range docs {
		out[i] = fromInternalUserDocument(d)
	}
	return out, nil
}

// RemoveUserDocument removes a user document by owner and ID.
func (c *Client) RemoveUserDocument(ctx context.Context, owner, docID string) error {
	if err := c.refSvc.RemoveUserDocument(ctx, owner, docID); err != nil {
		return fmt.Errorf("remove user document: %w", err)
	}
	return nil
}
