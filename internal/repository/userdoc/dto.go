package userdoc

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/kailas-cloud/simdex/internal/domain"
)

var keyPrefix = domain.KeyPrefix + "userdoc:"

const (
	fieldOwner        = "owner"
	fieldID           = "id"
	fieldText         = "text"
	fieldVector       = "vector"
	fieldLanguage     = "language"
	fieldModelVersion = "model_version"
	fieldCreatedAt    = "created_at"
)

// docKey builds the storage key. Owner and id are carried as hash
// fields too, so key parsing never needs to split on the separator.
func docKey(owner, id string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, owner, id)
}

func scanPattern() string {
	return keyPrefix + "*"
}

func buildHashFields(doc *domain.UserDocument) map[string]string {
	return map[string]string{
		fieldOwner:        doc.Owner(),
		fieldID:           doc.ID(),
		fieldText:         doc.Text(),
		fieldVector:       encodeVector(doc.Vector()),
		fieldLanguage:     doc.Language(),
		fieldModelVersion: doc.ModelVersion(),
		fieldCreatedAt:    doc.CreatedAt().Format(time.RFC3339Nano),
	}
}

func parseHashFields(fields map[string]string) (domain.UserDocument, error) {
	owner := fields[fieldOwner]
	id := fields[fieldID]
	if owner == "" || id == "" {
		return domain.UserDocument{}, fmt.Errorf("missing owner or document id")
	}

	vec, err := decodeVector(fields[fieldVector])
	if err != nil {
		return domain.UserDocument{}, fmt.Errorf("document %s/%s: %w", owner, id, err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fields[fieldCreatedAt])
	if err != nil {
		createdAt = time.Time{}
	}

	return domain.ReconstructUserDocument(
		owner, id, fields[fieldText], vec,
		fields[fieldLanguage], fields[fieldModelVersion], createdAt,
	), nil
}

func encodeVector(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return base64.StdEncoding.EncodeToString(buf)
}

func decodeVector(s string) ([]float32, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode vector: %w", err)
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid vector data: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
