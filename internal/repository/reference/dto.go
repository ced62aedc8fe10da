package reference

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/kailas-cloud/simdex/internal/domain"
)

var keyPrefix = domain.KeyPrefix + "ref:"

const (
	fieldID           = "id"
	fieldText         = "text"
	fieldVector       = "vector"
	fieldLanguage     = "language"
	fieldModelVersion = "model_version"
	fieldCreatedAt    = "created_at"
)

func docKey(id string) string {
	return keyPrefix + id
}

func scanPattern() string {
	return keyPrefix + "*"
}

// buildHashFields converts a domain document into a flat map for HSET.
func buildHashFields(doc *domain.ReferenceDocument) map[string]string {
	return map[string]string{
		fieldID:           doc.ID(),
		fieldText:         doc.Text(),
		fieldVector:       encodeVector(doc.Vector()),
		fieldLanguage:     doc.Language(),
		fieldModelVersion: doc.ModelVersion(),
		fieldCreatedAt:    doc.CreatedAt().Format(time.RFC3339Nano),
	}
}

// parseHashFields reconstructs a document from stored hash fields.
func parseHashFields(fields map[string]string) (domain.ReferenceDocument, error) {
	id := fields[fieldID]
	if id == "" {
		return domain.ReferenceDocument{}, fmt.Errorf("missing document id")
	}

	vec, err := decodeVector(fields[fieldVector])
	if err != nil {
		return domain.ReferenceDocument{}, fmt.Errorf("document %q: %w", id, err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fields[fieldCreatedAt])
	if err != nil {
		createdAt = time.Time{}
	}

	return domain.ReconstructReferenceDocument(
		id, fields[fieldText], vec,
		fields[fieldLanguage], fields[fieldModelVersion], createdAt,
	), nil
}

// encodeVector packs float32s as little-endian bytes, base64-encoded for
// the string-valued hash field.
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
