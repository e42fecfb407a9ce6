package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so that identical content
// always maps to the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Re-ingesting the same content therefore overwrites the same record instead
// of duplicating it.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Segment is a unit of extracted text with its source provenance.
// Segments are produced by document ingestion (one per page or per
// document, depending on the loader) and are never mutated afterward.
type Segment struct {
	Source  string // file path or URL the text came from
	Ordinal int    // position within the source (page number for PDFs)
	Content string
}

// Chunk is a bounded-size slice of a segment, the unit stored in and
// retrieved from the similarity index. Each chunk keeps a back-reference
// to the segment it was cut from.
type Chunk struct {
	Id         ID
	Source     string // provenance, copied from the originating segment
	Segment    int    // ordinal of the originating segment
	Ordinal    int    // position of this chunk within the whole document
	Content    string
	Vector     []float32 // embedding, populated during indexing
	InsertedAt time.Time
}

// Feature is a named functional capability described in a requirements
// document, either given directly by the caller or discovered by the
// extraction stage.
type Feature struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FeatureSummary records the outcome of processing one feature in batch mode.
type FeatureSummary struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	TestCaseCount      int    `json:"testCaseCount"`
	HallucinationCount int    `json:"hallucinationCount"`
}

// TestCase is a generated QA test case. The provider decides most of its
// contents; only the envelope is enforced, so everything the model returned
// lives in Fields. ID is stable within a run: taken from the provider's
// identifier field when present, synthesized otherwise.
type TestCase struct {
	ID                  string
	Fields              map[string]any
	Feature             string
	FeatureDescription  string
	HallucinationFlag   bool
	HallucinationReason string
}

// MarshalJSON flattens the provider fields and the feature/validation
// annotations into a single object, mirroring the wire shape consumers expect.
func (tc *TestCase) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(tc.Fields)+5)
	for k, v := range tc.Fields {
		out[k] = v
	}
	out["id"] = tc.ID
	if tc.Feature != "" {
		out["feature"] = tc.Feature
		out["feature_description"] = tc.FeatureDescription
	}
	out["hallucination_flag"] = tc.HallucinationFlag
	if tc.HallucinationReason != "" {
		out["hallucination_reason"] = tc.HallucinationReason
	}
	return json.Marshal(out)
}

// Text renders the provider fields for inclusion in a validation prompt.
func (tc *TestCase) Text() string {
	data, err := json.Marshal(tc.Fields)
	if err != nil {
		return fmt.Sprintf("%v", tc.Fields)
	}
	return string(data)
}

// Request is a single pipeline invocation as received from a client.
// Exactly one of FilePath and URL must be set.
type Request struct {
	FilePath        string `json:"filePath,omitempty"`
	URL             string `json:"url,omitempty"`
	FeatureSelector string `json:"featureSelector"`
	TestCaseLimit   int    `json:"testCaseLimit,omitempty"`
}

// Source returns whichever of FilePath and URL is set.
func (r *Request) Source() string {
	if r.FilePath != "" {
		return r.FilePath
	}
	return r.URL
}
