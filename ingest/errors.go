package ingest

import "errors"

var (
	// ErrUnsupportedType indicates the source document format has no loader.
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrEmptyDocument indicates the source yielded no text.
	ErrEmptyDocument = errors.New("document contains no text")
)
