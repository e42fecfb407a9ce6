package pipeline

import "errors"

var (
	// ErrLoaderRequired indicates a nil document loader was provided.
	ErrLoaderRequired = errors.New("document loader is required")

	// ErrSplitterRequired indicates a nil splitter was provided.
	ErrSplitterRequired = errors.New("splitter is required")

	// ErrIndexerRequired indicates a nil indexer was provided.
	ErrIndexerRequired = errors.New("indexer is required")

	// ErrCompleterRequired indicates a nil completer was provided.
	ErrCompleterRequired = errors.New("completer is required")
)
