// Package ingest turns a requirements document into indexable chunks.
//
// The Loader reads a local file (plain text, markdown, or PDF) or
// fetches a URL and strips it to text, producing segments. The
// Splitter cuts segments into overlapping chunks sized for embedding,
// preserving provenance back-references on every chunk.
package ingest
