// Package ollama implements the ai interfaces against a local Ollama server.
//
// Completions use Ollama's chat API with temperature 0 and JSON mode;
// embeddings use a separate embedding model on the same server. This is the
// default provider and also supplies embeddings when Groq handles
// completions, since Groq exposes no embedding endpoint.
package ollama
