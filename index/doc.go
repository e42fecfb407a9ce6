// Package index builds and queries the vector index over requirement
// document chunks.
//
// The Gateway embeds chunk contents one at a time, retrying transient
// embedding-service failures with a linearly growing delay, and pauses
// briefly between chunks to avoid overwhelming a local embedding
// server. Queries embed the query text, normalize the vector, and
// return the top matches by cosine similarity.
package index
