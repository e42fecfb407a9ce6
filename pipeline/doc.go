// Package pipeline orchestrates the requirements-to-test-cases run.
//
// A run flows through an explicit state machine: load the document,
// split it, index the chunks, then either retrieve/generate/validate
// for a single feature or extract every feature and process each one
// in an isolated sub-state. Stages never mutate state in place; each
// returns a delta that is merged functionally, which keeps batch
// sub-states provably independent.
//
// Two entry points exist: Run produces one final Result, and Stream
// emits typed progress events as test cases validate.
package pipeline
