// Package server exposes the pipeline over HTTP: upload a requirements
// document, generate test cases in one shot, or stream them over
// Server-Sent Events as each case validates.
package server
