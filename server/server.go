// Copyright 2026 ForgeQA Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/forgeqa/caseforge/core"
	"github.com/forgeqa/caseforge/pipeline"
)

// Runner executes pipeline requests; satisfied by caseforge.Engine.
type Runner interface {
	Run(ctx context.Context, req *core.Request) (*pipeline.Result, error)
	Stream(ctx context.Context, req *core.Request) (<-chan pipeline.Event, error)
}

// Server is the HTTP front end for the pipeline.
type Server struct {
	runner     Runner
	uploadsDir string
	logger     *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithUploadsDir sets the directory uploaded documents are stored in.
// Default is "uploads".
func WithUploadsDir(dir string) Option {
	return func(s *Server) error {
		if dir == "" {
			return fmt.Errorf("uploads directory cannot be empty")
		}
		s.uploadsDir = dir
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New creates a Server over the given runner.
func New(runner Runner, opts ...Option) (*Server, error) {
	if runner == nil {
		return nil, fmt.Errorf("runner cannot be nil")
	}

	s := &Server{
		runner:     runner,
		uploadsDir: "uploads",
		logger:     slog.Default().With("component", "server"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Handler returns the routed HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/upload", s.handleUpload)
	mux.HandleFunc("/generate", s.handleGenerate)
	mux.HandleFunc("/generate-stream", s.handleGenerateStream)
	return corsMiddleware(mux)
}

// ListenAndServe starts the HTTP server on addr and blocks until it stops.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// corsMiddleware allows cross-origin access from any origin, matching
// the browser front end's expectations.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
