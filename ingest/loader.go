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

package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"

	"github.com/forgeqa/caseforge/core"
)

// Loader reads requirement documents from local files or URLs.
type Loader struct {
	client *http.Client
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader) error

// WithHTTPClient sets the client used for URL sources.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) error {
		if client == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		l.client = client
		return nil
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) (*Loader, error) {
	l := &Loader{
		client: &http.Client{Timeout: 30 * time.Second},
		logger: slog.Default().With("component", "ingest"),
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Load reads the request's source and returns its text as segments,
// one per loaded document (PDFs yield one segment per page). Blank
// documents are dropped; a source with no text at all is an error.
func (l *Loader) Load(ctx context.Context, req *core.Request) ([]core.Segment, error) {
	var (
		docs []schema.Document
		err  error
	)

	source := req.Source()
	if req.URL != "" {
		docs, err = l.loadURL(ctx, req.URL)
	} else {
		docs, err = l.loadFile(ctx, req.FilePath)
	}
	if err != nil {
		return nil, err
	}

	var segments []core.Segment
	for _, doc := range docs {
		content := strings.TrimSpace(doc.PageContent)
		if content == "" {
			continue
		}
		segments = append(segments, core.Segment{
			Source:  source,
			Ordinal: len(segments),
			Content: content,
		})
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, source)
	}

	l.logger.Debug("document loaded", "source", source, "segments", len(segments))
	return segments, nil
}

func (l *Loader) loadFile(ctx context.Context, path string) ([]schema.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".md":
		return documentloaders.NewText(file).Load(ctx)
	case ".pdf":
		info, err := file.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		return documentloaders.NewPDF(file, info.Size()).Load(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
}

func (l *Loader) loadURL(ctx context.Context, url string) ([]schema.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	return documentloaders.NewHTML(resp.Body).Load(ctx)
}
