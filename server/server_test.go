package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeqa/caseforge/core"
	"github.com/forgeqa/caseforge/pipeline"
)

type stubRunner struct {
	result *pipeline.Result
	events []pipeline.Event
	err    error
	gotReq *core.Request
}

func (r *stubRunner) Run(ctx context.Context, req *core.Request) (*pipeline.Result, error) {
	r.gotReq = req
	if r.err != nil {
		return nil, r.err
	}
	return r.result, nil
}

func (r *stubRunner) Stream(ctx context.Context, req *core.Request) (<-chan pipeline.Event, error) {
	r.gotReq = req
	if r.err != nil {
		return nil, r.err
	}
	events := make(chan pipeline.Event, len(r.events))
	for _, e := range r.events {
		events <- e
	}
	close(events)
	return events, nil
}

func newTestServer(t *testing.T, runner Runner) *Server {
	t.Helper()
	s, err := New(runner, WithUploadsDir(filepath.Join(t.TempDir(), "uploads")))
	require.NoError(t, err)
	return s
}

func TestStatusEndpoint(t *testing.T) {
	s := newTestServer(t, &stubRunner{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestGenerateEndpoint(t *testing.T) {
	runner := &stubRunner{result: &pipeline.Result{
		TestCases: []*core.TestCase{{ID: "TC-1", Fields: map[string]any{"Description": "login"}}},
		HallucinationReport: pipeline.HallucinationReport{
			Issues: []string{},
		},
	}}
	s := newTestServer(t, runner)

	body := `{"filePath": "uploads/spec.txt", "featureSelector": "Login", "testCaseLimit": 3}`
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, runner.gotReq)
	assert.Equal(t, "uploads/spec.txt", runner.gotReq.FilePath)
	assert.Equal(t, "Login", runner.gotReq.FeatureSelector)
	assert.Equal(t, 3, runner.gotReq.TestCaseLimit)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	cases, ok := decoded["testCases"].([]any)
	require.True(t, ok)
	require.Len(t, cases, 1)
}

func TestGenerateInvalidRequest(t *testing.T) {
	runner := &stubRunner{err: core.ErrInvalidRequest}
	s := newTestServer(t, runner)

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"featureSelector": "Login"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateRejectsGet(t *testing.T) {
	s := newTestServer(t, &stubRunner{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGenerateStreamEndpoint(t *testing.T) {
	runner := &stubRunner{events: []pipeline.Event{
		{Type: pipeline.EventStatus, Message: "Loading document..."},
		{Type: pipeline.EventTestCase, TestCase: &core.TestCase{ID: "TC-1"}},
		{Type: pipeline.EventComplete, Result: &pipeline.Result{TestCases: []*core.TestCase{}}},
	}}
	s := newTestServer(t, runner)

	body := `{"filePath": "uploads/spec.txt", "featureSelector": "Login"}`
	req := httptest.NewRequest(http.MethodPost, "/generate-stream", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	// Each event arrives as one SSE data frame, in order.
	frames := strings.Split(strings.TrimSpace(rec.Body.String()), "\n\n")
	require.Len(t, frames, 3)
	assert.Contains(t, frames[0], `"status"`)
	assert.Contains(t, frames[1], `"test_case"`)
	assert.Contains(t, frames[2], `"complete"`)
	for _, frame := range frames {
		assert.True(t, strings.HasPrefix(frame, "data: "))
	}
}

func TestUploadEndpoint(t *testing.T) {
	s := newTestServer(t, &stubRunner{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "requirements.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("The system shall support login."))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "requirements.txt", resp["filename"])
	assert.True(t, strings.HasSuffix(resp["filePath"], ".txt"))

	// The stored file carries the uploaded contents.
	data, err := os.ReadFile(resp["filePath"])
	require.NoError(t, err)
	assert.Equal(t, "The system shall support login.", string(data))
}

func TestCORSPreflights(t *testing.T) {
	s := newTestServer(t, &stubRunner{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/generate", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
