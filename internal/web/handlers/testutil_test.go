package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jsetina/faceclock/internal/attendance"
)

// fakeRecorder implements RecorderService with canned responses.
type fakeRecorder struct {
	outcome    *attendance.Outcome
	err        error
	reloaded   int
	reloadErr  error
	knownFaces int

	lastImage []byte
	lastName  string
}

func (f *fakeRecorder) Record(_ context.Context, imageData []byte) (*attendance.Outcome, error) {
	f.lastImage = imageData
	return f.outcome, f.err
}

func (f *fakeRecorder) Register(_ context.Context, imageData []byte, name, _, _ string) (*attendance.Outcome, error) {
	f.lastImage = imageData
	f.lastName = name
	return f.outcome, f.err
}

func (f *fakeRecorder) Reload(_ context.Context) (int, error) {
	return f.reloaded, f.reloadErr
}

func (f *fakeRecorder) KnownFaces() int {
	return f.knownFaces
}

func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, want int) {
	t.Helper()
	if recorder.Code != want {
		t.Errorf("status = %d, want %d (body: %s)", recorder.Code, want, recorder.Body.String())
	}
}

func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, want string) {
	t.Helper()
	got := recorder.Header().Get("Content-Type")
	if !strings.HasPrefix(got, want) {
		t.Errorf("content type = %q, want %q", got, want)
	}
}

func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), out); err != nil {
		t.Fatalf("parsing response body: %v (body: %s)", err, recorder.Body.String())
	}
}
