package recognizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jsetina/faceclock/internal/imaging"
)

func TestDetectFaces(t *testing.T) {
	want := Result{
		Faces: []Face{
			{
				Region:   imaging.Region{Top: 10, Right: 90, Bottom: 100, Left: 20},
				Encoding: []float32{0.1, 0.2},
				Score:    0.98,
			},
		},
		Model: "test-model",
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/faces" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("expected multipart form: %v", err)
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer f.Close()
		if header.Header.Get("Content-Type") != "image/jpeg" {
			t.Errorf("expected image/jpeg part, got %q", header.Header.Get("Content-Type"))
		}
		json.NewEncoder(w).Encode(want)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	jpegMagic := []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2, 3, 4}

	got, err := client.DetectFaces(context.Background(), jpegMagic)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if len(got.Faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(got.Faces))
	}
	if got.Faces[0].Region != want.Faces[0].Region {
		t.Errorf("region = %+v; want %+v", got.Faces[0].Region, want.Faces[0].Region)
	}
	if len(got.Faces[0].Encoding) != 2 {
		t.Errorf("unexpected encoding %v", got.Faces[0].Encoding)
	}
}

func TestDetectFaces_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.DetectFaces(context.Background(), []byte{1, 2, 3, 4, 5, 6, 7, 8}); err == nil {
		t.Error("expected error on 500 response")
	}
}

func TestDetectFaces_NoFaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Result{Model: "test-model"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	got, err := client.DetectFaces(context.Background(), []byte{1, 2, 3, 4, 5, 6, 7, 8})
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if len(got.Faces) != 0 {
		t.Errorf("expected no faces, got %d", len(got.Faces))
	}
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}, "image/jpeg"},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
		{"bmp", []byte{0x42, 0x4D, 0, 0, 0, 0, 0, 0}, "image/bmp"},
		{"unknown", []byte{1, 2, 3, 4, 5, 6, 7, 8}, "application/octet-stream"},
		{"too short", []byte{0xFF}, "application/octet-stream"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := detectMIMEType(tc.data); got != tc.want {
				t.Errorf("detectMIMEType = %q; want %q", got, tc.want)
			}
		})
	}
}
