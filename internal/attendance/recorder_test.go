package attendance

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jsetina/faceclock/internal/database"
	"github.com/jsetina/faceclock/internal/database/mock"
	"github.com/jsetina/faceclock/internal/encodings"
	"github.com/jsetina/faceclock/internal/enhance"
	"github.com/jsetina/faceclock/internal/imaging"
	"github.com/jsetina/faceclock/internal/matcher"
	"github.com/jsetina/faceclock/internal/recognizer"
)

type fakeRecognizer struct {
	result *recognizer.Result
	err    error
}

func (f *fakeRecognizer) DetectFaces(_ context.Context, _ []byte) (*recognizer.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func testFrame(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test frame: %v", err)
	}
	return buf.Bytes()
}

func encodingOf(v float32) []float32 {
	enc := make([]float32, 128)
	for i := range enc {
		enc[i] = v
	}
	return enc
}

func newTestRecorder(t *testing.T, rec recognizer.Recognizer) (*Recorder, *mock.Store, *matcher.Matcher) {
	t.Helper()
	db := mock.NewStore()
	m := matcher.New()
	enc, err := encodings.NewStore(db, filepath.Join(t.TempDir(), "encodings"))
	if err != nil {
		t.Fatalf("creating encoding store: %v", err)
	}
	rel := matcher.NewReloader(enc, m)
	r, err := NewRecorder(db, enc, m, rel, rec, enhance.Noop{}, filepath.Join(t.TempDir(), "evidence"), 0.45, 20, 128)
	if err != nil {
		t.Fatalf("creating recorder: %v", err)
	}
	r.now = func() time.Time {
		return time.Date(2026, 8, 30, 9, 15, 42, 0, time.UTC)
	}
	return r, db, m
}

func TestRecord_NoFaceDetected(t *testing.T) {
	rec := &fakeRecognizer{result: &recognizer.Result{}}
	r, db, _ := newTestRecorder(t, rec)

	out, err := r.Record(context.Background(), testFrame(t))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if out.Status != StatusNoFace {
		t.Errorf("status = %q, want %q", out.Status, StatusNoFace)
	}
	if got := db.EventCount(); got != 0 {
		t.Errorf("event count = %d, want 0", got)
	}
}

func TestRecord_NotRecognized(t *testing.T) {
	rec := &fakeRecognizer{result: &recognizer.Result{
		Faces: []recognizer.Face{
			{Region: imaging.Region{Top: 20, Right: 70, Bottom: 70, Left: 20}, Encoding: encodingOf(0.9)},
		},
	}}
	r, db, m := newTestRecorder(t, rec)
	m.Publish(&matcher.Snapshot{
		Encodings:  [][]float32{encodingOf(0.1)},
		Identities: []database.EmployeeSummary{{Name: "Alice Novak"}},
	})

	out, err := r.Record(context.Background(), testFrame(t))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if out.Status != StatusNotRecognized {
		t.Errorf("status = %q, want %q", out.Status, StatusNotRecognized)
	}
	if got := db.EventCount(); got != 0 {
		t.Errorf("event count = %d, want 0", got)
	}
}

func TestRecord_Recorded(t *testing.T) {
	rec := &fakeRecognizer{result: &recognizer.Result{
		Faces: []recognizer.Face{
			{Region: imaging.Region{Top: 20, Right: 70, Bottom: 70, Left: 20}, Encoding: encodingOf(0.1)},
		},
	}}
	r, db, m := newTestRecorder(t, rec)
	m.Publish(&matcher.Snapshot{
		Encodings:  [][]float32{encodingOf(0.1)},
		Identities: []database.EmployeeSummary{{Name: "Alice Novak", Department: "Engineering", Position: "Developer"}},
	})

	out, err := r.Record(context.Background(), testFrame(t))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if out.Status != StatusRecorded {
		t.Fatalf("status = %q, want %q", out.Status, StatusRecorded)
	}
	if out.Employee == nil || out.Employee.Name != "Alice Novak" {
		t.Errorf("employee = %+v, want Alice Novak", out.Employee)
	}
	if out.Date != "2026-08-30" || out.Time != "09:15:42" {
		t.Errorf("timestamp = %s %s, want 2026-08-30 09:15:42", out.Date, out.Time)
	}
	wantPath := "images/alice_novak_2026-08-30_09-15-42.jpg"
	if out.ImagePath != wantPath {
		t.Errorf("image path = %q, want %q", out.ImagePath, wantPath)
	}

	if got := db.EventCount(); got != 1 {
		t.Fatalf("event count = %d, want 1", got)
	}
	events, err := db.ListEvents(context.Background(), database.EventFilter{})
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if events[0].Name != "Alice Novak" || events[0].ImagePath != wantPath {
		t.Errorf("stored event = %+v", events[0])
	}

	evidence := filepath.Join(r.evidenceDir, "alice_novak_2026-08-30_09-15-42.jpg")
	data, err := os.ReadFile(evidence)
	if err != nil {
		t.Fatalf("reading evidence file: %v", err)
	}
	crop, err := imaging.Decode(data)
	if err != nil {
		t.Fatalf("decoding evidence file: %v", err)
	}
	// Region 50x50 expanded by margin 20 on each side, inside a 100x100 frame.
	if w := crop.Bounds().Dx(); w != 90 {
		t.Errorf("evidence width = %d, want 90", w)
	}
}

func TestRecord_FirstMatchingFaceWins(t *testing.T) {
	rec := &fakeRecognizer{result: &recognizer.Result{
		Faces: []recognizer.Face{
			{Region: imaging.Region{Top: 10, Right: 40, Bottom: 40, Left: 10}, Encoding: encodingOf(0.9)},
			{Region: imaging.Region{Top: 50, Right: 90, Bottom: 90, Left: 50}, Encoding: encodingOf(0.1)},
		},
	}}
	r, db, m := newTestRecorder(t, rec)
	m.Publish(&matcher.Snapshot{
		Encodings:  [][]float32{encodingOf(0.1)},
		Identities: []database.EmployeeSummary{{Name: "Bob"}},
	})

	out, err := r.Record(context.Background(), testFrame(t))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if out.Status != StatusRecorded || out.Employee.Name != "Bob" {
		t.Errorf("outcome = %+v, want Bob recorded", out)
	}
	if got := db.EventCount(); got != 1 {
		t.Errorf("event count = %d, want 1", got)
	}
}

func TestRecord_DetectionFailure(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("sidecar unreachable")}
	r, _, _ := newTestRecorder(t, rec)

	if _, err := r.Record(context.Background(), testFrame(t)); err == nil {
		t.Fatal("Record() expected error when detection fails")
	}
}

func TestRecord_PersistFailure(t *testing.T) {
	rec := &fakeRecognizer{result: &recognizer.Result{
		Faces: []recognizer.Face{
			{Region: imaging.Region{Top: 20, Right: 70, Bottom: 70, Left: 20}, Encoding: encodingOf(0.1)},
		},
	}}
	r, db, m := newTestRecorder(t, rec)
	m.Publish(&matcher.Snapshot{
		Encodings:  [][]float32{encodingOf(0.1)},
		Identities: []database.EmployeeSummary{{Name: "Alice"}},
	})
	db.InsertEventError = errors.New("connection reset")

	if _, err := r.Record(context.Background(), testFrame(t)); err == nil {
		t.Fatal("Record() expected error when persistence fails")
	}
}

func TestRegister_ThenRecord(t *testing.T) {
	rec := &fakeRecognizer{result: &recognizer.Result{
		Faces: []recognizer.Face{
			{Region: imaging.Region{Top: 20, Right: 70, Bottom: 70, Left: 20}, Encoding: encodingOf(0.1)},
		},
	}}
	r, db, _ := newTestRecorder(t, rec)

	out, err := r.Register(context.Background(), testFrame(t), "Jana Černá", "HR", "Manager")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if out.Status != StatusRegistered {
		t.Fatalf("status = %q, want %q", out.Status, StatusRegistered)
	}
	if out.Employee.Name != "Jana Černá" {
		t.Errorf("employee name = %q", out.Employee.Name)
	}
	if got := r.KnownFaces(); got != 1 {
		t.Errorf("known faces = %d, want 1", got)
	}

	employees, err := db.ListEmployees(context.Background())
	if err != nil {
		t.Fatalf("ListEmployees() error = %v", err)
	}
	if len(employees) != 1 || employees[0].EncodingRef == "" {
		t.Fatalf("employees = %+v, want one row with encoding ref", employees)
	}
	portrait := employees[0].EncodingRef[:len(employees[0].EncodingRef)-len(".json")] + ".jpg"
	if _, err := os.Stat(filepath.Join(r.encodings.Dir(), portrait)); err != nil {
		t.Errorf("portrait not written: %v", err)
	}

	rrec, err := r.Record(context.Background(), testFrame(t))
	if err != nil {
		t.Fatalf("Record() after Register() error = %v", err)
	}
	if rrec.Status != StatusRecorded || rrec.Employee.Name != "Jana Černá" {
		t.Errorf("outcome after register = %+v", rrec)
	}
}

func TestRegister_WrongEmbeddingDimension(t *testing.T) {
	rec := &fakeRecognizer{result: &recognizer.Result{
		Faces: []recognizer.Face{
			{Region: imaging.Region{Top: 20, Right: 70, Bottom: 70, Left: 20}, Encoding: make([]float32, 64)},
		},
	}}
	r, db, _ := newTestRecorder(t, rec)

	if _, err := r.Register(context.Background(), testFrame(t), "Alice", "", ""); err == nil {
		t.Fatal("Register() expected error for mismatched embedding dimension")
	}
	employees, _ := db.ListEmployees(context.Background())
	if len(employees) != 0 {
		t.Errorf("employees = %d, want 0", len(employees))
	}
}

func TestRegister_NoFace(t *testing.T) {
	rec := &fakeRecognizer{result: &recognizer.Result{}}
	r, db, _ := newTestRecorder(t, rec)

	out, err := r.Register(context.Background(), testFrame(t), "Ghost", "", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if out.Status != StatusNoFace {
		t.Errorf("status = %q, want %q", out.Status, StatusNoFace)
	}
	employees, _ := db.ListEmployees(context.Background())
	if len(employees) != 0 {
		t.Errorf("employees = %d, want 0", len(employees))
	}
}
