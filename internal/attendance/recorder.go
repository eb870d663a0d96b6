// Package attendance orchestrates the recognition flows: detect faces,
// match against the known set, extract the evidentiary crop and persist the
// event. Registration enrolls a new face and republishes the known set.
package attendance

import (
	"context"
	"fmt"
	"image"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/jsetina/faceclock/internal/database"
	"github.com/jsetina/faceclock/internal/encodings"
	"github.com/jsetina/faceclock/internal/enhance"
	"github.com/jsetina/faceclock/internal/imaging"
	"github.com/jsetina/faceclock/internal/matcher"
	"github.com/jsetina/faceclock/internal/recognizer"
)

// Status classifies the result of a recognition flow.
type Status string

const (
	StatusRecorded      Status = "recorded"
	StatusRegistered    Status = "registered"
	StatusNoFace        Status = "no_face_detected"
	StatusNotRecognized Status = "not_recognized"
)

// Outcome is the structured result of Record or Register. Employee is set
// for StatusRecorded and StatusRegistered.
type Outcome struct {
	Status    Status                    `json:"status"`
	Employee  *database.EmployeeSummary `json:"employee,omitempty"`
	Date      string                    `json:"date,omitempty"`
	Time      string                    `json:"time,omitempty"`
	ImagePath string                    `json:"image_path,omitempty"`
}

// Recorder wires the matcher, encoding store and persistence together.
type Recorder struct {
	db          database.Store
	encodings   *encodings.Store
	matcher     *matcher.Matcher
	reloader    *matcher.Reloader
	recognizer  recognizer.Recognizer
	enhancer    enhance.Enhancer
	evidenceDir string
	tolerance   float64
	margin      int
	dim         int

	now func() time.Time
}

// NewRecorder creates the evidence directory and wires the dependencies.
func NewRecorder(
	db database.Store,
	enc *encodings.Store,
	m *matcher.Matcher,
	rel *matcher.Reloader,
	rec recognizer.Recognizer,
	enh enhance.Enhancer,
	evidenceDir string,
	tolerance float64,
	margin, dim int,
) (*Recorder, error) {
	if err := os.MkdirAll(evidenceDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating evidence directory: %w", err)
	}
	if enh == nil {
		enh = enhance.Noop{}
	}
	return &Recorder{
		db:          db,
		encodings:   enc,
		matcher:     m,
		reloader:    rel,
		recognizer:  rec,
		enhancer:    enh,
		evidenceDir: evidenceDir,
		tolerance:   tolerance,
		margin:      margin,
		dim:         dim,
		now:         time.Now,
	}, nil
}

// Record runs the attendance flow on one frame. The first detected face that
// matches wins; remaining faces in the frame are ignored (single subject per
// frame). Infrastructure failures return an error; "no face" and "nobody
// matched" are ordinary outcomes.
func (r *Recorder) Record(ctx context.Context, imageData []byte) (*Outcome, error) {
	result, err := r.recognizer.DetectFaces(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("detecting faces: %w", err)
	}
	if len(result.Faces) == 0 {
		return &Outcome{Status: StatusNoFace}, nil
	}

	frame, err := imaging.Decode(imageData)
	if err != nil {
		return nil, err
	}

	for _, face := range result.Faces {
		summary, ok := r.matcher.Match(face.Encoding, r.tolerance)
		if !ok {
			continue
		}

		now := r.now()
		date := now.Format("2006-01-02")
		clock := now.Format("15:04:05")

		imagePath, err := r.saveEvidence(ctx, frame, face.Region, summary.Name, date, now.Format("15-04-05"))
		if err != nil {
			return nil, err
		}

		if _, err := r.db.InsertEvent(ctx, &database.AttendanceEvent{
			Name:       summary.Name,
			Department: summary.Department,
			Position:   summary.Position,
			Date:       date,
			Time:       clock,
			ImagePath:  imagePath,
		}); err != nil {
			return nil, fmt.Errorf("persisting attendance event: %w", err)
		}

		s := summary
		return &Outcome{
			Status:    StatusRecorded,
			Employee:  &s,
			Date:      date,
			Time:      clock,
			ImagePath: imagePath,
		}, nil
	}

	return &Outcome{Status: StatusNotRecognized}, nil
}

// Register enrolls the first detected face in the frame under the given
// identity, then rebuilds and republishes the known set.
func (r *Recorder) Register(ctx context.Context, imageData []byte, name, department, position string) (*Outcome, error) {
	result, err := r.recognizer.DetectFaces(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("detecting faces: %w", err)
	}
	if len(result.Faces) == 0 {
		return &Outcome{Status: StatusNoFace}, nil
	}
	face := result.Faces[0]

	// Distances are only meaningful between embeddings of the same length,
	// so reject registrations produced by a differently-configured sidecar.
	if r.dim > 0 && len(face.Encoding) != r.dim {
		return nil, fmt.Errorf("encoder returned %d-dimensional embedding, expected %d", len(face.Encoding), r.dim)
	}

	frame, err := imaging.Decode(imageData)
	if err != nil {
		return nil, err
	}

	employee := &database.Employee{Name: name, Department: department, Position: position}
	ref, err := r.encodings.Append(ctx, employee, face.Encoding)
	if err != nil {
		return nil, fmt.Errorf("storing encoding: %w", err)
	}

	// Keep a portrait of the enrolled face beside the encoding blob.
	portrait := ref[:len(ref)-len(filepath.Ext(ref))] + ".jpg"
	if err := r.writeCrop(ctx, frame, face.Region, filepath.Join(r.encodings.Dir(), portrait)); err != nil {
		return nil, err
	}

	if _, err := r.reloader.Reload(ctx); err != nil {
		return nil, err
	}

	summary := employee.Summary()
	return &Outcome{Status: StatusRegistered, Employee: &summary}, nil
}

// Reload rebuilds the known-face snapshot from storage and returns the
// number of faces loaded.
func (r *Recorder) Reload(ctx context.Context) (int, error) {
	return r.reloader.Reload(ctx)
}

// KnownFaces returns the size of the current snapshot.
func (r *Recorder) KnownFaces() int {
	return r.matcher.Count()
}

// saveEvidence crops the matched region, optionally enhances it and writes
// it under the evidence directory. Returns the relative path stored on the
// event row.
func (r *Recorder) saveEvidence(ctx context.Context, frame image.Image, region imaging.Region, name, date, clock string) (string, error) {
	filename := fmt.Sprintf("%s_%s_%s.jpg", encodings.Slug(name), date, clock)
	if err := r.writeCrop(ctx, frame, region, filepath.Join(r.evidenceDir, filename)); err != nil {
		return "", err
	}
	return path.Join("images", filename), nil
}

func (r *Recorder) writeCrop(ctx context.Context, frame image.Image, region imaging.Region, dest string) error {
	crop, err := imaging.Crop(frame, region, r.margin)
	if err != nil {
		return err
	}
	encoded, err := imaging.EncodeJPEG(crop)
	if err != nil {
		return err
	}
	encoded = r.enhancer.Enhance(ctx, encoded)
	if err := os.WriteFile(dest, encoded, 0o644); err != nil {
		return fmt.Errorf("writing face crop: %w", err)
	}
	return nil
}
