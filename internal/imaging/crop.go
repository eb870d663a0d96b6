// Package imaging provides the image decode, crop and encode helpers used by
// registration and attendance recording.
package imaging

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Region is a detected face bounding box in pixel coordinates relative to
// the frame, using the (top, right, bottom, left) convention of the
// detection sidecar.
type Region struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// Expand grows the region by margin pixels on every side and clamps each
// edge to the frame, so the result never indexes outside [0,w) x [0,h).
func (r Region) Expand(margin, width, height int) Region {
	out := Region{
		Top:    r.Top - margin,
		Right:  r.Right + margin,
		Bottom: r.Bottom + margin,
		Left:   r.Left - margin,
	}
	if out.Top < 0 {
		out.Top = 0
	}
	if out.Left < 0 {
		out.Left = 0
	}
	if out.Bottom > height {
		out.Bottom = height
	}
	if out.Right > width {
		out.Right = width
	}
	return out
}

// Empty reports whether the region spans no pixels.
func (r Region) Empty() bool {
	return r.Bottom <= r.Top || r.Right <= r.Left
}

// Crop extracts the margin-expanded, frame-clamped face region from frame
// into a new image. Pure function of its inputs.
func Crop(frame image.Image, region Region, margin int) (image.Image, error) {
	bounds := frame.Bounds()
	expanded := region.Expand(margin, bounds.Dx(), bounds.Dy())
	if expanded.Empty() {
		return nil, fmt.Errorf("region %+v is empty after clamping to %dx%d", region, bounds.Dx(), bounds.Dy())
	}

	out := image.NewRGBA(image.Rect(0, 0, expanded.Right-expanded.Left, expanded.Bottom-expanded.Top))
	src := image.Rect(
		bounds.Min.X+expanded.Left,
		bounds.Min.Y+expanded.Top,
		bounds.Min.X+expanded.Right,
		bounds.Min.Y+expanded.Bottom,
	)
	draw.Copy(out, image.Point{}, frame, src, draw.Src, nil)
	return out, nil
}
