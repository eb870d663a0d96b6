package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/bmp"
)

// DecodeError reports malformed image input.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "decoding image: " + e.Reason
}

// Decode parses raw image bytes (JPEG, PNG or BMP).
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}
	return img, nil
}

// DecodeBase64 decodes a base64 image payload as sent by clients. A data-URL
// header ("data:image/jpeg;base64,") is stripped if present.
func DecodeBase64(s string) ([]byte, error) {
	if idx := strings.IndexByte(s, ','); idx >= 0 && strings.HasPrefix(s, "data:") {
		s = s[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, &DecodeError{Reason: "invalid base64 payload"}
	}
	if len(data) == 0 {
		return nil, &DecodeError{Reason: "empty image payload"}
	}
	return data, nil
}

// EncodeJPEG encodes an image as JPEG for evidentiary storage.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
