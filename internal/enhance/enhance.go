// Package enhance optionally improves evidentiary crop quality through an
// external sidecar. Enhancement is best effort: any failure falls back to
// the original crop.
package enhance

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"strings"
)

// Enhancer transforms a JPEG crop into an improved JPEG crop.
type Enhancer interface {
	Enhance(ctx context.Context, crop []byte) []byte
}

// Noop returns every crop unchanged. Used when no enhancer is configured.
type Noop struct{}

// Enhance returns the crop as is.
func (Noop) Enhance(ctx context.Context, crop []byte) []byte { return crop }

// Client posts crops to an enhancement sidecar. On any error the original
// crop is returned unchanged, with a log line.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates an enhancement sidecar client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
	}
}

// Enhance posts the crop to the sidecar and returns the improved image, or
// the original on any failure.
func (c *Client) Enhance(ctx context.Context, crop []byte) []byte {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/enhance", bytes.NewReader(crop))
	if err != nil {
		log.Printf("enhance: building request: %v", err)
		return crop
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("enhance: request failed, using original crop: %v", err)
		return crop
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("enhance: sidecar returned status %d, using original crop", resp.StatusCode)
		return crop
	}

	improved, err := io.ReadAll(resp.Body)
	if err != nil || len(improved) == 0 {
		log.Printf("enhance: unreadable response, using original crop")
		return crop
	}
	return improved
}

// FromURL returns a Client when url is set, Noop otherwise.
func FromURL(url string) Enhancer {
	if url == "" {
		return Noop{}
	}
	return NewClient(url)
}
