// Package raster captures a rendered markup tree as a bitmap.
package raster

import (
	"context"
	"fmt"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"golang.org/x/net/html"
)

// Rasterizer is the host capability that lays out and captures a report
// container. Implementations must not mutate root.
type Rasterizer interface {
	Rasterize(ctx context.Context, root *html.Node, scale float64) (*domain.RasterImage, error)
}

// CaptureError reports a capture that produced no image.
type CaptureError struct {
	Op  string
	Err error
}

func (e *CaptureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("raster.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("raster.%s: capture failed", e.Op)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

func newCaptureError(op string, err error) *CaptureError {
	return &CaptureError{Op: op, Err: err}
}
