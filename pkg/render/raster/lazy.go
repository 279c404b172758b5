package raster

import (
	"context"
	"sync"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"golang.org/x/net/html"
)

// LazyChrome starts the browser on the first capture, so commands that never
// render do not pay for it.
type LazyChrome struct {
	config ChromeConfig
	start  func(ChromeConfig) (Rasterizer, func() error, error)

	mu     sync.Mutex
	chrome Rasterizer
	close  func() error
}

func NewLazyChrome(config ChromeConfig) *LazyChrome {
	return &LazyChrome{config: config, start: startChrome}
}

func startChrome(config ChromeConfig) (Rasterizer, func() error, error) {
	c, err := NewChrome(config)
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}

func (l *LazyChrome) Rasterize(ctx context.Context, root *html.Node, scale float64) (*domain.RasterImage, error) {
	r, err := l.rasterizer()
	if err != nil {
		return nil, newCaptureError("Start", err)
	}
	return r.Rasterize(ctx, root, scale)
}

func (l *LazyChrome) rasterizer() (Rasterizer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.chrome != nil {
		return l.chrome, nil
	}
	r, closeFn, err := l.start(l.config)
	if err != nil {
		return nil, err
	}
	l.chrome, l.close = r, closeFn
	return r, nil
}

// Close stops the browser if it was started.
func (l *LazyChrome) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.close == nil {
		return nil
	}
	err := l.close()
	l.chrome, l.close = nil, nil
	return err
}
