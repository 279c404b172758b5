package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
	"golang.org/x/sync/semaphore"
)

const (
	defaultResourceTimeout = 3 * time.Second
	defaultCaptureTimeout  = 60 * time.Second
	defaultViewportWidth   = 900
	defaultViewportHeight  = 1200
	defaultMaxTabs         = 2
)

// readinessScript resolves once images and fonts have settled and two frames
// have been laid out, or after the timeout with "timeout".
const readinessScript = `new Promise((resolve) => {
  const deadline = setTimeout(() => resolve("timeout"), %d);
  const pending = Array.from(document.images)
    .filter((img) => !img.complete)
    .map((img) => new Promise((done) => {
      img.addEventListener("load", done, { once: true });
      img.addEventListener("error", done, { once: true });
    }));
  const fonts = document.fonts ? document.fonts.ready : Promise.resolve();
  Promise.all([...pending, fonts]).then(() => {
    requestAnimationFrame(() => requestAnimationFrame(() => {
      clearTimeout(deadline);
      resolve("ready");
    }));
  });
})`

type ChromeConfig struct {
	// RemoteURL points at a running Chrome DevTools endpoint. Empty launches
	// a local headless browser.
	RemoteURL       string        `mapstructure:"remote_url"`
	NoSandbox       bool          `mapstructure:"no_sandbox"`
	ViewportWidth   int           `mapstructure:"viewport_width"`
	ViewportHeight  int           `mapstructure:"viewport_height"`
	ResourceTimeout time.Duration `mapstructure:"resource_timeout"`
	CaptureTimeout  time.Duration `mapstructure:"capture_timeout"`
	MaxTabs         int64         `mapstructure:"max_tabs"`
}

// Chrome rasterizes through headless Chrome. One browser is shared; every
// capture runs in its own tab.
type Chrome struct {
	config      ChromeConfig
	tabs        *semaphore.Weighted
	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	closeFn     context.CancelFunc
}

func NewChrome(config ChromeConfig) (*Chrome, error) {
	if config.ViewportWidth <= 0 {
		config.ViewportWidth = defaultViewportWidth
	}
	if config.ViewportHeight <= 0 {
		config.ViewportHeight = defaultViewportHeight
	}
	if config.ResourceTimeout <= 0 {
		config.ResourceTimeout = defaultResourceTimeout
	}
	if config.CaptureTimeout <= 0 {
		config.CaptureTimeout = defaultCaptureTimeout
	}
	if config.MaxTabs <= 0 {
		config.MaxTabs = defaultMaxTabs
	}

	c := &Chrome{
		config: config,
		tabs:   semaphore.NewWeighted(config.MaxTabs),
	}

	if config.RemoteURL != "" {
		c.allocCtx, c.allocCancel = chromedp.NewRemoteAllocator(context.Background(), config.RemoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-extensions", true),
			chromedp.Flag("disable-background-networking", true),
			chromedp.Flag("font-render-hinting", "none"),
			chromedp.WindowSize(config.ViewportWidth, config.ViewportHeight),
		)
		if config.NoSandbox {
			opts = append(opts, chromedp.NoSandbox)
		}
		c.allocCtx, c.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}

	c.browserCtx, c.closeFn = chromedp.NewContext(c.allocCtx)
	// Start the browser eagerly so a missing binary fails at startup.
	if err := chromedp.Run(c.browserCtx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}
	return c, nil
}

func (c *Chrome) Rasterize(ctx context.Context, root *html.Node, scale float64) (*domain.RasterImage, error) {
	logger := zerolog.Ctx(ctx)

	if root == nil {
		return nil, newCaptureError("Rasterize", errors.New("nil render node"))
	}
	if scale <= 0 {
		return nil, newCaptureError("Rasterize", fmt.Errorf("invalid scale %v", scale))
	}

	markup, selector, err := document(root)
	if err != nil {
		return nil, newCaptureError("Render", err)
	}

	if err := c.tabs.Acquire(ctx, 1); err != nil {
		return nil, newCaptureError("Acquire", err)
	}
	defer c.tabs.Release(1)

	tabCtx, cancelTab := chromedp.NewContext(c.browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.config.CaptureTimeout)
	defer cancelTimeout()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var (
		readiness string
		shot      []byte
	)
	script := fmt.Sprintf(readinessScript, c.config.ResourceTimeout.Milliseconds())
	err = chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(c.config.ViewportWidth), int64(c.config.ViewportHeight)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, markup).Do(ctx)
		}),
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.Evaluate(script, &readiness, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ScreenshotScale(selector, scale, &shot, chromedp.ByQuery),
	)
	if err != nil {
		return nil, newCaptureError("Capture", err)
	}
	if readiness != "ready" {
		logger.Warn().
			Dur("timeout", c.config.ResourceTimeout).
			Msg("resources did not settle before capture, continuing without them")
	}

	img, err := decode(shot)
	if err != nil {
		return nil, newCaptureError("Decode", err)
	}

	logger.Debug().
		Int("width", img.Width).
		Int("height", img.Height).
		Float64("scale", scale).
		Msg("captured report batch")
	return img, nil
}

func (c *Chrome) Close() error {
	if c.closeFn != nil {
		c.closeFn()
	}
	if c.allocCancel != nil {
		c.allocCancel()
	}
	return nil
}

// document wraps a detached container into a standalone page and returns the
// selector that addresses the container.
func document(root *html.Node) (string, string, error) {
	var body bytes.Buffer
	if err := html.Render(&body, root); err != nil {
		return "", "", err
	}

	selector := "body > *"
	for _, a := range root.Attr {
		if a.Key == "id" && a.Val != "" {
			selector = "#" + a.Val
		}
	}

	var buf bytes.Buffer
	buf.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8">`)
	buf.WriteString(`<style>html, body { margin: 0; padding: 0; background: #ffffff; }</style>`)
	buf.WriteString(`</head><body>`)
	buf.Write(body.Bytes())
	buf.WriteString(`</body></html>`)
	return buf.String(), selector, nil
}

func decode(data []byte) (*domain.RasterImage, error) {
	if len(data) == 0 {
		return nil, errors.New("empty screenshot")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("screenshot has no pixels (%dx%d)", cfg.Width, cfg.Height)
	}
	return &domain.RasterImage{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
		Data:   data,
	}, nil
}

var _ Rasterizer = (*Chrome)(nil)
