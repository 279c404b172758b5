// Package export checks finished report documents and delivers them to a
// local directory or an S3 bucket.
package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog"
)

// PDFVerifier re-reads a composed document with pdfcpu and optionally
// rewrites it optimized.
type PDFVerifier struct {
	optimize bool
}

func NewPDFVerifier(optimize bool) *PDFVerifier {
	return &PDFVerifier{optimize: optimize}
}

func (v *PDFVerifier) Verify(ctx context.Context, data []byte, pages int) ([]byte, error) {
	conf := configuration()

	count, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read composed pdf: %w", err)
	}
	if count != pages {
		return nil, fmt.Errorf("composed pdf has %d pages, expected %d", count, pages)
	}
	if !v.optimize {
		return data, nil
	}

	var out bytes.Buffer
	if err := api.Optimize(bytes.NewReader(data), &out, conf); err != nil {
		return nil, fmt.Errorf("failed to optimize pdf: %w", err)
	}
	zerolog.Ctx(ctx).Debug().
		Int("before", len(data)).
		Int("after", out.Len()).
		Msg("pdf optimized")
	return out.Bytes(), nil
}

func configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
