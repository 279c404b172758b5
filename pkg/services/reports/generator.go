package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/de-tools/billing-atlas/pkg/render/layout"
	"github.com/de-tools/billing-atlas/pkg/render/normalize"
	"github.com/de-tools/billing-atlas/pkg/render/paginate"
	"github.com/de-tools/billing-atlas/pkg/render/raster"
	"github.com/rs/zerolog"
)

// FinalizeBatch is the batch index reported when serialization or
// verification of the finished document fails.
const FinalizeBatch = -1

// Verifier checks a serialized document before it is handed out and may
// return a rewritten copy.
type Verifier interface {
	Verify(ctx context.Context, data []byte, pages int) ([]byte, error)
}

type Generator struct {
	rasterizer raster.Rasterizer
	format     paginate.Format
	policy     BatchPolicy
	verifier   Verifier
}

type GeneratorOption func(*Generator)

func WithFormat(f paginate.Format) GeneratorOption {
	return func(g *Generator) {
		g.format = f
	}
}

func WithBatchPolicy(p BatchPolicy) GeneratorOption {
	return func(g *Generator) {
		g.policy = p
	}
}

func WithVerifier(v Verifier) GeneratorOption {
	return func(g *Generator) {
		g.verifier = v
	}
}

func NewGenerator(rasterizer raster.Rasterizer, opts ...GeneratorOption) (*Generator, error) {
	if rasterizer == nil {
		return nil, fmt.Errorf("rasterizer is nil")
	}
	g := &Generator{
		rasterizer: rasterizer,
		format:     paginate.A4,
		policy:     DefaultBatchPolicy(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid batch policy: %w", err)
	}
	return g, nil
}

type Result struct {
	Data    []byte
	Pages   int
	Batches int
	Tier    Tier
}

// Generate renders desc batch by batch into one document. Batches run
// strictly in order; the first failure aborts the document and no bytes are
// returned.
func (g *Generator) Generate(ctx context.Context, desc domain.ReportDescription) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	tier := g.policy.Select(len(desc.Groups))
	batches := Partition(desc.Groups, tier.BatchSize)
	if len(batches) == 0 {
		// header only
		batches = [][]domain.Transaction{nil}
	}

	logger.Info().
		Int("groups", len(desc.Groups)).
		Int("batch_size", tier.BatchSize).
		Int("batches", len(batches)).
		Float64("scale", tier.Scale).
		Msg("generating report")

	start := time.Now()
	doc := paginate.NewDocument(g.format)
	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return nil, &ReportGenerationError{Batch: i, Err: err}
		}
		if err := g.renderBatch(ctx, doc, desc, batch, tier.Scale); err != nil {
			logger.Error().Err(err).Int("batch", i).Int("groups", len(batch)).Msg("batch failed")
			return nil, &ReportGenerationError{Batch: i, Err: err}
		}
		logger.Debug().Int("batch", i).Int("pages", doc.PageCount()).Msg("batch appended")
	}

	data, err := doc.Finalize()
	if err != nil {
		return nil, &ReportGenerationError{Batch: FinalizeBatch, Err: err}
	}
	if g.verifier != nil {
		data, err = g.verifier.Verify(ctx, data, doc.PageCount())
		if err != nil {
			return nil, &ReportGenerationError{Batch: FinalizeBatch, Err: err}
		}
	}

	logger.Info().
		Int("pages", doc.PageCount()).
		Int("bytes", len(data)).
		Dur("duration", time.Since(start)).
		Msg("report generated")

	return &Result{
		Data:    data,
		Pages:   doc.PageCount(),
		Batches: len(batches),
		Tier:    tier,
	}, nil
}

// renderBatch builds a fresh container for groups, normalizes it, captures it
// and appends the image. The container is dropped afterwards.
func (g *Generator) renderBatch(
	ctx context.Context,
	doc *paginate.Document,
	desc domain.ReportDescription,
	groups []domain.Transaction,
	scale float64,
) error {
	root, err := layout.Build(desc, groups)
	if err != nil {
		return err
	}
	normalize.Normalize(root)
	if err := normalize.Verify(root); err != nil {
		return fmt.Errorf("layout not normalized: %w", err)
	}

	img, err := g.rasterizer.Rasterize(ctx, root, scale)
	if err != nil {
		return &RenderCaptureError{Err: err}
	}
	return doc.AppendImage(img, paginate.ModeAuto)
}
