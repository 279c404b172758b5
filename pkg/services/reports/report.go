package reports

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DocumentGenerator turns a description into a finished document.
type DocumentGenerator interface {
	Generate(ctx context.Context, desc domain.ReportDescription) (*Result, error)
}

// Report is one report panel. It owns its loaded data and generation state;
// two reports never share mutable state.
type Report struct {
	kind      domain.ReportKind
	panel     string
	provider  DataProvider
	generator DocumentGenerator
	now       func() time.Time

	mu           sync.Mutex
	state        domain.ReportState
	scope        string
	customers    []domain.Customer
	transactions []domain.Transaction
	updatedAt    time.Time
	err          error
	artifact     string
}

type ReportOption func(*Report)

func WithClock(now func() time.Time) ReportOption {
	return func(r *Report) {
		r.now = now
	}
}

func NewReport(
	kind domain.ReportKind,
	panel string,
	provider DataProvider,
	generator DocumentGenerator,
	opts ...ReportOption,
) (*Report, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReport, kind)
	}
	r := &Report{
		kind:      kind,
		panel:     panel,
		provider:  provider,
		generator: generator,
		now:       time.Now,
		state:     domain.ReportStateIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.updatedAt = r.now()
	return r, nil
}

// Load fetches the report data. Scope narrows transaction reports to one
// customer and is ignored by the customer list.
func (r *Report) Load(ctx context.Context, scope string) error {
	r.mu.Lock()
	switch r.state {
	case domain.ReportStateLoading, domain.ReportStateRendering:
		r.mu.Unlock()
		return ErrBusy
	}
	if r.kind == domain.ReportKindCustomerList {
		scope = ""
	}
	r.setState(domain.ReportStateLoading, nil)
	r.scope = scope
	r.mu.Unlock()

	logger := zerolog.Ctx(ctx).With().
		Str("report", string(r.kind)).
		Str("panel", r.panel).
		Str("scope", scope).
		Logger()

	var (
		customers    []domain.Customer
		transactions []domain.Transaction
		err          error
	)
	switch r.kind {
	case domain.ReportKindCustomerList:
		customers, err = r.provider.FetchCustomerList(ctx)
	case domain.ReportKindCustomerTransactions:
		transactions, err = r.provider.FetchTransactions(ctx, scope)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		logger.Error().Err(err).Msg("failed to load report data")
		r.customers, r.transactions = nil, nil
		r.setState(domain.ReportStateFailed, err)
		return err
	}
	r.customers, r.transactions = customers, transactions
	r.setState(domain.ReportStateReady, nil)
	logger.Info().Int("records", r.records()).Msg("report data loaded")
	return nil
}

// Generate renders the loaded data into a PDF artifact. It is accepted only
// once data is loaded and nothing else is in flight.
func (r *Report) Generate(ctx context.Context) (*domain.Artifact, error) {
	r.mu.Lock()
	switch r.state {
	case domain.ReportStateLoading, domain.ReportStateRendering:
		r.mu.Unlock()
		return nil, ErrBusy
	case domain.ReportStateReady:
	default:
		r.mu.Unlock()
		return nil, ErrNotReady
	}
	now := r.now()
	desc := r.describe(now)
	scope := r.scope
	r.setState(domain.ReportStateRendering, nil)
	r.mu.Unlock()

	logger := zerolog.Ctx(ctx).With().
		Str("generation_id", uuid.NewString()).
		Str("report", string(r.kind)).
		Str("panel", r.panel).
		Logger()
	ctx = logger.WithContext(ctx)

	result, err := r.generator.Generate(ctx, desc)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		logger.Error().Err(err).Msg("report generation failed")
		r.setState(domain.ReportStateFailed, err)
		return nil, err
	}

	artifact := &domain.Artifact{
		Name:        ArtifactName(r.kind, scope, now),
		ContentType: "application/pdf",
		Data:        result.Data,
		Pages:       result.Pages,
		CreatedAt:   now,
	}
	r.artifact = artifact.Name
	r.setState(domain.ReportStateDone, nil)
	return artifact, nil
}

func (r *Report) Status() domain.ReportStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	return domain.ReportStatus{
		Kind:      r.kind,
		Panel:     r.panel,
		State:     r.state,
		Scope:     r.scope,
		Records:   r.records(),
		UpdatedAt: r.updatedAt,
		Error:     userMessage(r.err),
		Artifact:  r.artifact,
	}
}

// Customers returns the loaded customer list.
func (r *Report) Customers() []domain.Customer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Customer(nil), r.customers...)
}

// Transactions returns the loaded transactions.
func (r *Report) Transactions() []domain.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Transaction(nil), r.transactions...)
}

func (r *Report) describe(now time.Time) domain.ReportDescription {
	if r.kind == domain.ReportKindCustomerList {
		return CustomerListDescription(r.customers, now)
	}
	return TransactionsDescription(r.scope, r.transactions, now)
}

func (r *Report) records() int {
	if r.kind == domain.ReportKindCustomerList {
		return len(r.customers)
	}
	return len(r.transactions)
}

// setState must be called with mu held.
func (r *Report) setState(state domain.ReportState, err error) {
	r.state = state
	r.err = err
	r.updatedAt = r.now()
}
