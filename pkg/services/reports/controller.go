package reports

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
)

// Sink stores a finished artifact and returns where it ended up.
type Sink interface {
	Save(ctx context.Context, artifact *domain.Artifact) (string, error)
}

type Controller interface {
	Customers(ctx context.Context) ([]domain.Customer, error)
	Transactions(ctx context.Context, customerID string) ([]domain.Transaction, error)
	Payments(ctx context.Context, customerID string, limit int) ([]domain.Payment, error)
	Status(ctx context.Context, kind domain.ReportKind, panel string) (domain.ReportStatus, error)
	Load(ctx context.Context, kind domain.ReportKind, panel, scope string) (domain.ReportStatus, error)
	Generate(ctx context.Context, kind domain.ReportKind, panel string) (*domain.Artifact, error)
	List(ctx context.Context) []domain.ReportStatus
}

type reportKey struct {
	kind  domain.ReportKind
	panel string
}

var panelPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type DefaultController struct {
	provider  DataProvider
	generator DocumentGenerator
	sink      Sink
	opts      []ReportOption

	mu      sync.Mutex
	reports map[reportKey]*Report
}

// NewController creates report instances on first use, one per kind and
// panel. sink may be nil.
func NewController(
	provider DataProvider,
	generator DocumentGenerator,
	sink Sink,
	opts ...ReportOption,
) *DefaultController {
	return &DefaultController{
		provider:  provider,
		generator: generator,
		sink:      sink,
		opts:      opts,
		reports:   make(map[reportKey]*Report),
	}
}

func (ctrl *DefaultController) Customers(ctx context.Context) ([]domain.Customer, error) {
	return ctrl.provider.FetchCustomerList(ctx)
}

func (ctrl *DefaultController) Transactions(ctx context.Context, customerID string) ([]domain.Transaction, error) {
	return ctrl.provider.FetchTransactions(ctx, customerID)
}

func (ctrl *DefaultController) Payments(ctx context.Context, customerID string, limit int) ([]domain.Payment, error) {
	return ctrl.provider.FetchPayments(ctx, customerID, limit)
}

func (ctrl *DefaultController) Status(_ context.Context, kind domain.ReportKind, panel string) (domain.ReportStatus, error) {
	report, err := ctrl.report(kind, panel)
	if err != nil {
		return domain.ReportStatus{}, err
	}
	return report.Status(), nil
}

func (ctrl *DefaultController) Load(ctx context.Context, kind domain.ReportKind, panel, scope string) (domain.ReportStatus, error) {
	report, err := ctrl.report(kind, panel)
	if err != nil {
		return domain.ReportStatus{}, err
	}
	if err := report.Load(ctx, scope); err != nil {
		return report.Status(), err
	}
	return report.Status(), nil
}

// Generate renders the report and hands the artifact to the sink. A sink
// failure is logged and the artifact is still returned.
func (ctrl *DefaultController) Generate(ctx context.Context, kind domain.ReportKind, panel string) (*domain.Artifact, error) {
	report, err := ctrl.report(kind, panel)
	if err != nil {
		return nil, err
	}
	artifact, err := report.Generate(ctx)
	if err != nil {
		return nil, err
	}

	if ctrl.sink != nil {
		location, err := ctrl.sink.Save(ctx, artifact)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("artifact", artifact.Name).Msg("failed to store artifact")
		} else {
			artifact.Location = location
		}
	}
	return artifact, nil
}

func (ctrl *DefaultController) List(_ context.Context) []domain.ReportStatus {
	ctrl.mu.Lock()
	snapshot := maps.Clone(ctrl.reports)
	ctrl.mu.Unlock()

	statuses := make([]domain.ReportStatus, 0, len(snapshot))
	for _, report := range snapshot {
		statuses = append(statuses, report.Status())
	}
	slices.SortFunc(statuses, func(a, b domain.ReportStatus) int {
		if c := strings.Compare(string(a.Kind), string(b.Kind)); c != 0 {
			return c
		}
		return strings.Compare(a.Panel, b.Panel)
	})
	return statuses
}

func (ctrl *DefaultController) report(kind domain.ReportKind, panel string) (*Report, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReport, kind)
	}
	if !panelPattern.MatchString(panel) {
		return nil, fmt.Errorf("%w: invalid panel %q", ErrUnknownReport, panel)
	}

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	key := reportKey{kind: kind, panel: panel}
	if report, ok := ctrl.reports[key]; ok {
		return report, nil
	}
	report, err := NewReport(kind, panel, ctrl.provider, ctrl.generator, ctrl.opts...)
	if err != nil {
		return nil, err
	}
	ctrl.reports[key] = report
	return report, nil
}
