package reports

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/de-tools/billing-atlas/pkg/models/store"
	"github.com/de-tools/billing-atlas/pkg/render/layout"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// capture is what the fake rasterizer saw for one batch.
type capture struct {
	groups []string
	text   string
	scale  float64
}

type fakeRasterizer struct {
	t       *testing.T
	png     []byte
	failAt  int
	failErr error

	mu       sync.Mutex
	captures []capture
}

func newFakeRasterizer(t *testing.T) *fakeRasterizer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 50))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &fakeRasterizer{t: t, png: buf.Bytes(), failAt: -1}
}

func (f *fakeRasterizer) Rasterize(_ context.Context, root *html.Node, scale float64) (*domain.RasterImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.captures = append(f.captures, capture{
		groups: layout.GroupIDs(root),
		text:   textContent(root),
		scale:  scale,
	})
	if len(f.captures)-1 == f.failAt {
		return nil, f.failErr
	}
	return &domain.RasterImage{Width: 40, Height: 50, Format: "png", Data: f.png}, nil
}

func (f *fakeRasterizer) Captures() []capture {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]capture(nil), f.captures...)
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func makeTransactions(n int) []domain.Transaction {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := make([]domain.Transaction, n)
	for i := range txs {
		date := base.AddDate(0, 0, n-i)
		txs[i] = domain.Transaction{
			TransNo:      fmt.Sprintf("T%03d", i+1),
			SalesDate:    &date,
			CustNo:       "C001",
			CustomerName: "Acme",
			EmployeeName: "Jane Doe",
			Items: []domain.LineItem{
				{ProdCode: "P1", Description: "Widget", Quantity: i, Unit: "pc"},
			},
		}
	}
	return txs
}

func transNos(txs []domain.Transaction) []string {
	ids := make([]string, len(txs))
	for i, tx := range txs {
		ids[i] = tx.TransNo
	}
	return ids
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListCustomers(ctx context.Context) ([]store.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Customer), args.Error(1)
}

func (m *mockStore) ListSales(ctx context.Context, filter store.SalesFilter) ([]store.Sale, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Sale), args.Error(1)
}

func (m *mockStore) ListPayments(ctx context.Context, filter store.PaymentFilter) ([]store.Payment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Payment), args.Error(1)
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) FetchCustomerList(ctx context.Context) ([]domain.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *mockProvider) FetchTransactions(ctx context.Context, customerID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *mockProvider) FetchPayments(ctx context.Context, customerID string, limit int) ([]domain.Payment, error) {
	args := m.Called(ctx, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// blockingGenerator holds every generation until release is closed.
type blockingGenerator struct {
	started chan struct{}
	release chan struct{}
	err     error
	descs   []domain.ReportDescription
	once    sync.Once
}

func newBlockingGenerator() *blockingGenerator {
	return &blockingGenerator{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *blockingGenerator) Generate(ctx context.Context, desc domain.ReportDescription) (*Result, error) {
	g.descs = append(g.descs, desc)
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if g.err != nil {
		return nil, g.err
	}
	return &Result{Data: []byte("%PDF-1.3"), Pages: 1, Batches: 1}, nil
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)
	}
}
