package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/de-tools/billing-atlas/pkg/adapters"
	"github.com/de-tools/billing-atlas/pkg/models/api"
	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/de-tools/billing-atlas/pkg/services/reports"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	controller reports.Controller
}

func NewHandler(controller reports.Controller) *Handler {
	return &Handler{controller: controller}
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	customers, err := h.controller.Customers(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := make([]api.Customer, 0, len(customers))
	for _, c := range customers {
		response = append(response, adapters.MapDomainCustomerToAPI(c))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	custNo := chi.URLParam(r, "custno")

	txs, err := h.controller.Transactions(ctx, custNo)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := make([]api.Transaction, 0, len(txs))
	for _, tx := range txs {
		response = append(response, adapters.MapDomainTransactionToAPI(tx))
	}
	writeJSON(w, r, http.StatusOK, response)
}

// ListPayments serves both the payment history of one customer and the recent
// payments of everyone, depending on whether the route carries a customer.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	custNo := chi.URLParam(r, "custno")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			zerolog.Ctx(ctx).Warn().Str("limit", v).Msg("invalid payment limit")
			writeJSON(w, r, http.StatusBadRequest, api.ErrorResponse{Message: "Limit must be a non-negative number."})
			return
		}
		limit = n
	}

	payments, err := h.controller.Payments(ctx, custNo, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := make([]api.Payment, 0, len(payments))
	for _, p := range payments {
		response = append(response, adapters.MapDomainPaymentToAPI(p))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	statuses := h.controller.List(r.Context())

	response := make([]api.ReportStatus, 0, len(statuses))
	for _, s := range statuses {
		response = append(response, adapters.MapDomainReportStatusToAPI(s))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	kind, panel := reportParams(r)

	status, err := h.controller.Status(r.Context(), kind, panel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDomainReportStatusToAPI(status))
}

func (h *Handler) LoadReport(w http.ResponseWriter, r *http.Request) {
	kind, panel := reportParams(r)
	scope := r.URL.Query().Get("customer")

	status, err := h.controller.Load(r.Context(), kind, panel, scope)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDomainReportStatusToAPI(status))
}

// GenerateReport streams the finished PDF as a download.
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind, panel := reportParams(r)

	artifact, err := h.controller.Generate(ctx, kind, panel)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	w.Header().Set("X-Report-Pages", strconv.Itoa(artifact.Pages))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact.Data); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("artifact", artifact.Name).Msg("failed to write report")
	}
}

func reportParams(r *http.Request) (domain.ReportKind, string) {
	return domain.ReportKind(chi.URLParam(r, "kind")), chi.URLParam(r, "panel")
}

func statusCode(err error) int {
	var fetchErr *reports.DataFetchError
	switch {
	case errors.Is(err, reports.ErrUnknownReport):
		return http.StatusNotFound
	case errors.Is(err, reports.ErrBusy), errors.Is(err, reports.ErrNotReady):
		return http.StatusConflict
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)
	zerolog.Ctx(r.Context()).Error().Err(err).Int("status", code).Msg("request failed")
	writeJSON(w, r, code, api.ErrorResponse{Message: reports.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
