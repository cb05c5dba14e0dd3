package handler

import (
	"net/http"
	"time"

	"rentalhub/internal/delivery/api/response"
	"rentalhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AnalyticsHandlerParams holds dependencies for AnalyticsHandler, injected by Fx.
type AnalyticsHandlerParams struct {
	fx.In

	AnalyticsUC usecase.AnalyticsUsecase
}

// AnalyticsHandler serves owner reporting.
type AnalyticsHandler struct {
	analyticsUC usecase.AnalyticsUsecase
	now         func() time.Time
}

// NewAnalyticsHandler is the constructor for AnalyticsHandler
func NewAnalyticsHandler(params AnalyticsHandlerParams) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsUC: params.AnalyticsUC,
		now:         time.Now,
	}
}

// OwnerSummaryQuery is an optional RFC 3339 window; it defaults to the last twelve months.
type OwnerSummaryQuery struct {
	From *time.Time `query:"from"`
	To   *time.Time `query:"to"`
}

// MyOwnerSummary summarises the caller's orders as item owner
func (h *AnalyticsHandler) MyOwnerSummary(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var query OwnerSummaryQuery
	if err := bindQuery(c, &query); err != nil {
		return response.HandleAppError(c, err)
	}

	to := h.now().UTC()
	if query.To != nil {
		to = *query.To
	}
	from := to.AddDate(-1, 0, 0)
	if query.From != nil {
		from = *query.From
	}

	summary, err := h.analyticsUC.OwnerSummary(c.Request().Context(), principal.ID, from, to)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, summary)
}
