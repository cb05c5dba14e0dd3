package handler

import (
	"net/http"
	"strconv"
	"strings"

	"rentalhub/internal/delivery/api/response"
	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	headerIfMatch        = "If-Match"
	headerIdempotencyKey = "Idempotency-Key"
)

// PageQuery is the paging part of a list query string.
type PageQuery struct {
	Page     int `query:"page" validate:"gte=0"`
	PageSize int `query:"page_size" validate:"gte=0"`
}

// PageRequest converts the query into a use-case page request.
func (q PageQuery) PageRequest() usecase.PageRequest {
	return usecase.PageRequest{Page: q.Page, PageSize: q.PageSize}
}

// HealthCheck reports that the process is serving.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

// bindBody binds and validates a JSON body.
func bindBody(c echo.Context, req any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, req); err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("malformed request body"), err.Error())
	}

	return c.Validate(req)
}

// bindQuery binds and validates query parameters.
func bindQuery(c echo.Context, req any) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, req); err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("malformed query parameters"), err.Error())
	}

	return c.Validate(req)
}

func principalOf(c echo.Context) (entity.Principal, error) {
	principal, ok := deliverycontext.GetPrincipal(c)
	if !ok {
		return entity.Principal{}, errors.Wrap(domainerrors.ErrUnauthorized, "no principal on request")
	}

	return principal, nil
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("invalid "+name), err.Error())
	}

	return id, nil
}

func parseScope(raw string) (entity.PolicyScope, error) {
	scope, err := entity.ParsePolicyScope(raw)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(err.Error()), "parse scope")
	}

	return scope, nil
}

// expectedVersion reads the optimistic-concurrency version from If-Match. An absent header
// means the caller does not guard on version.
func expectedVersion(c echo.Context) (*int, error) {
	raw := strings.TrimSpace(c.Request().Header.Get(headerIfMatch))
	if raw == "" || raw == "*" {
		return nil, nil
	}
	raw = strings.Trim(strings.TrimPrefix(raw, "W/"), `"`)

	version, err := strconv.Atoi(raw)
	if err != nil || version < 1 {
		return nil, errors.Wrapf(domainerrors.ErrValidationFailed.WithDetails("If-Match must carry an order version"), "if-match %q", raw)
	}

	return &version, nil
}

// orderResponse renders an order and exposes its version as ETag.
func orderResponse(c echo.Context, statusCode int, order *entity.Order) error {
	return response.Versioned(c, statusCode, order.Version, order)
}
