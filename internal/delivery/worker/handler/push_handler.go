package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"rentalhub/config"
	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

func newRetryableError(err error) error {
	return &retryableError{err: err}
}

func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// paymentRefunder is the part of the order usecase the worker drives.
type paymentRefunder interface {
	RefundCancelledOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, bool, error)
}

// orderNotifier pushes order events to the devices of the parties involved.
type orderNotifier interface {
	NotifyOrderEvent(ctx context.Context, event *service.OrderEvent) (*entity.NotificationResult, error)
}

// PushHandler consumes order lifecycle events pushed by Pub/Sub, keeps payment
// bookkeeping in step with them and notifies the parties.
type PushHandler struct {
	verifyPushAuth bool
	logger         *slog.Logger
	refunder       paymentRefunder
	notifier       orderNotifier
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config         *config.Config
	Logger         *slog.Logger
	OrderUC        usecase.OrderUsecase
	NotificationUC usecase.NotificationUsecase
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Only Google pushes carry an OIDC token; local pushes come from the dev publisher.
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		logger:         params.Logger,
		refunder:       params.OrderUC,
		notifier:       params.NotificationUC,
	}
}

// HandlePush handles incoming Pub/Sub push messages. A non-2xx answer makes Pub/Sub
// redeliver, so only retryable failures return one.
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.OrderEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse order event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := h.extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(
		slog.String("request_id", requestID),
		slog.String("event", event.Name),
		slog.String("order_id", event.OrderID.String()),
		slog.String("message_id", pushMsg.Message.MessageID),
	)
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	if err := h.processEvent(ctx, reqLogger, &event); err != nil {
		reqLogger.Error("[Worker] Failed to process order event",
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	h.notify(ctx, reqLogger, &event)

	return c.NoContent(http.StatusOK)
}

// notify never fails the push: a redelivery would repeat the refund check and
// send the notification twice.
func (h *PushHandler) notify(ctx context.Context, logger *slog.Logger, event *service.OrderEvent) {
	if _, err := h.notifier.NotifyOrderEvent(ctx, event); err != nil {
		logger.Warn("[Worker] Failed to notify order parties", slog.Any("error", err))
	}
}

// extractRequestID prefers message attributes, then the event body, then the X-Request-Id
// header, and finally generates one.
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.OrderEvent) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}
	if event.RequestID != "" {
		return event.RequestID
	}
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

func (h *PushHandler) processEvent(ctx context.Context, logger *slog.Logger, event *service.OrderEvent) error {
	if event.OrderID == uuid.Nil {
		return errors.New("order event without order id")
	}

	switch event.Name {
	case constants.EventOrderCancelled:
		return h.refund(ctx, logger, event.OrderID)

	case constants.EventOrderDisputeSettled:
		if event.Status != string(entity.OrderStatusCancelled) {
			logger.Info("[Worker] Dispute settled as completed, nothing to refund")

			return nil
		}

		return h.refund(ctx, logger, event.OrderID)

	case constants.EventOrderDepositRelease:
		logger.Info("[Worker] Deposit release requested",
			slog.String("renter_id", event.RenterID.String()),
			slog.Int64("deposit_amount", event.Deposit),
		)

		return nil

	default:
		logger.Debug("[Worker] Ignoring order event")

		return nil
	}
}

func (h *PushHandler) refund(ctx context.Context, logger *slog.Logger, orderID uuid.UUID) error {
	_, refunded, err := h.refunder.RefundCancelledOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return errors.Wrap(err, "refund skipped")
		}

		return newRetryableError(errors.Wrap(err, "refund cancelled order"))
	}

	logger.Info("[Worker] Cancellation processed", slog.Bool("refunded", refunded))

	return nil
}

// verifyPubSubToken verifies the OIDC token Google attaches to authenticated push requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience is the URL of this endpoint
	scheme := "https"
	if req.TLS == nil {
		scheme = "http"
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	payload, err := idtoken.Validate(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
