package impl

import (
	"context"
	"log/slog"
	"time"

	"rentalhub/config"
	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/pricing"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager       repository.TransactionManager
	orderRepo       repository.OrderRepository
	catalog         service.ItemCatalog
	idempotency     service.IdempotencyStore
	publisher       service.EventPublisher
	qrcodeService   service.QRCodeService
	defaultFeeRate  decimal.Decimal
	idempotencyTTL  time.Duration
	defaultPageSize int
	maxPageSize     int
	logger          *slog.Logger
	now             func() time.Time
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	OrderRepo        repository.OrderRepository
	Catalog          service.ItemCatalog
	IdempotencyStore service.IdempotencyStore
	EventPublisher   service.EventPublisher
	QRCodeService    service.QRCodeService
	Config           *config.Config
	Logger           *slog.Logger
}

// NewOrderService creates a new order service instance
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager:       params.TxManager,
		orderRepo:       params.OrderRepo,
		catalog:         params.Catalog,
		idempotency:     params.IdempotencyStore,
		publisher:       params.EventPublisher,
		qrcodeService:   params.QRCodeService,
		defaultFeeRate:  params.Config.ServiceFee.DefaultRatePercent,
		idempotencyTTL:  params.Config.Checkout.IdempotencyTTL,
		defaultPageSize: params.Config.Pagination.DefaultPageSize,
		maxPageSize:     params.Config.Pagination.MaxPageSize,
		logger:          params.Logger,
		now:             time.Now,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateOrder prices the rental, settles it once and stores the pending order together
// with the consumed discount uses.
func (srv *orderService) CreateOrder(ctx context.Context, input *usecase.CreateOrderInput) (order *entity.Order, err error) {
	if err := validateCreateOrder(input); err != nil {
		return nil, err
	}

	if input.IdempotencyKey != "" {
		key := idempotencyKey(input.RenterID, input.IdempotencyKey)
		existing, err := srv.idempotency.Reserve(ctx, key, srv.idempotencyTTL)
		if err != nil {
			if errors.Is(err, service.ErrIdempotencyKeyInFlight) {
				return nil, errors.Wrap(domainerrors.ErrIdempotencyInFlight, "checkout retried before the first attempt finished")
			}

			return nil, errors.Wrap(err, "failed to reserve idempotency key")
		}
		if existing != uuid.Nil {
			srv.log(ctx).Info("Checkout replayed", slog.String("order_id", existing.String()))

			return srv.findOrder(ctx, existing)
		}

		defer func() {
			srv.finishIdempotency(ctx, key, order, err)
		}()
	}

	item, err := srv.catalog.GetItem(ctx, input.ItemID)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			return nil, errors.Wrapf(domainerrors.ErrItemNotFound, "item %s", input.ItemID)
		}

		return nil, errors.Wrap(err, "failed to read item")
	}
	if !item.IsAvailable {
		return nil, errors.Wrapf(domainerrors.ErrConflict.WithDetails("item is not available"), "item %s", item.ID)
	}
	if item.OwnerID == input.RenterID {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("owners cannot rent their own items"), "renter is item owner")
	}

	quote, err := pricing.QuoteRental(item.BasePrice, item.DepositAmount, item.PriceUnit, input.UnitCount, input.StartAt, input.EndAt)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(err.Error()), "invalid rental window")
	}

	now := srv.now()
	order = &entity.Order{
		ID:             uuid.New(),
		RenterID:       input.RenterID,
		OwnerID:        item.OwnerID,
		Item:           item.Snapshot(),
		UnitCount:      input.UnitCount,
		StartAt:        input.StartAt,
		EndAt:          input.EndAt,
		RentalDuration: quote.Duration,
		RentalUnit:     quote.Unit,
		Status:         entity.OrderStatusPending,
		PaymentStatus:  entity.PaymentStatusPending,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	subject := entity.DiscountSubject{OwnerID: &order.OwnerID, ItemID: &order.Item.ItemID}

	err = srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		rate, err := resolveServiceFeeRate(ctx, repos.NewPolicyRepository(), srv.defaultFeeRate)
		if err != nil {
			return err
		}

		discountRepo := repos.NewDiscountRepository()
		public, err := srv.checkoutDiscount(ctx, discountRepo, input.DiscountCode, false, now, quote.RentalAmount, subject)
		if err != nil {
			return err
		}
		special, err := srv.checkoutDiscount(ctx, discountRepo, input.SpecialCode, true, now, quote.RentalAmount, subject)
		if err != nil {
			return err
		}

		settlement, err := pricing.Settle(pricing.SettlementInput{
			RentalAmount:          quote.RentalAmount,
			DepositAmount:         quote.DepositAmount,
			ServiceFeeRatePercent: rate.RatePercent,
			PublicDiscount:        discountTerms(public),
			SpecialDiscount:       discountTerms(special),
		})
		if err != nil {
			return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(err.Error()), "settlement rejected")
		}
		applySettlement(order, settlement, *rate, public, special)

		for _, d := range []*entity.Discount{public, special} {
			if d == nil {
				continue
			}
			if err := consumeDiscount(ctx, discountRepo, d.Code); err != nil {
				return err
			}
		}

		orderRepo := repos.NewOrderRepository()
		if err := orderRepo.Create(ctx, order); err != nil {
			return wrapRepoError(err, "failed to create order")
		}

		return orderRepo.AppendHistory(ctx, &entity.OrderStatusHistory{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ToStatus:  entity.OrderStatusPending,
			ActorID:   input.RenterID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Order created",
		slog.String("order_id", order.ID.String()),
		slog.String("item_id", order.Item.ItemID.String()),
		slog.Int64("final_amount", order.FinalAmount),
		slog.String("fee_source", string(order.ServiceFeeRate.Source)),
	)
	srv.publish(ctx, constants.EventOrderCreated, order, input.RenterID, "")

	return order, nil
}

// TransitionOrder applies a party action as a compare-and-swap on status and version.
func (srv *orderService) TransitionOrder(ctx context.Context, input *usecase.TransitionOrderInput) (*entity.Order, error) {
	if !input.Action.IsValid() {
		return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "unknown action %q", input.Action)
	}

	var order *entity.Order

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		orderRepo := repos.NewOrderRepository()

		current, err := findOrderIn(ctx, orderRepo, input.OrderID)
		if err != nil {
			return err
		}

		party, ok := current.PartyOf(input.Actor.ID)
		if !ok || !input.Action.AllowedFor(party) {
			return errors.Wrapf(domainerrors.ErrForbidden, "%s may not %s order %s", input.Actor.ID, input.Action, current.ID)
		}
		if err := checkExpectedVersion(current, input.ExpectedVersion); err != nil {
			return err
		}
		if !input.Action.AllowedFrom(current.Status) {
			return errors.Wrapf(
				domainerrors.ErrInvalidTransition.WithDetails(string(current.Status)+" -> "+string(input.Action.Target())),
				"order %s", current.ID,
			)
		}

		change := entity.OrderStatusChange{
			OrderID:     current.ID,
			FromStatus:  current.Status,
			FromVersion: current.Version,
			ToStatus:    input.Action.Target(),
			ActorID:     input.Actor.ID,
			Reason:      input.Reason,
			At:          srv.now(),
		}
		switch input.Action {
		case entity.ActionCancel:
			change.CancelReason = input.Reason
			change.CancelledBy = &input.Actor.ID
		case entity.ActionOpenDispute:
			disputeID := uuid.New()
			change.DisputeID = &disputeID
		}

		if err := applyStatusChange(ctx, orderRepo, current, change); err != nil {
			return err
		}

		if input.Action == entity.ActionCancel {
			discountRepo := repos.NewDiscountRepository()
			for _, code := range current.Discount.Codes() {
				if err := discountRepo.DecrementUsage(ctx, code); err != nil && !errors.Is(err, repository.ErrDiscountNotFound) {
					return wrapRepoError(err, "failed to release discount")
				}
			}
		}
		order = current

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Order transitioned",
		slog.String("order_id", order.ID.String()),
		slog.String("action", string(input.Action)),
		slog.String("status", string(order.Status)),
		slog.Int("version", order.Version),
	)

	switch input.Action {
	case entity.ActionCancel:
		srv.publish(ctx, constants.EventOrderCancelled, order, input.Actor.ID, input.Reason)
	case entity.ActionOpenDispute:
		srv.publish(ctx, constants.EventOrderDisputeOpened, order, input.Actor.ID, input.Reason)
	case entity.ActionComplete:
		srv.publish(ctx, constants.EventOrderDepositRelease, order, input.Actor.ID, "")
	}

	return order, nil
}

// ResolveDispute applies the outcome of dispute adjudication. Consumed discount uses stay consumed.
func (srv *orderService) ResolveDispute(ctx context.Context, input *usecase.ResolveDisputeInput) (*entity.Order, error) {
	if !input.Actor.IsStaff() {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "only staff may resolve disputes")
	}
	if !entity.DisputeOutcomeAllowed(input.FinalStatus) {
		return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "dispute cannot resolve to %q", input.FinalStatus)
	}

	var order *entity.Order

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		orderRepo := repos.NewOrderRepository()

		current, err := findOrderIn(ctx, orderRepo, input.OrderID)
		if err != nil {
			return err
		}
		if err := checkExpectedVersion(current, input.ExpectedVersion); err != nil {
			return err
		}
		if current.Status != entity.OrderStatusDisputed {
			return errors.Wrapf(
				domainerrors.ErrInvalidTransition.WithDetails(string(current.Status)+" -> "+string(input.FinalStatus)),
				"order %s is not disputed", current.ID,
			)
		}

		change := entity.OrderStatusChange{
			OrderID:     current.ID,
			FromStatus:  current.Status,
			FromVersion: current.Version,
			ToStatus:    input.FinalStatus,
			ActorID:     input.Actor.ID,
			Reason:      input.Reason,
			At:          srv.now(),
		}
		if input.FinalStatus == entity.OrderStatusCancelled {
			change.CancelReason = input.Reason
			change.CancelledBy = &input.Actor.ID
		}
		if err := applyStatusChange(ctx, orderRepo, current, change); err != nil {
			return err
		}
		order = current

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Dispute resolved",
		slog.String("order_id", order.ID.String()),
		slog.String("status", string(order.Status)),
	)
	srv.publish(ctx, constants.EventOrderDisputeSettled, order, input.Actor.ID, input.Reason)

	return order, nil
}

// SetContractSigned records the e-signature outcome without touching status or version.
func (srv *orderService) SetContractSigned(ctx context.Context, orderID uuid.UUID, signed bool) (*entity.Order, error) {
	var order *entity.Order

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		orderRepo := repos.NewOrderRepository()

		current, err := findOrderIn(ctx, orderRepo, orderID)
		if err != nil {
			return err
		}

		now := srv.now()
		if err := orderRepo.UpdateContractSigned(ctx, orderID, signed, now); err != nil {
			return mapOrderLookupError(err, orderID)
		}
		current.IsContractSigned = signed
		current.UpdatedAt = now
		order = current

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// RecordPayment stores the payment collaborator's status without touching order status or version.
func (srv *orderService) RecordPayment(ctx context.Context, orderID uuid.UUID, status entity.PaymentStatus) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "unknown payment status %q", status)
	}

	var order *entity.Order

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		orderRepo := repos.NewOrderRepository()

		current, err := findOrderIn(ctx, orderRepo, orderID)
		if err != nil {
			return err
		}

		now := srv.now()
		if err := orderRepo.UpdatePaymentStatus(ctx, orderID, status, now); err != nil {
			return mapOrderLookupError(err, orderID)
		}
		current.PaymentStatus = status
		current.UpdatedAt = now
		order = current

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Payment recorded",
		slog.String("order_id", orderID.String()),
		slog.String("payment_status", string(status)),
	)

	return order, nil
}

// RefundCancelledOrder flips paid or partially paid cancelled orders to refunded. Orders in
// any other state are left alone so redelivered events are harmless.
func (srv *orderService) RefundCancelledOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, bool, error) {
	var (
		order    *entity.Order
		refunded bool
	)

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		orderRepo := repos.NewOrderRepository()

		current, err := findOrderIn(ctx, orderRepo, orderID)
		if err != nil {
			return err
		}
		order = current

		if current.Status != entity.OrderStatusCancelled {
			return nil
		}
		if current.PaymentStatus != entity.PaymentStatusPaid && current.PaymentStatus != entity.PaymentStatusPartial {
			return nil
		}

		now := srv.now()
		if err := orderRepo.UpdatePaymentStatus(ctx, orderID, entity.PaymentStatusRefunded, now); err != nil {
			return mapOrderLookupError(err, orderID)
		}
		current.PaymentStatus = entity.PaymentStatusRefunded
		current.UpdatedAt = now
		refunded = true

		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if refunded {
		srv.log(ctx).Info("Cancelled order refunded", slog.String("order_id", orderID.String()))
	}

	return order, refunded, nil
}

// GetOrder returns an order to one of its parties or to staff.
func (srv *orderService) GetOrder(ctx context.Context, actor entity.Principal, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := authorizeViewer(order, actor); err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrders lists the caller's orders as renter or owner.
func (srv *orderService) ListOrders(ctx context.Context, input *usecase.ListOrdersInput) (*usecase.Page[*entity.Order], error) {
	if input.Party != entity.PartyRenter && input.Party != entity.PartyOwner {
		return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "unknown party %q", input.Party)
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "unknown status %q", *input.Status)
	}
	page := input.Page.Normalize(srv.defaultPageSize, srv.maxPageSize)

	orders, total, err := srv.orderRepo.List(ctx, entity.OrderListFilter{
		UserID:   input.UserID,
		Party:    input.Party,
		Status:   input.Status,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
	if err != nil {
		return nil, wrapRepoError(err, "failed to list orders")
	}

	return &usecase.Page[*entity.Order]{
		Items:    orders,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

// GetOrderHistory returns the status history of an order.
func (srv *orderService) GetOrderHistory(ctx context.Context, actor entity.Principal, orderID uuid.UUID) ([]*entity.OrderStatusHistory, error) {
	if _, err := srv.GetOrder(ctx, actor, orderID); err != nil {
		return nil, err
	}

	history, err := srv.orderRepo.ListHistory(ctx, orderID)
	if err != nil {
		return nil, wrapRepoError(err, "failed to list order history")
	}

	return history, nil
}

// GenerateHandoverQR renders the handover QR code for a party of the order.
func (srv *orderService) GenerateHandoverQR(ctx context.Context, actor entity.Principal, orderID uuid.UUID) ([]byte, error) {
	order, err := srv.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, ok := order.PartyOf(actor.ID); !ok {
		return nil, errors.Wrapf(domainerrors.ErrForbidden, "order %s", orderID)
	}

	png, err := srv.qrcodeService.GenerateOrderQR(orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate handover QR")
	}

	return png, nil
}

// ScanHandoverQR resolves a scanned handover payload for the order's owner.
func (srv *orderService) ScanHandoverQR(ctx context.Context, actor entity.Principal, qrData string) (*entity.Order, error) {
	orderID, err := srv.qrcodeService.ParseOrderQR(qrData)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(err.Error()), "invalid handover QR")
	}

	order, err := srv.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.OwnerID != actor.ID {
		return nil, errors.Wrapf(domainerrors.ErrForbidden, "only the owner may scan order %s", orderID)
	}

	return order, nil
}

// checkoutDiscount loads and quotes one code for its slot. An empty code yields nil.
func (srv *orderService) checkoutDiscount(
	ctx context.Context,
	discountRepo repository.DiscountRepository,
	code string,
	special bool,
	now time.Time,
	rentalAmount int64,
	subject entity.DiscountSubject,
) (*entity.Discount, error) {
	if code == "" {
		return nil, nil
	}

	discount, err := findDiscount(ctx, discountRepo, code)
	if err != nil {
		return nil, err
	}
	if discount.IsSpecial != special {
		slot := "public"
		if special {
			slot = "special"
		}

		return nil, errors.Wrapf(domainerrors.ErrValidationFailed.WithDetails("code "+discount.Code+" is not a "+slot+" code"), "checkout discount")
	}
	if _, err := quoteDiscount(discount, now, rentalAmount, subject); err != nil {
		return nil, err
	}

	return discount, nil
}

func (srv *orderService) findOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	return findOrderIn(ctx, srv.orderRepo, orderID)
}

// finishIdempotency records the checkout outcome under its key. Failed checkouts free the key.
func (srv *orderService) finishIdempotency(ctx context.Context, key string, order *entity.Order, checkoutErr error) {
	ctx = context.WithoutCancel(ctx)

	if checkoutErr != nil || order == nil {
		if err := srv.idempotency.Release(ctx, key); err != nil {
			srv.log(ctx).Warn("Failed to release idempotency key", slog.Any("error", err))
		}

		return
	}
	if err := srv.idempotency.Complete(ctx, key, order.ID, srv.idempotencyTTL); err != nil {
		srv.log(ctx).Warn("Failed to complete idempotency key",
			slog.String("order_id", order.ID.String()),
			slog.Any("error", err),
		)
	}
}

// publish sends an event for a committed change. Failures are logged and not returned.
func (srv *orderService) publish(ctx context.Context, name string, order *entity.Order, actorID uuid.UUID, reason string) {
	event := &service.OrderEvent{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		Name:        name,
		OrderID:     order.ID,
		RenterID:    order.RenterID,
		OwnerID:     order.OwnerID,
		Status:      string(order.Status),
		ActorID:     actorID,
		FinalAmount: order.FinalAmount,
		Deposit:     order.DepositAmount,
		DisputeID:   order.DisputeID,
		Reason:      reason,
		OccurredAt:  srv.now(),
	}

	if err := srv.publisher.PublishOrderEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish order event",
			slog.String("event", name),
			slog.String("order_id", order.ID.String()),
			slog.Any("error", err),
		)
	}
}

func validateCreateOrder(input *usecase.CreateOrderInput) error {
	switch {
	case input.RenterID == uuid.Nil:
		return errors.Wrap(domainerrors.ErrValidationFailed, "renter is required")
	case input.ItemID == uuid.Nil:
		return errors.Wrap(domainerrors.ErrValidationFailed, "item is required")
	case input.UnitCount < 1:
		return errors.Wrap(domainerrors.ErrValidationFailed, "unit count must be at least 1")
	case !input.EndAt.After(input.StartAt):
		return errors.Wrap(domainerrors.ErrValidationFailed, "end_at must be after start_at")
	}

	input.DiscountCode = entity.NormalizeDiscountCode(input.DiscountCode)
	input.SpecialCode = entity.NormalizeDiscountCode(input.SpecialCode)
	if input.DiscountCode != "" && input.DiscountCode == input.SpecialCode {
		return errors.Wrap(domainerrors.ErrValidationFailed, "the same code cannot be applied twice")
	}

	return nil
}

func idempotencyKey(renterID uuid.UUID, key string) string {
	return renterID.String() + ":" + key
}

func discountTerms(d *entity.Discount) *pricing.DiscountTerms {
	if d == nil {
		return nil
	}
	terms := d.Terms()

	return &terms
}

// applySettlement freezes the settlement and its inputs onto the order.
func applySettlement(order *entity.Order, s pricing.Settlement, rate entity.ServiceFeeRate, public, special *entity.Discount) {
	order.TotalAmount = s.TotalAmount
	order.DepositAmount = s.DepositAmount
	order.ServiceFee = s.ServiceFee
	order.ServiceFeeRate = rate
	order.FinalAmount = s.FinalAmount
	order.Discount = entity.OrderDiscount{
		AmountApplied:          s.PublicDiscountAmount,
		SecondaryAmountApplied: s.SpecialDiscountAmount,
		TotalAmountApplied:     s.TotalDiscount,
	}
	if public != nil {
		order.Discount.Code = public.Code
		order.Discount.Value = public.Value
	}
	if special != nil {
		order.Discount.SecondaryCode = special.Code
		order.Discount.SecondaryValue = special.Value
	}
}

// applyStatusChange runs the compare-and-swap, appends history and mirrors the change onto order.
func applyStatusChange(ctx context.Context, orderRepo repository.OrderRepository, order *entity.Order, change entity.OrderStatusChange) error {
	if err := orderRepo.UpdateStatus(ctx, change); err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderStatusConflict):
			return errors.Wrapf(domainerrors.ErrStaleOrderVersion, "order %s", change.OrderID)
		default:
			return mapOrderLookupError(err, change.OrderID)
		}
	}

	from := change.FromStatus
	if err := orderRepo.AppendHistory(ctx, &entity.OrderStatusHistory{
		ID:         uuid.New(),
		OrderID:    change.OrderID,
		FromStatus: &from,
		ToStatus:   change.ToStatus,
		ActorID:    change.ActorID,
		Reason:     change.Reason,
		CreatedAt:  change.At,
	}); err != nil {
		return wrapRepoError(err, "failed to append order history")
	}

	order.Status = change.ToStatus
	order.Version = change.FromVersion + 1
	order.UpdatedAt = change.At
	if change.DisputeID != nil {
		order.DisputeID = change.DisputeID
	}
	if change.CancelledBy != nil {
		order.CancelledBy = change.CancelledBy
		order.CancelReason = change.CancelReason
	}

	return nil
}

func checkExpectedVersion(order *entity.Order, expected *int) error {
	if expected != nil && *expected != order.Version {
		return errors.Wrapf(domainerrors.ErrStaleOrderVersion, "order %s is at version %d", order.ID, order.Version)
	}

	return nil
}

func authorizeViewer(order *entity.Order, actor entity.Principal) error {
	if _, ok := order.PartyOf(actor.ID); ok || actor.IsStaff() {
		return nil
	}

	return errors.Wrapf(domainerrors.ErrForbidden, "order %s", order.ID)
}

func findOrderIn(ctx context.Context, orderRepo repository.OrderRepository, orderID uuid.UUID) (*entity.Order, error) {
	order, err := orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapOrderLookupError(err, orderID)
	}

	return order, nil
}

func mapOrderLookupError(err error, orderID uuid.UUID) error {
	if errors.Is(err, repository.ErrOrderNotFound) {
		return errors.Wrapf(domainerrors.ErrOrderNotFound, "order %s", orderID)
	}

	return wrapRepoError(err, "failed to find order")
}
