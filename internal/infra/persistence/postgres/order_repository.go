package postgres

import (
	"context"
	"time"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/pricing"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/errors"
	"rentalhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create persists a new order
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderModel := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderModel).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.CreatedAt = orderModel.CreatedAt
	order.UpdatedAt = orderModel.UpdatedAt

	return nil
}

// FindByID retrieves an order
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderModel model.OrderModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&orderModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find order")
	}

	return toOrderDomain(&orderModel), nil
}

// List returns the orders of one party, newest first
func (repo *orderRepository) List(ctx context.Context, filter entity.OrderListFilter) ([]*entity.Order, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.OrderModel{})
	if filter.Party == entity.PartyOwner {
		query = query.Where("owner_id = ?", filter.UserID)
	} else {
		query = query.Where("renter_id = ?", filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("order_status = ?", string(*filter.Status))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to count orders")
	}

	var orderModels []*model.OrderModel
	err := query.Session(&gorm.Session{}).
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&orderModels).Error
	if err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to list orders")
	}

	orders := make([]*entity.Order, len(orderModels))
	for i, orderModel := range orderModels {
		orders[i] = toOrderDomain(orderModel)
	}

	return orders, total, nil
}

// UpdateStatus applies a status change with a compare-and-swap on status and version
func (repo *orderRepository) UpdateStatus(ctx context.Context, change entity.OrderStatusChange) error {
	updates := map[string]any{
		"order_status": string(change.ToStatus),
		"version":      gorm.Expr("version + 1"),
		"updated_at":   change.At,
	}
	if change.DisputeID != nil {
		updates["dispute_id"] = *change.DisputeID
	}
	if change.CancelledBy != nil {
		updates["cancelled_by"] = *change.CancelledBy
		updates["cancel_reason"] = change.CancelReason
	}

	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ? AND order_status = ? AND version = ?", change.OrderID, string(change.FromStatus), change.FromVersion).
		Updates(updates)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	if _, err := repo.FindByID(ctx, change.OrderID); err != nil {
		return err
	}

	return repository.ErrOrderStatusConflict
}

// UpdateContractSigned records the e-signature outcome
func (repo *orderRepository) UpdateContractSigned(ctx context.Context, id uuid.UUID, signed bool, at time.Time) error {
	return repo.updateColumns(ctx, id, map[string]any{
		"is_contract_signed": signed,
		"updated_at":         at,
	})
}

// UpdatePaymentStatus records the payment collaborator's status
func (repo *orderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus, at time.Time) error {
	return repo.updateColumns(ctx, id, map[string]any{
		"payment_status": string(status),
		"updated_at":     at,
	})
}

func (repo *orderRepository) updateColumns(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// AppendHistory writes one status history row
func (repo *orderRepository) AppendHistory(ctx context.Context, history *entity.OrderStatusHistory) error {
	historyModel := fromOrderStatusHistoryDomain(history)

	if err := repo.db.WithContext(ctx).Create(historyModel).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to append order history")
	}

	history.CreatedAt = historyModel.CreatedAt

	return nil
}

// ListHistory returns an order's status history, oldest first
func (repo *orderRepository) ListHistory(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderStatusHistory, error) {
	var historyModels []*model.OrderStatusHistoryModel
	err := repo.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&historyModels).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list order history")
	}

	histories := make([]*entity.OrderStatusHistory, len(historyModels))
	for i, historyModel := range historyModels {
		histories[i] = toOrderStatusHistoryDomain(historyModel)
	}

	return histories, nil
}

func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	snapshot := data.ItemSnapshot.Data()

	var feeVersion *entity.PolicyVersion
	if data.ServiceFeePolicyVersion != nil {
		v := entity.PolicyVersion(*data.ServiceFeePolicyVersion)
		feeVersion = &v
	}

	return &entity.Order{
		ID:       data.ID,
		RenterID: data.RenterID,
		OwnerID:  data.OwnerID,
		Item: entity.ItemSnapshot{
			ItemID:        snapshot.ItemID,
			Title:         snapshot.Title,
			BasePrice:     snapshot.BasePrice,
			PriceUnit:     pricing.RentalUnit(snapshot.PriceUnit),
			Images:        snapshot.Images,
			DepositAmount: snapshot.DepositAmount,
		},
		UnitCount:      data.UnitCount,
		StartAt:        data.StartAt,
		EndAt:          data.EndAt,
		RentalDuration: data.RentalDuration,
		RentalUnit:     pricing.RentalUnit(data.RentalUnit),
		TotalAmount:    data.TotalAmount,
		DepositAmount:  data.DepositAmount,
		ServiceFee:     data.ServiceFee,
		ServiceFeeRate: entity.ServiceFeeRate{
			RatePercent: data.ServiceFeeRate,
			Source:      entity.PolicySource(data.ServiceFeeSource),
			PolicyID:    data.ServiceFeePolicyID,
			Version:     feeVersion,
		},
		Discount: entity.OrderDiscount{
			Code:                   derefString(data.DiscountCode),
			Value:                  data.DiscountValue,
			AmountApplied:          data.DiscountAmountApplied,
			SecondaryCode:          derefString(data.SecondaryCode),
			SecondaryValue:         data.SecondaryValue,
			SecondaryAmountApplied: data.SecondaryAmountApplied,
			TotalAmountApplied:     data.TotalDiscountApplied,
		},
		FinalAmount:      data.FinalAmount,
		Status:           entity.OrderStatus(data.OrderStatus),
		PaymentStatus:    entity.PaymentStatus(data.PaymentStatus),
		DisputeID:        data.DisputeID,
		CancelReason:     data.CancelReason,
		CancelledBy:      data.CancelledBy,
		IsContractSigned: data.IsContractSigned,
		Version:          data.Version,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}

func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	var feeVersion *int
	if data.ServiceFeeRate.Version != nil {
		v := int(*data.ServiceFeeRate.Version)
		feeVersion = &v
	}

	return &model.OrderModel{
		ID:       data.ID,
		RenterID: data.RenterID,
		OwnerID:  data.OwnerID,
		ItemID:   data.Item.ItemID,
		ItemSnapshot: datatypes.NewJSONType(model.ItemSnapshotData{
			ItemID:        data.Item.ItemID,
			Title:         data.Item.Title,
			BasePrice:     data.Item.BasePrice,
			PriceUnit:     string(data.Item.PriceUnit),
			Images:        data.Item.Images,
			DepositAmount: data.Item.DepositAmount,
		}),
		UnitCount:               data.UnitCount,
		StartAt:                 data.StartAt,
		EndAt:                   data.EndAt,
		RentalDuration:          data.RentalDuration,
		RentalUnit:              string(data.RentalUnit),
		TotalAmount:             data.TotalAmount,
		DepositAmount:           data.DepositAmount,
		ServiceFee:              data.ServiceFee,
		ServiceFeeRate:          data.ServiceFeeRate.RatePercent,
		ServiceFeeSource:        string(data.ServiceFeeRate.Source),
		ServiceFeePolicyID:      data.ServiceFeeRate.PolicyID,
		ServiceFeePolicyVersion: feeVersion,
		DiscountCode:            optionalString(data.Discount.Code),
		DiscountValue:           data.Discount.Value,
		DiscountAmountApplied:   data.Discount.AmountApplied,
		SecondaryCode:           optionalString(data.Discount.SecondaryCode),
		SecondaryValue:          data.Discount.SecondaryValue,
		SecondaryAmountApplied:  data.Discount.SecondaryAmountApplied,
		TotalDiscountApplied:    data.Discount.TotalAmountApplied,
		FinalAmount:             data.FinalAmount,
		OrderStatus:             string(data.Status),
		PaymentStatus:           string(data.PaymentStatus),
		DisputeID:               data.DisputeID,
		CancelReason:            data.CancelReason,
		CancelledBy:             data.CancelledBy,
		IsContractSigned:        data.IsContractSigned,
		Version:                 data.Version,
		CreatedAt:               data.CreatedAt,
		UpdatedAt:               data.UpdatedAt,
	}
}

func toOrderStatusHistoryDomain(data *model.OrderStatusHistoryModel) *entity.OrderStatusHistory {
	if data == nil {
		return nil
	}

	var from *entity.OrderStatus
	if data.FromStatus != nil {
		s := entity.OrderStatus(*data.FromStatus)
		from = &s
	}

	return &entity.OrderStatusHistory{
		ID:         data.ID,
		OrderID:    data.OrderID,
		FromStatus: from,
		ToStatus:   entity.OrderStatus(data.ToStatus),
		ActorID:    data.ActorID,
		Reason:     data.Reason,
		CreatedAt:  data.CreatedAt,
	}
}

func fromOrderStatusHistoryDomain(data *entity.OrderStatusHistory) *model.OrderStatusHistoryModel {
	if data == nil {
		return nil
	}

	var from *string
	if data.FromStatus != nil {
		s := string(*data.FromStatus)
		from = &s
	}

	return &model.OrderStatusHistoryModel{
		ID:         data.ID,
		OrderID:    data.OrderID,
		FromStatus: from,
		ToStatus:   string(data.ToStatus),
		ActorID:    data.ActorID,
		Reason:     data.Reason,
		CreatedAt:  data.CreatedAt,
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
