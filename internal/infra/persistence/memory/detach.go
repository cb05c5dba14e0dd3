package memory

import (
	"slices"

	"rentalhub/internal/domain/entity"
)

// The detach helpers deep-copy the pointer and slice fields of a row so that nothing is
// shared between callers, the committed state and a transaction's working copy.

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p

	return &v
}

func detachDiscount(d entity.Discount) *entity.Discount {
	d.MaxDiscountAmount = clonePtr(d.MaxDiscountAmount)
	d.UsageLimit = clonePtr(d.UsageLimit)
	d.OwnerID = clonePtr(d.OwnerID)
	d.ItemID = clonePtr(d.ItemID)

	return &d
}

func detachOrder(o entity.Order) *entity.Order {
	o.Item.Images = slices.Clone(o.Item.Images)
	o.ServiceFeeRate.PolicyID = clonePtr(o.ServiceFeeRate.PolicyID)
	o.ServiceFeeRate.Version = clonePtr(o.ServiceFeeRate.Version)
	o.DisputeID = clonePtr(o.DisputeID)
	o.CancelledBy = clonePtr(o.CancelledBy)

	return &o
}

func detachHistory(h entity.OrderStatusHistory) *entity.OrderStatusHistory {
	h.FromStatus = clonePtr(h.FromStatus)

	return &h
}

func detachPolicy(p entity.VersionedPolicy) *entity.VersionedPolicy {
	p.EffectiveTo = clonePtr(p.EffectiveTo)
	p.ActivatedAt = clonePtr(p.ActivatedAt)
	p.Payload = slices.Clone(p.Payload)

	return &p
}
