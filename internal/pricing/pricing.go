package pricing

import (
	"fmt"

	"jamservices/internal/models"
)

// EffectiveFee is the subcategory fee, or the default fee when none is set.
func EffectiveFee(sub models.Subcategory) int64 {
	if sub.PlatformFee == 0 {
		return models.DefaultPlatformFee
	}
	return sub.PlatformFee
}

// ComputeTotal returns subcategory price plus platform fee.
func ComputeTotal(sub models.Subcategory) int64 {
	return sub.Price + EffectiveFee(sub)
}

// BuildSummary derives the order summary of a draft. Nil when nothing is priced yet.
func BuildSummary(draft *models.BookingDraft) *models.OrderSummary {
	if draft == nil || draft.Subcategory == nil {
		return nil
	}

	sub := *draft.Subcategory
	summary := &models.OrderSummary{
		SubcategoryName: sub.Name,
		Price:           sub.Price,
		PlatformFee:     EffectiveFee(sub),
		Total:           ComputeTotal(sub),
		Time:            draft.Time,
	}
	if draft.Service != nil {
		summary.ServiceName = draft.Service.Name
	}
	if draft.Date != nil {
		date := *draft.Date
		summary.Date = &date
	}
	return summary
}

// FormatPrice renders an amount with the currency symbol, e.g. ₹599.
func FormatPrice(amount int64) string {
	return fmt.Sprintf("%s%d", models.CurrencySymbol, amount)
}
