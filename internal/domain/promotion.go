package domain

import "time"

// DiscountType represents the kind of promotion discount
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Promotion represents a discount active within a date window.
// К услуге в каждый момент применяется не более одной акции.
type Promotion struct {
	ID         int64
	MerchantID int64
	ServiceID  *int64 // nil - акция на все услуги мерчанта

	DiscountType  DiscountType
	DiscountValue int64 // проценты для percentage, минорные единицы для fixed

	// Окно действия, включительно по обеим границам, сравнение по датам
	StartDate time.Time
	EndDate   time.Time

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppliesOn returns true if the promotion window contains the given date
// and the promotion is switched on.
func (p *Promotion) AppliesOn(date time.Time) bool {
	if !p.IsActive {
		return false
	}
	day := truncateToDay(date)
	return !day.Before(truncateToDay(p.StartDate)) && !day.After(truncateToDay(p.EndDate))
}

// PriceQuote результат расчёта цены услуги с учётом активной акции
type PriceQuote struct {
	HasPromotion   bool
	OriginalPrice  int64
	EffectivePrice int64
	Promotion      *Promotion
}

// QuotePrice вычисляет итоговую цену услуги.
// percentage: скидка = round(price * value / 100)
// fixed: итог = max(0, price - value), цена никогда не отрицательная
func QuotePrice(price int64, promo *Promotion) PriceQuote {
	quote := PriceQuote{
		OriginalPrice:  price,
		EffectivePrice: price,
	}

	if promo == nil {
		return quote
	}

	quote.HasPromotion = true
	quote.Promotion = promo

	switch promo.DiscountType {
	case DiscountPercentage:
		discount := roundDiv(price*promo.DiscountValue, 100)
		quote.EffectivePrice = price - discount
	case DiscountFixed:
		quote.EffectivePrice = price - promo.DiscountValue
	}

	if quote.EffectivePrice < 0 {
		quote.EffectivePrice = 0
	}

	return quote
}

// roundDiv целочисленное деление с округлением до ближайшего
func roundDiv(n, d int64) int64 {
	return (n + d/2) / d
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
