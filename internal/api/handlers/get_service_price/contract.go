package get_service_price

import (
	"context"

	"github.com/m04kA/SBP-SchedulingService/internal/service/pricing"
)

type PricingService interface {
	GetPrice(ctx context.Context, serviceID int64) (*pricing.PriceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
