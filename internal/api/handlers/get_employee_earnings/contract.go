package get_employee_earnings

import (
	"context"

	"github.com/m04kA/SBP-SchedulingService/internal/service/payroll/models"
)

type PayrollService interface {
	GetEarnings(ctx context.Context, req *models.GetEarningsRequest) (*models.EarningsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
