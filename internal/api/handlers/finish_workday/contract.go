package finish_workday

import (
	"context"

	"github.com/m04kA/SBP-SchedulingService/internal/service/payroll/models"
)

type PayrollService interface {
	FinishWorkday(ctx context.Context, req *models.FinishWorkdayRequest) (*models.FinishWorkdayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
