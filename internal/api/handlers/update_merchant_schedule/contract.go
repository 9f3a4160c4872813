package update_merchant_schedule

import (
	"context"

	"github.com/m04kA/SBP-SchedulingService/internal/service/schedule/models"
)

type ScheduleService interface {
	UpdateSchedule(ctx context.Context, merchantID int64, req *models.UpdateScheduleRequest) (*models.UpdateScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
