package create_day_off

import (
	"context"

	"github.com/m04kA/SBP-SchedulingService/internal/service/schedule/models"
)

type ScheduleService interface {
	CreateDayOff(ctx context.Context, req *models.CreateDayOffRequest) (*models.DayOffResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
