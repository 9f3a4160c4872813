package get_merchant_appointments

import (
	"context"

	"github.com/m04kA/SBP-SchedulingService/internal/service/appointments/models"
)

type AppointmentsService interface {
	GetMerchantAppointments(ctx context.Context, req *models.GetMerchantAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
