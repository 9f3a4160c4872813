package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
)

// AppointmentRepository - репозиторий записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByClient(ctx context.Context, clientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	GetByMerchantWithFilter(ctx context.Context, filter domain.MerchantAppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, from domain.AppointmentStatus, patch domain.StatusPatch) error
}

// MerchantRepository - репозиторий мерчантов (нужен для таймзоны)
type MerchantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Merchant, error)
}

// TimeProvider - провайдер текущего времени (для тестов)
type TimeProvider interface {
	Now() time.Time
}

// Logger - интерфейс для логирования
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// RealTimeProvider - боевая реализация TimeProvider
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}
