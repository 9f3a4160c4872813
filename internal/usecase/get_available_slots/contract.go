package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
)

// EmployeeRepository - репозиторий сотрудников
type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	HasDayOff(ctx context.Context, employeeID int64, date time.Time) (bool, error)
}

// MerchantRepository - репозиторий мерчантов
type MerchantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Merchant, error)
}

// CatalogRepository - репозиторий каталога услуг
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, id int64) (*domain.SalonService, error)
}

// AppointmentRepository - репозиторий записей
type AppointmentRepository interface {
	GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time, activeOnly bool) ([]*domain.Appointment, error)
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
