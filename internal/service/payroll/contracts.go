package payroll

import (
	"context"
	"time"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
)

// EmployeeRepository - репозиторий сотрудников
type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	AddOvertime(ctx context.Context, id int64, minutes int, date time.Time) error
}

// MerchantRepository - репозиторий мерчантов (нужен для таймзоны)
type MerchantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Merchant, error)
}

// AppointmentRepository - репозиторий записей
type AppointmentRepository interface {
	GetCompletedByEmployeeInRange(ctx context.Context, employeeID int64, from, to time.Time) ([]*domain.Appointment, error)
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
