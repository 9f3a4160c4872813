package reschedule_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

// AppointmentRepository - репозиторий записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time, activeOnly bool) ([]*domain.Appointment, error)
	Reschedule(ctx context.Context, id int64, from domain.AppointmentStatus, date time.Time, start, end types.TimeString, reason string) error
}

// EmployeeRepository - репозиторий сотрудников
type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	HasDayOff(ctx context.Context, employeeID int64, date time.Time) (bool, error)
}

// MerchantRepository - репозиторий мерчантов
type MerchantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Merchant, error)
}

// TxManager - менеджер транзакций для атомарной проверки нового слота
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
