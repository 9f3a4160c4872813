package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	"github.com/m04kA/SBP-SchedulingService/internal/integrations/clientservice"
)

// AppointmentRepository - репозиторий записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time, activeOnly bool) ([]*domain.Appointment, error)
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

// CatalogRepository - репозиторий каталога услуг и акций
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, id int64) (*domain.SalonService, error)
	GetActivePromotionForService(ctx context.Context, serviceID int64, merchantID int64, date time.Time) (*domain.Promotion, error)
}

// ClientProvider - интеграция с сервисом аккаунтов клиентов
type ClientProvider interface {
	GetClientWithGracefulDegradation(ctx context.Context, clientID int64) (*clientservice.ClientProfile, error)
}

// TxManager - менеджер транзакций для атомарного check-and-reserve
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder - счётчики бронирований
type MetricsRecorder interface {
	IncReservation(outcome string)
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
