package cancel_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
)

// AppointmentRepository - репозиторий записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, from domain.AppointmentStatus, reason string) error
}

// MerchantRepository - репозиторий мерчантов
type MerchantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Merchant, error)
}

// PenaltyRepository - репозиторий штрафов
type PenaltyRepository interface {
	Create(ctx context.Context, p *domain.Penalty) (*domain.Penalty, error)
}

// TxManager - менеджер транзакций: отмена и штраф пишутся атомарно
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder - счётчик созданных штрафов
type MetricsRecorder interface {
	IncPenaltyCreated()
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
