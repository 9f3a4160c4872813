package schedule

import (
	"context"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	merchantRepo "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/merchant"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

// MerchantRepository - репозиторий мерчантов
type MerchantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Merchant, error)
	UpdateSchedule(ctx context.Context, id int64, patch merchantRepo.SchedulePatch) error
}

// EmployeeRepository - репозиторий сотрудников
type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	CreateDayOff(ctx context.Context, d *domain.DayOff) (*domain.DayOff, error)
	SyncSchedule(ctx context.Context, merchantID int64, workingDays []int, start, end types.TimeString, breakStart, breakEnd *types.TimeString) (int64, error)
}

// TxManager - менеджер транзакций: расписание мерчанта и синхронизация
// графиков сотрудников пишутся атомарно
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger - интерфейс для логирования
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
