package merchant

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	"github.com/m04kA/SBP-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SBP-SchedulingService/pkg/psqlbuilder"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с мерчантами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория мерчантов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var merchantColumns = []string{
	"id",
	"name",
	"working_days",
	"open_time",
	"close_time",
	"break_start",
	"break_end",
	"cancellation_policy_hours",
	"cancellation_fee_enabled",
	"cancellation_fee_amount",
	"is_open",
	"timezone",
	"created_at",
	"updated_at",
}

// GetByID получает мерчанта по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Merchant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(merchantColumns...).
		From("merchants").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var m domain.Merchant
	var workingDays pq.Int64Array
	var breakStart, breakEnd sql.NullString
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&m.ID,
		&m.Name,
		&workingDays,
		&m.OpenTime,
		&m.CloseTime,
		&breakStart,
		&breakEnd,
		&m.CancellationPolicyHours,
		&m.CancellationFeeEnabled,
		&m.CancellationFeeAmount,
		&m.IsOpen,
		&m.Timezone,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrMerchantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan merchant: %v", ErrScanRow, err)
	}

	m.WorkingDays = make([]int, len(workingDays))
	for i, d := range workingDays {
		m.WorkingDays[i] = int(d)
	}
	m.BreakStart = toTimeString(breakStart)
	m.BreakEnd = toTimeString(breakEnd)
	m.CreatedAt = createdAt.Time
	m.UpdatedAt = updatedAt.Time

	return &m, nil
}

// SchedulePatch изменяемые поля расписания и политики мерчанта
type SchedulePatch struct {
	WorkingDays             []int
	OpenTime                types.TimeString
	CloseTime               types.TimeString
	BreakStart              *types.TimeString
	BreakEnd                *types.TimeString
	CancellationPolicyHours int
	CancellationFeeEnabled  bool
	CancellationFeeAmount   int64
	IsOpen                  bool
	Timezone                string
}

// UpdateSchedule обновляет расписание и политику отмены мерчанта
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, patch SchedulePatch) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	days := make(pq.Int64Array, len(patch.WorkingDays))
	for i, d := range patch.WorkingDays {
		days[i] = int64(d)
	}

	query, args, err := psqlbuilder.Update("merchants").
		Set("working_days", days).
		Set("open_time", patch.OpenTime).
		Set("close_time", patch.CloseTime).
		Set("break_start", fromTimeString(patch.BreakStart)).
		Set("break_end", fromTimeString(patch.BreakEnd)).
		Set("cancellation_policy_hours", patch.CancellationPolicyHours).
		Set("cancellation_fee_enabled", patch.CancellationFeeEnabled).
		Set("cancellation_fee_amount", patch.CancellationFeeAmount).
		Set("is_open", patch.IsOpen).
		Set("timezone", patch.Timezone).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrMerchantNotFound
	}

	return nil
}

func toTimeString(v sql.NullString) *types.TimeString {
	if !v.Valid || v.String == "" {
		return nil
	}
	ts := types.TimeString(v.String)
	return &ts
}

func fromTimeString(v *types.TimeString) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
