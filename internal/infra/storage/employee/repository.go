package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	"github.com/m04kA/SBP-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SBP-SchedulingService/pkg/psqlbuilder"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

const pqUniqueViolation = "23505"

// Repository репозиторий для работы с сотрудниками и их выходными
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сотрудников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает сотрудника по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"merchant_id",
		"name",
		"working_days",
		"start_time",
		"end_time",
		"break_start",
		"break_end",
		"schedule_override",
		"is_active",
		"pay_type",
		"pay_value",
		"overtime_minutes",
		"last_overtime_date",
		"extended_end_time",
		"created_at",
		"updated_at",
	).
		From("employees").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var e domain.Employee
	var workingDays pq.Int64Array
	var breakStart, breakEnd, extendedEnd sql.NullString
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&e.ID,
		&e.MerchantID,
		&e.Name,
		&workingDays,
		&e.StartTime,
		&e.EndTime,
		&breakStart,
		&breakEnd,
		&e.ScheduleOverride,
		&e.IsActive,
		&e.PayType,
		&e.PayValue,
		&e.OvertimeMinutes,
		&e.LastOvertimeDate,
		&extendedEnd,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan employee: %v", ErrScanRow, err)
	}

	e.WorkingDays = toIntSlice(workingDays)
	e.BreakStart = toTimeString(breakStart)
	e.BreakEnd = toTimeString(breakEnd)
	e.ExtendedEndTime = toTimeString(extendedEnd)
	e.CreatedAt = createdAt.Time
	e.UpdatedAt = updatedAt.Time

	return &e, nil
}

// GetDayOff получает выходной сотрудника на дату, если он зарегистрирован
func (r *Repository) GetDayOff(ctx context.Context, employeeID int64, date time.Time) (*domain.DayOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"merchant_id",
		"employee_id",
		"day_off_date",
		"reason",
		"created_at",
	).
		From("days_off").
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.Eq{"day_off_date": date}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDayOff - build select query: %v", ErrBuildQuery, err)
	}

	var d domain.DayOff
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&d.ID,
		&d.MerchantID,
		&d.EmployeeID,
		&d.Date,
		&d.Reason,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrDayOffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDayOff - scan day off: %v", ErrScanRow, err)
	}

	d.CreatedAt = createdAt.Time

	return &d, nil
}

// HasDayOff проверяет, зарегистрирован ли выходной на дату
func (r *Repository) HasDayOff(ctx context.Context, employeeID int64, date time.Time) (bool, error) {
	_, err := r.GetDayOff(ctx, employeeID, date)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrDayOffNotFound) {
		return false, nil
	}
	return false, err
}

// CreateDayOff регистрирует выходной сотрудника.
// Повторная регистрация на ту же дату ловится unique constraint
// и превращается в ErrDayOffExists.
func (r *Repository) CreateDayOff(ctx context.Context, d *domain.DayOff) (*domain.DayOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("days_off").
		Columns(
			"merchant_id",
			"employee_id",
			"day_off_date",
			"reason",
		).
		Values(
			d.MerchantID,
			d.EmployeeID,
			d.Date,
			d.Reason,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateDayOff - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&d.ID, &createdAt)

	if isUniqueViolation(err) {
		return nil, ErrDayOffExists
	}
	if err != nil {
		return nil, fmt.Errorf("%w: CreateDayOff - execute insert: %v", ErrExecQuery, err)
	}

	d.CreatedAt = createdAt.Time

	return d, nil
}

// AddOvertime добавляет сверхурочные минуты по окончании смены.
// Временное продление рабочего дня при этом сбрасывается.
func (r *Repository) AddOvertime(ctx context.Context, id int64, minutes int, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("employees").
		Set("overtime_minutes", squirrel.Expr("overtime_minutes + ?", minutes)).
		Set("last_overtime_date", date).
		Set("extended_end_time", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AddOvertime - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AddOvertime - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AddOvertime - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrEmployeeNotFound
	}

	return nil
}

// SyncSchedule распространяет часы работы мерчанта на сотрудников
// без личного расписания (schedule_override = false).
// Возвращает количество обновлённых сотрудников.
func (r *Repository) SyncSchedule(ctx context.Context, merchantID int64, workingDays []int, start, end types.TimeString, breakStart, breakEnd *types.TimeString) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	days := make(pq.Int64Array, len(workingDays))
	for i, d := range workingDays {
		days[i] = int64(d)
	}

	query, args, err := psqlbuilder.Update("employees").
		Set("working_days", days).
		Set("start_time", start).
		Set("end_time", end).
		Set("break_start", fromTimeString(breakStart)).
		Set("break_end", fromTimeString(breakEnd)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"merchant_id": merchantID}).
		Where(squirrel.Eq{"schedule_override": false}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: SyncSchedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: SyncSchedule - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: SyncSchedule - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

func toIntSlice(arr pq.Int64Array) []int {
	result := make([]int, len(arr))
	for i, v := range arr {
		result[i] = int(v)
	}
	return result
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

// isUniqueViolation проверяет нарушение unique constraint PostgreSQL
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}
