package appointment

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

// appointmentColumns полный набор колонок таблицы appointments
var appointmentColumns = []string{
	"id",
	"merchant_id",
	"employee_id",
	"service_id",
	"client_id",
	"appointment_date",
	"start_time",
	"end_time",
	"duration_minutes",
	"status",
	"client_name",
	"client_phone",
	"client_email",
	"service_name",
	"service_price",
	"original_price",
	"promotion_id",
	"cancel_policy_hours",
	"cancel_fee_enabled",
	"cancel_fee_amount",
	"cancellation_reason",
	"reschedule_reason",
	"cancelled_at",
	"actual_start_time",
	"actual_end_time",
	"completed_at",
	"payment_status",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на услуги
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись.
// Вызывается внутри сериализуемой транзакции use case бронирования:
// проверка конфликтов и вставка выполняются как одно целое.
// Конкурирующая вставка на тот же слот ловится partial unique index
// (employee_id, appointment_date, start_time) по активным статусам
// и превращается в ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"merchant_id",
			"employee_id",
			"service_id",
			"client_id",
			"appointment_date",
			"start_time",
			"end_time",
			"duration_minutes",
			"status",
			"client_name",
			"client_phone",
			"client_email",
			"service_name",
			"service_price",
			"original_price",
			"promotion_id",
			"cancel_policy_hours",
			"cancel_fee_enabled",
			"cancel_fee_amount",
			"notes",
		).
		Values(
			a.MerchantID,
			a.EmployeeID,
			a.ServiceID,
			a.ClientID,
			a.Date,
			a.StartTime,
			a.EndTime,
			a.DurationMinutes,
			a.Status,
			a.ClientName,
			a.ClientPhone,
			a.ClientEmail,
			a.ServiceName,
			a.ServicePrice,
			a.OriginalPrice,
			a.PromotionID,
			a.CancelPolicyHours,
			a.CancelFeeEnabled,
			a.CancelFeeAmount,
			a.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&createdAt,
		&updatedAt,
	)

	if isUniqueViolation(err) {
		return nil, ErrSlotTaken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// GetByEmployeeAndDate получает записи сотрудника на дату.
// activeOnly исключает терминальные статусы (они не занимают слот).
// Внутри транзакции выборка блокируется FOR UPDATE - это часть
// check-and-reserve при создании записи.
func (r *Repository) GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time, activeOnly bool) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.Eq{"appointment_date": date}).
		OrderBy("start_time ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": activeStatusStrings()})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmployeeAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmployeeAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetByClient получает записи клиента, опционально фильтруя по статусу
func (r *Repository) GetByClient(ctx context.Context, clientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("appointment_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClient - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClient - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetByMerchantWithFilter получает записи мерчанта с гибкой фильтрацией
// по сотруднику, периоду и статусу
func (r *Repository) GetByMerchantWithFilter(ctx context.Context, filter domain.MerchantAppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"merchant_id": filter.MerchantID})

	if filter.EmployeeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"employee_id": *filter.EmployeeID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"appointment_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": activeStatusStrings()})
	}

	// Для выборки на конкретную дату - по времени начала, иначе свежие сверху
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("appointment_date DESC, start_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByMerchantWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByMerchantWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetCompletedByEmployeeInRange получает выполненные записи сотрудника
// за период. Используется расчётом заработка: только статус completed,
// отменённые и no-show не участвуют.
func (r *Repository) GetCompletedByEmployeeInRange(ctx context.Context, employeeID int64, from, to time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.Eq{"status": domain.StatusCompleted}).
		Where(squirrel.GtOrEq{"appointment_date": from}).
		Where(squirrel.LtOrEq{"appointment_date": to}).
		OrderBy("appointment_date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCompletedByEmployeeInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetCompletedByEmployeeInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// UpdateStatus обновляет статус записи с отметками времени.
// nil-поля patch не трогают существующие значения - отметки ставятся
// только при первом входе в статус.
// UPDATE условный: from - статус, который вызывающий прочитал перед
// проверкой перехода. Если строка к моменту записи ушла из from,
// возвращается ErrStatusConflict - проигравший не перетирает
// результат конкурирующего перехода.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from domain.AppointmentStatus, patch domain.StatusPatch) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("status", patch.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from})

	if patch.ActualStartTime != nil {
		updateBuilder = updateBuilder.Set("actual_start_time", *patch.ActualStartTime)
	}
	if patch.ActualEndTime != nil {
		updateBuilder = updateBuilder.Set("actual_end_time", *patch.ActualEndTime)
	}
	if patch.CompletedAt != nil {
		updateBuilder = updateBuilder.Set("completed_at", *patch.CompletedAt)
	}
	if patch.PaymentStatus != nil {
		updateBuilder = updateBuilder.Set("payment_status", *patch.PaymentStatus)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	// Запись была прочитана перед вызовом - нулевой результат означает,
	// что её статус успела сменить конкурирующая операция
	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// Cancel отменяет запись с указанием причины.
// UPDATE условный по статусу from - см. UpdateStatus.
func (r *Repository) Cancel(ctx context.Context, id int64, from domain.AppointmentStatus, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// Reschedule переносит запись на новый слот и возвращает её в pending.
// UPDATE условный по статусу from - см. UpdateStatus. Конкурирующая
// запись на новый слот ловится unique index так же, как при создании.
func (r *Repository) Reschedule(ctx context.Context, id int64, from domain.AppointmentStatus, date time.Time, start, end types.TimeString, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("appointment_date", date).
		Set("start_time", start).
		Set("end_time", end).
		Set("status", domain.StatusPending).
		Set("reschedule_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return ErrSlotTaken
	}
	if err != nil {
		return fmt.Errorf("%w: Reschedule - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Reschedule - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// DeleteByService удаляет все записи услуги (применяется при
// административном удалении услуги вместе с историей)
func (r *Repository) DeleteByService(ctx context.Context, serviceID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("appointments").
		Where(squirrel.Eq{"service_id": serviceID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByService - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByService - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByService - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAppointment сканирует одну строку в доменную модель
func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.MerchantID,
		&a.EmployeeID,
		&a.ServiceID,
		&a.ClientID,
		&a.Date,
		&a.StartTime,
		&a.EndTime,
		&a.DurationMinutes,
		&a.Status,
		&a.ClientName,
		&a.ClientPhone,
		&a.ClientEmail,
		&a.ServiceName,
		&a.ServicePrice,
		&a.OriginalPrice,
		&a.PromotionID,
		&a.CancelPolicyHours,
		&a.CancelFeeEnabled,
		&a.CancelFeeAmount,
		&a.CancellationReason,
		&a.RescheduleReason,
		&a.CancelledAt,
		&a.ActualStartTime,
		&a.ActualEndTime,
		&a.CompletedAt,
		&a.PaymentStatus,
		&a.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// activeStatusStrings статусы, занимающие слот, в строковом виде для squirrel
func activeStatusStrings() []string {
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

// isUniqueViolation проверяет нарушение unique constraint PostgreSQL
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}
