package domain

import (
	"time"

	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusLate       AppointmentStatus = "late"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// PaymentStatus represents the settlement status of a completed appointment
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentWaived  PaymentStatus = "waived"
)

// TerminalStatuses статусы, из которых нет переходов.
// Записи в терминальном статусе не занимают слот.
var TerminalStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// ActiveStatuses статусы, в которых запись занимает свой временной слот.
// Используются при подсчёте конфликтов и в partial unique index БД.
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusScheduled,
	StatusConfirmed,
	StatusInProgress,
	StatusLate,
}

// transitions таблица разрешённых переходов статусов.
// Терминальные статусы отсутствуют в таблице - из них переходов нет.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:    {StatusScheduled, StatusConfirmed, StatusInProgress, StatusLate, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusScheduled:  {StatusConfirmed, StatusInProgress, StatusLate, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusLate, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusLate, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusLate:       {StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow},
}

// ParseAppointmentStatus валидирует строковое представление статуса
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case StatusPending, StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusLate, StatusCompleted, StatusCancelled, StatusNoShow:
		return AppointmentStatus(s), true
	default:
		return "", false
	}
}

// IsTerminal returns true if no transition is permitted out of the status.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// CanTransitionTo checks the transition table.
func (s AppointmentStatus) CanTransitionTo(to AppointmentStatus) bool {
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == to {
			return true
		}
	}
	return false
}

// Appointment represents a booked time slot for an employee.
// Service data, client contact and the merchant cancellation policy are
// denormalized at booking time: later edits to the service, client profile
// or merchant policy never retroactively change an existing appointment.
type Appointment struct {
	ID         int64
	MerchantID int64
	EmployeeID int64
	ServiceID  int64
	ClientID   *int64 // nil для гостевой записи (walk-in по телефону)

	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	// Снапшот контакта клиента на момент записи
	ClientName  string
	ClientPhone string
	ClientEmail *string

	// Снапшот услуги и цены (с учётом акции) на момент записи
	ServiceName   string
	ServicePrice  int64 // итоговая цена в минорных единицах
	OriginalPrice int64 // цена без скидки
	PromotionID   *int64

	// Снапшот политики отмены мерчанта на момент записи
	CancelPolicyHours int
	CancelFeeEnabled  bool
	CancelFeeAmount   int64

	CancellationReason *string
	RescheduleReason   *string
	CancelledAt        *time.Time

	ActualStartTime *time.Time
	ActualEndTime   *time.Time
	CompletedAt     *time.Time
	PaymentStatus   *PaymentStatus

	Notes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its time slot.
func (a *Appointment) IsActive() bool {
	return !a.Status.IsTerminal()
}

// StartsAt собирает полную метку времени начала записи в указанной локации
func (a *Appointment) StartsAt(loc *time.Location) time.Time {
	return a.StartTime.At(a.Date, loc)
}

// StatusPatch изменение статуса записи вместе с отметками времени.
// nil-поля не изменяются. Отметки ставятся только при первом входе
// в соответствующий статус.
type StatusPatch struct {
	Status          AppointmentStatus
	ActualStartTime *time.Time
	ActualEndTime   *time.Time
	CompletedAt     *time.Time
	PaymentStatus   *PaymentStatus
}

// MerchantAppointmentsFilter фильтр для выборки записей мерчанта
type MerchantAppointmentsFilter struct {
	MerchantID      int64
	EmployeeID      *int64             // nil - все сотрудники
	StartDate       *time.Time         // nil - без нижней границы
	EndDate         *time.Time         // nil - без верхней границы
	Status          *AppointmentStatus // nil - все статусы
	IncludeInactive bool               // включать ли терминальные статусы
}
