package domain

import (
	"time"

	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

// PayType represents how an employee is compensated
type PayType string

const (
	// PayFixed фиксированная сумма за каждую выполненную запись
	PayFixed PayType = "fixed"
	// PayPercentage процент от цены услуги, хранится в базисных пунктах
	// (1000 = 10.00%)
	PayPercentage PayType = "percentage"
	// PayMonthly оклад, не зависит от выполненных записей
	PayMonthly PayType = "monthly"
)

// Employee represents a staff member of a merchant
type Employee struct {
	ID         int64
	MerchantID int64
	Name       string

	// Рабочие дни недели (0 = воскресенье ... 6 = суббота)
	WorkingDays []int
	StartTime   types.TimeString
	EndTime     types.TimeString
	BreakStart  *types.TimeString
	BreakEnd    *types.TimeString

	// Личное расписание: true - часы заданы вручную и не синхронизируются
	// с часами мерчанта
	ScheduleOverride bool

	IsActive bool

	PayType  PayType
	PayValue int64 // минорные единицы для fixed/monthly, базисные пункты для percentage

	// Накопленные сверхурочные
	OvertimeMinutes  int
	LastOvertimeDate *time.Time

	// Временное продление рабочего дня (сбрасывается при закрытии смены)
	ExtendedEndTime *types.TimeString

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorksOn returns true if the employee works on the given weekday.
func (e *Employee) WorksOn(weekday time.Weekday) bool {
	for _, d := range e.WorkingDays {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

// EffectiveEndTime возвращает фактический конец рабочего дня
// с учётом временного продления
func (e *Employee) EffectiveEndTime() types.TimeString {
	if e.ExtendedEndTime != nil && !e.ExtendedEndTime.IsZero() {
		return *e.ExtendedEndTime
	}
	return e.EndTime
}

// HasBreak returns true if a break window is configured.
func (e *Employee) HasBreak() bool {
	return e.BreakStart != nil && e.BreakEnd != nil
}

// DayOff регистрирует выходной сотрудника на конкретную дату.
// На (employee, date) может существовать не более одной записи.
type DayOff struct {
	ID         int64
	MerchantID int64
	EmployeeID int64
	Date       time.Time
	Reason     *string
	CreatedAt  time.Time
}
