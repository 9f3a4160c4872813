package domain

import "github.com/m04kA/SBP-SchedulingService/pkg/types"

// EarningsForAppointment вычисляет выплату сотруднику за одну выполненную
// запись. Учитываются только записи в статусе completed - это проверяет
// вызывающая сторона выборкой из хранилища.
//
// fixed: фиксированная сумма за запись
// percentage: round(цена услуги * ставка / 10000), ставка в базисных пунктах
// monthly: оклад, за отдельные записи не начисляется
func EarningsForAppointment(e *Employee, a *Appointment) int64 {
	switch e.PayType {
	case PayFixed:
		return e.PayValue
	case PayPercentage:
		return roundDiv(a.ServicePrice*e.PayValue, 10000)
	default:
		return 0
	}
}

// OvertimeMinutes вычисляет сверхурочные минуты по окончании смены:
// max(0, фактический конец - плановый конец)
func OvertimeMinutes(scheduledEnd, actualEnd types.TimeString) int {
	overtime := actualEnd.SubMinutes(scheduledEnd)
	if overtime < 0 {
		return 0
	}
	return overtime
}
