package models

import "github.com/m04kA/SBP-SchedulingService/pkg/types"

// Request модели

// GetEarningsRequest запрос заработка сотрудника за период
type GetEarningsRequest struct {
	EmployeeID int64
	StartDate  string // формат YYYY-MM-DD
	EndDate    string
}

// FinishWorkdayRequest запрос закрытия смены сотрудника.
// ActualEndTime опционально: по умолчанию берётся текущее время
// в таймзоне мерчанта.
type FinishWorkdayRequest struct {
	EmployeeID    int64
	ActualEndTime *types.TimeString `json:"actual_end_time,omitempty"`
}

// Response модели

// EarningLine строка расчёта по одной выполненной записи
type EarningLine struct {
	AppointmentID int64  `json:"appointment_id"`
	Date          string `json:"date"`
	ServiceName   string `json:"service_name"`
	ServicePrice  int64  `json:"service_price"`
	Earned        int64  `json:"earned"` // минорные единицы
}

// EarningsResponse заработок сотрудника за период
type EarningsResponse struct {
	EmployeeID   int64         `json:"employee_id"`
	StartDate    string        `json:"start_date"`
	EndDate      string        `json:"end_date"`
	PayType      string        `json:"pay_type"`
	PayValue     int64         `json:"pay_value"`
	Appointments []EarningLine `json:"appointments"`
	Completed    int           `json:"completed"`
	TotalEarned  int64         `json:"total_earned"` // минорные единицы
}

// FinishWorkdayResponse результат закрытия смены
type FinishWorkdayResponse struct {
	EmployeeID           int64            `json:"employee_id"`
	ScheduledEndTime     types.TimeString `json:"scheduled_end_time"`
	ActualEndTime        types.TimeString `json:"actual_end_time"`
	OvertimeMinutes      int              `json:"overtime_minutes"`
	TotalOvertimeMinutes int              `json:"total_overtime_minutes"`
}
