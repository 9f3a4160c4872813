package models

import (
	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

// Request модели

// UpdateScheduleRequest запрос на обновление расписания и политики мерчанта
type UpdateScheduleRequest struct {
	WorkingDays             []int             `json:"working_days"` // 0 = воскресенье ... 6 = суббота
	OpenTime                types.TimeString  `json:"open_time"`
	CloseTime               types.TimeString  `json:"close_time"`
	BreakStart              *types.TimeString `json:"break_start,omitempty"`
	BreakEnd                *types.TimeString `json:"break_end,omitempty"`
	CancellationPolicyHours int               `json:"cancellation_policy_hours"`
	CancellationFeeEnabled  bool              `json:"cancellation_fee_enabled"`
	CancellationFeeAmount   int64             `json:"cancellation_fee_amount"` // минорные единицы
	IsOpen                  bool              `json:"is_open"`
	Timezone                string            `json:"timezone"` // IANA
}

// CreateDayOffRequest запрос на регистрацию выходного сотрудника
type CreateDayOffRequest struct {
	EmployeeID int64
	MerchantID int64
	Date       string  `json:"date"` // формат YYYY-MM-DD
	Reason     *string `json:"reason,omitempty"`
}

// Response модели

// ScheduleResponse расписание и политика мерчанта
type ScheduleResponse struct {
	MerchantID              int64             `json:"merchant_id"`
	Name                    string            `json:"name"`
	WorkingDays             []int             `json:"working_days"`
	OpenTime                types.TimeString  `json:"open_time"`
	CloseTime               types.TimeString  `json:"close_time"`
	BreakStart              *types.TimeString `json:"break_start,omitempty"`
	BreakEnd                *types.TimeString `json:"break_end,omitempty"`
	CancellationPolicyHours int               `json:"cancellation_policy_hours"`
	CancellationFeeEnabled  bool              `json:"cancellation_fee_enabled"`
	CancellationFeeAmount   int64             `json:"cancellation_fee_amount"`
	IsOpen                  bool              `json:"is_open"`
	Timezone                string            `json:"timezone"`
}

// UpdateScheduleResponse результат обновления расписания
type UpdateScheduleResponse struct {
	Schedule ScheduleResponse `json:"schedule"`

	// Сколько сотрудников получили новый график (с личным расписанием -
	// не синхронизируются)
	EmployeesSynced int64 `json:"employees_synced"`
}

// DayOffResponse зарегистрированный выходной
type DayOffResponse struct {
	ID         int64   `json:"id"`
	EmployeeID int64   `json:"employee_id"`
	Date       string  `json:"date"`
	Reason     *string `json:"reason,omitempty"`
}

// FromDomainMerchant конвертирует domain модель в response
func FromDomainMerchant(m *domain.Merchant) ScheduleResponse {
	return ScheduleResponse{
		MerchantID:              m.ID,
		Name:                    m.Name,
		WorkingDays:             m.WorkingDays,
		OpenTime:                m.OpenTime,
		CloseTime:               m.CloseTime,
		BreakStart:              m.BreakStart,
		BreakEnd:                m.BreakEnd,
		CancellationPolicyHours: m.CancellationPolicyHours,
		CancellationFeeEnabled:  m.CancellationFeeEnabled,
		CancellationFeeAmount:   m.CancellationFeeAmount,
		IsOpen:                  m.IsOpen,
		Timezone:                m.Timezone,
	}
}

// FromDomainDayOff конвертирует domain модель в response
func FromDomainDayOff(d *domain.DayOff) *DayOffResponse {
	return &DayOffResponse{
		ID:         d.ID,
		EmployeeID: d.EmployeeID,
		Date:       d.Date.Format(domain.DateFormat),
		Reason:     d.Reason,
	}
}
