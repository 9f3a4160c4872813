package get_available_slots

import "github.com/m04kA/SBP-SchedulingService/pkg/types"

// Request - запрос на получение свободных слотов
type Request struct {
	EmployeeID int64
	ServiceID  int64
	Date       string // формат YYYY-MM-DD
}

// Response - список свободных слотов на дату
type Response struct {
	EmployeeID      int64              `json:"employee_id"`
	ServiceID       int64              `json:"service_id"`
	Date            string             `json:"date"`
	DurationMinutes int                `json:"duration_minutes"`
	Slots           []types.TimeString `json:"slots"`
}
