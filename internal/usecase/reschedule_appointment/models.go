package reschedule_appointment

import (
	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

// Request - запрос на перенос записи
type Request struct {
	AppointmentID int64

	// Инициатор: роль и его идентификатор, для staff-ролей id мерчанта
	ActorRole  domain.ActorRole
	ActorID    int64
	MerchantID int64

	NewDate      string           // формат YYYY-MM-DD
	NewStartTime types.TimeString
	Reason       string
}

// Response - перенесённая запись
type Response struct {
	AppointmentID int64            `json:"appointment_id"`
	Date          string           `json:"date"`
	StartTime     types.TimeString `json:"start_time"`
	EndTime       types.TimeString `json:"end_time"`
	Status        string           `json:"status"`
}
