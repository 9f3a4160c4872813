package cancel_appointment

import "github.com/m04kA/SBP-SchedulingService/internal/domain"

// Request - запрос на отмену записи
type Request struct {
	AppointmentID int64

	// Инициатор: роль и его идентификатор (client id либо employee id),
	// для staff-ролей дополнительно id мерчанта
	ActorRole  domain.ActorRole
	ActorID    int64
	MerchantID int64

	Reason string
}

// Response - результат отмены
type Response struct {
	AppointmentID int64  `json:"appointment_id"`
	Status        string `json:"status"`

	// Штраф, если отмена была платной
	PenaltyAmount    int64   `json:"penalty_amount,omitempty"`
	PenaltyReference *string `json:"penalty_reference,omitempty"`
}
