package cancel_appointment

// CancelAppointmentRequest HTTP тело запроса на отмену записи
type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}
