package reschedule_appointment

// RescheduleAppointmentRequest HTTP тело запроса на перенос записи
type RescheduleAppointmentRequest struct {
	NewDate      string `json:"new_date"`       // YYYY-MM-DD
	NewStartTime string `json:"new_start_time"` // HH:MM
	Reason       string `json:"reason,omitempty"`
}
