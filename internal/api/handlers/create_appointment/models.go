package create_appointment

import (
	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	createAppointment "github.com/m04kA/SBP-SchedulingService/internal/usecase/create_appointment"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

// CreateAppointmentRequest HTTP тело запроса на создание записи
type CreateAppointmentRequest struct {
	EmployeeID int64  `json:"employee_id"`
	ServiceID  int64  `json:"service_id"`
	Date       string `json:"date"`       // YYYY-MM-DD
	StartTime  string `json:"start_time"` // HH:MM

	ClientName  string  `json:"client_name,omitempty"`
	ClientPhone string  `json:"client_phone,omitempty"`
	ClientEmail *string `json:"client_email,omitempty"`

	Notes *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Клиент берётся из контекста аутентификации: для роли client его id
// становится client_id записи, staff-роли создают гостевую запись.
func (r *CreateAppointmentRequest) ToUseCaseRequest(actorRole domain.ActorRole, actorID int64) createAppointment.Request {
	req := createAppointment.Request{
		EmployeeID:  r.EmployeeID,
		ServiceID:   r.ServiceID,
		Date:        r.Date,
		StartTime:   types.TimeString(r.StartTime),
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		ClientEmail: r.ClientEmail,
		Notes:       r.Notes,
	}

	if actorRole == domain.RoleClient {
		id := actorID
		req.ClientID = &id
	}

	return req
}
