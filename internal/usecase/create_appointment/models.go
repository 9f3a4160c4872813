package create_appointment

import (
	"time"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

// Request - запрос на создание записи
type Request struct {
	EmployeeID int64            `json:"employee_id"`
	ServiceID  int64            `json:"service_id"`
	Date       string           `json:"date"` // формат YYYY-MM-DD
	StartTime  types.TimeString `json:"start_time"`

	// ClientID nil для гостевой записи - тогда обязательны имя и телефон
	ClientID    *int64  `json:"client_id,omitempty"`
	ClientName  string  `json:"client_name,omitempty"`
	ClientPhone string  `json:"client_phone,omitempty"`
	ClientEmail *string `json:"client_email,omitempty"`

	Notes *string `json:"notes,omitempty"`
}

// Response - созданная запись
type Response struct {
	ID         int64  `json:"id"`
	MerchantID int64  `json:"merchant_id"`
	EmployeeID int64  `json:"employee_id"`
	ServiceID  int64  `json:"service_id"`
	ClientID   *int64 `json:"client_id,omitempty"`

	Date            string           `json:"date"`
	StartTime       types.TimeString `json:"start_time"`
	EndTime         types.TimeString `json:"end_time"`
	DurationMinutes int              `json:"duration_minutes"`
	Status          string           `json:"status"`

	ClientName  string  `json:"client_name"`
	ClientPhone string  `json:"client_phone"`
	ClientEmail *string `json:"client_email,omitempty"`

	ServiceName   string `json:"service_name"`
	ServicePrice  int64  `json:"service_price"`
	OriginalPrice int64  `json:"original_price"`
	PromotionID   *int64 `json:"promotion_id,omitempty"`

	Notes *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func toResponse(a *domain.Appointment) *Response {
	return &Response{
		ID:              a.ID,
		MerchantID:      a.MerchantID,
		EmployeeID:      a.EmployeeID,
		ServiceID:       a.ServiceID,
		ClientID:        a.ClientID,
		Date:            a.Date.Format(domain.DateFormat),
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		ClientName:      a.ClientName,
		ClientPhone:     a.ClientPhone,
		ClientEmail:     a.ClientEmail,
		ServiceName:     a.ServiceName,
		ServicePrice:    a.ServicePrice,
		OriginalPrice:   a.OriginalPrice,
		PromotionID:     a.PromotionID,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
	}
}
