package models

import (
	"errors"
	"time"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// Actor - инициатор операции, уже прошедший аутентификацию выше по стеку
type Actor struct {
	Role       domain.ActorRole
	ID         int64
	MerchantID int64
}

// UpdateStatusRequest запрос на изменение статуса записи
type UpdateStatusRequest struct {
	Actor  Actor
	Status string `json:"status"`
}

// GetClientAppointmentsRequest запрос истории записей клиента
type GetClientAppointmentsRequest struct {
	ClientID int64
	Status   *string
}

// GetMerchantAppointmentsRequest запрос журнала записей мерчанта
type GetMerchantAppointmentsRequest struct {
	MerchantID      int64
	EmployeeID      *int64
	StartDate       *string // формат YYYY-MM-DD
	EndDate         *string
	Status          *string
	IncludeInactive bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetMerchantAppointmentsRequest) ToDomainFilter() (domain.MerchantAppointmentsFilter, error) {
	filter := domain.MerchantAppointmentsFilter{
		MerchantID:      r.MerchantID,
		EmployeeID:      r.EmployeeID,
		IncludeInactive: r.IncludeInactive,
	}

	if r.StartDate != nil {
		d, err := time.Parse(domain.DateFormat, *r.StartDate)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &d
	}
	if r.EndDate != nil {
		d, err := time.Parse(domain.DateFormat, *r.EndDate)
		if err != nil {
			return filter, err
		}
		filter.EndDate = &d
	}
	if r.Status != nil {
		status, ok := domain.ParseAppointmentStatus(*r.Status)
		if !ok {
			return filter, ErrInvalidStatus
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
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

	CancellationReason *string `json:"cancellation_reason,omitempty"`
	RescheduleReason   *string `json:"reschedule_reason,omitempty"`
	CancelledAt        *string `json:"cancelled_at,omitempty"` // ISO 8601

	ActualStartTime *string `json:"actual_start_time,omitempty"`
	ActualEndTime   *string `json:"actual_end_time,omitempty"`
	CompletedAt     *string `json:"completed_at,omitempty"`
	PaymentStatus   *string `json:"payment_status,omitempty"`

	Notes *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// FromDomainAppointment конвертирует domain модель в response
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
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

		CancellationReason: a.CancellationReason,
		RescheduleReason:   a.RescheduleReason,

		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}

	resp.CancelledAt = formatTime(a.CancelledAt)
	resp.ActualStartTime = formatTime(a.ActualStartTime)
	resp.ActualEndTime = formatTime(a.ActualEndTime)
	resp.CompletedAt = formatTime(a.CompletedAt)
	if a.PaymentStatus != nil {
		s := string(*a.PaymentStatus)
		resp.PaymentStatus = &s
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в response
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
		Total:        len(list),
	}
	for _, a := range list {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
