package get_merchant_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SBP-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SBP-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	appointmentsService "github.com/m04kA/SBP-SchedulingService/internal/service/appointments"
	"github.com/m04kA/SBP-SchedulingService/internal/service/appointments/models"
)

const (
	msgInvalidMerchantID = "некорректный идентификатор салона"
	msgInvalidEmployeeID = "некорректный идентификатор сотрудника"
	msgInvalidStatus     = "недопустимый статус записи"
	msgInvalidFilter     = "некорректные параметры фильтрации"
	msgAccessDenied      = "журнал записей доступен только сотрудникам салона"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/merchants/{merchantId}/appointments
// Параметры: employee_id, start_date, end_date, status, include_inactive
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	merchantID, err := strconv.ParseInt(vars["merchantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /merchants/{id}/appointments - Invalid merchant ID: %s", vars["merchantId"])
		handlers.RespondBadRequest(w, msgInvalidMerchantID)
		return
	}

	// Журнал мерчанта закрыт для клиентов и чужих сотрудников
	actorRole, _ := middleware.GetActorRole(r.Context())
	actorMerchantID, _ := middleware.GetMerchantID(r.Context())
	if actorRole == domain.RoleClient || actorMerchantID != merchantID {
		h.logger.Warn("GET /merchants/{id}/appointments - Access denied: merchant=%d, actor_merchant=%d", merchantID, actorMerchantID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	req := &models.GetMerchantAppointmentsRequest{MerchantID: merchantID}

	query := r.URL.Query()
	if v := query.Get("employee_id"); v != "" {
		employeeID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidEmployeeID)
			return
		}
		req.EmployeeID = &employeeID
	}
	if v := query.Get("start_date"); v != "" {
		req.StartDate = &v
	}
	if v := query.Get("end_date"); v != "" {
		req.EndDate = &v
	}
	if v := query.Get("status"); v != "" {
		req.Status = &v
	}
	req.IncludeInactive = query.Get("include_inactive") == "true"

	result, err := h.service.GetMerchantAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointmentsService.ErrInvalidStatus):
			h.logger.Warn("GET /merchants/{id}/appointments - Invalid status: %v", req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, appointmentsService.ErrInvalidInput):
			h.logger.Warn("GET /merchants/{id}/appointments - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /merchants/{id}/appointments - Failed: merchant=%d, error=%v", merchantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /merchants/{id}/appointments - %d appointments for merchant=%d", result.Total, merchantID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
