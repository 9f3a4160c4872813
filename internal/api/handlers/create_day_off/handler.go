package create_day_off

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SBP-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SBP-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	scheduleService "github.com/m04kA/SBP-SchedulingService/internal/service/schedule"
	"github.com/m04kA/SBP-SchedulingService/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidEmployeeID  = "некорректный идентификатор сотрудника"
	msgEmployeeNotFound   = "сотрудник не найден"
	msgDayOffExists       = "выходной на эту дату уже зарегистрирован"
	msgAccessDenied       = "регистрация выходных доступна только сотрудникам салона"
)

// CreateDayOffBody HTTP тело запроса на регистрацию выходного
type CreateDayOffBody struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Reason *string `json:"reason,omitempty"`
}

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/employees/{employeeId}/days-off
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	employeeID, err := strconv.ParseInt(vars["employeeId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /employees/{id}/days-off - Invalid employee ID: %s", vars["employeeId"])
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	actorRole, _ := middleware.GetActorRole(r.Context())
	merchantID, _ := middleware.GetMerchantID(r.Context())
	if actorRole == domain.RoleClient {
		h.logger.Warn("POST /employees/{id}/days-off - Access denied for client")
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	var body CreateDayOffBody
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /employees/{id}/days-off - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	req := &models.CreateDayOffRequest{
		EmployeeID: employeeID,
		MerchantID: merchantID,
		Date:       body.Date,
		Reason:     body.Reason,
	}

	result, err := h.service.CreateDayOff(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrEmployeeNotFound):
			h.logger.Warn("POST /employees/{id}/days-off - Employee not found: employee_id=%d", employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, scheduleService.ErrDayOffExists):
			h.logger.Warn("POST /employees/{id}/days-off - Day off exists: employee_id=%d, date=%s", employeeID, body.Date)
			handlers.RespondError(w, http.StatusConflict, msgDayOffExists)

		case errors.Is(err, scheduleService.ErrAccessDenied):
			h.logger.Warn("POST /employees/{id}/days-off - Access denied: employee_id=%d, merchant=%d", employeeID, merchantID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, scheduleService.ErrInvalidInput):
			h.logger.Warn("POST /employees/{id}/days-off - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /employees/{id}/days-off - Failed: employee_id=%d, error=%v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /employees/{id}/days-off - Created: employee_id=%d, date=%s", employeeID, result.Date)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
