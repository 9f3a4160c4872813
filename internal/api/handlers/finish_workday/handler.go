package finish_workday

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SBP-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SBP-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	payrollService "github.com/m04kA/SBP-SchedulingService/internal/service/payroll"
	"github.com/m04kA/SBP-SchedulingService/internal/service/payroll/models"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidEmployeeID  = "некорректный идентификатор сотрудника"
	msgEmployeeNotFound   = "сотрудник не найден"
	msgAccessDenied       = "закрытие смены доступно только сотрудникам салона"
)

// FinishWorkdayBody HTTP тело запроса на закрытие смены (опциональное)
type FinishWorkdayBody struct {
	ActualEndTime *string `json:"actual_end_time,omitempty"` // HH:MM
}

type Handler struct {
	service PayrollService
	logger  Logger
}

func NewHandler(service PayrollService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/employees/{employeeId}/finish-workday
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	employeeID, err := strconv.ParseInt(vars["employeeId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /employees/{id}/finish-workday - Invalid employee ID: %s", vars["employeeId"])
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	actorRole, _ := middleware.GetActorRole(r.Context())
	if actorRole == domain.RoleClient {
		h.logger.Warn("POST /employees/{id}/finish-workday - Access denied for client")
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	// Тело опционально: без него фактическим концом считается "сейчас"
	var body FinishWorkdayBody
	if err := handlers.DecodeJSON(r, &body); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /employees/{id}/finish-workday - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	req := &models.FinishWorkdayRequest{EmployeeID: employeeID}
	if body.ActualEndTime != nil {
		ts := types.TimeString(*body.ActualEndTime)
		req.ActualEndTime = &ts
	}

	result, err := h.service.FinishWorkday(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, payrollService.ErrEmployeeNotFound):
			h.logger.Warn("POST /employees/{id}/finish-workday - Employee not found: employee_id=%d", employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, payrollService.ErrInvalidInput):
			h.logger.Warn("POST /employees/{id}/finish-workday - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /employees/{id}/finish-workday - Failed: employee_id=%d, error=%v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /employees/{id}/finish-workday - employee_id=%d, overtime=%dm",
		employeeID, result.OvertimeMinutes)
	handlers.RespondJSON(w, http.StatusOK, result)
}
