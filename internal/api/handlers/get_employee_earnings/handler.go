package get_employee_earnings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SBP-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SBP-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	payrollService "github.com/m04kA/SBP-SchedulingService/internal/service/payroll"
	"github.com/m04kA/SBP-SchedulingService/internal/service/payroll/models"
)

const (
	msgInvalidEmployeeID = "некорректный идентификатор сотрудника"
	msgInvalidPeriod     = "некорректный период, ожидается start_date и end_date в формате YYYY-MM-DD"
	msgEmployeeNotFound  = "сотрудник не найден"
	msgAccessDenied      = "расчёт заработка доступен только сотрудникам салона"
)

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

// Handle GET /api/v1/employees/{employeeId}/earnings?start_date=X&end_date=Y
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	employeeID, err := strconv.ParseInt(vars["employeeId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /employees/{id}/earnings - Invalid employee ID: %s", vars["employeeId"])
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	actorRole, _ := middleware.GetActorRole(r.Context())
	actorID, _ := middleware.GetActorID(r.Context())
	if actorRole == domain.RoleClient {
		h.logger.Warn("GET /employees/{id}/earnings - Access denied for client actor=%d", actorID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}
	// Сотрудник видит только свой заработок, владелец - любой в своём салоне
	if actorRole == domain.RoleEmployee && actorID != employeeID {
		h.logger.Warn("GET /employees/{id}/earnings - Employee %d cannot view earnings of %d", actorID, employeeID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	req := &models.GetEarningsRequest{
		EmployeeID: employeeID,
		StartDate:  r.URL.Query().Get("start_date"),
		EndDate:    r.URL.Query().Get("end_date"),
	}

	result, err := h.service.GetEarnings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, payrollService.ErrEmployeeNotFound):
			h.logger.Warn("GET /employees/{id}/earnings - Employee not found: employee_id=%d", employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, payrollService.ErrInvalidInput):
			h.logger.Warn("GET /employees/{id}/earnings - Invalid period: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /employees/{id}/earnings - Failed: employee_id=%d, error=%v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /employees/{id}/earnings - employee_id=%d, completed=%d, total=%d",
		employeeID, result.Completed, result.TotalEarned)
	handlers.RespondJSON(w, http.StatusOK, result)
}
