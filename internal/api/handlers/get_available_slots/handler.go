package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SBP-SchedulingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SBP-SchedulingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidEmployeeID = "некорректный идентификатор сотрудника"
	msgInvalidServiceID  = "некорректный идентификатор услуги"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgEmployeeNotFound  = "сотрудник не найден"
	msgServiceNotFound   = "услуга не найдена"
	msgServiceInactive   = "услуга недоступна для записи"
	msgMerchantNotFound  = "салон не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/employees/{employeeId}/available-slots?service_id=X&date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	employeeID, err := strconv.ParseInt(vars["employeeId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid employee ID: %s", vars["employeeId"])
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	serviceID, err := strconv.ParseInt(r.URL.Query().Get("service_id"), 10, 64)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid service ID: %s", r.URL.Query().Get("service_id"))
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	req := getAvailableSlots.Request{
		EmployeeID: employeeID,
		ServiceID:  serviceID,
		Date:       r.URL.Query().Get("date"),
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrEmployeeNotFound):
			h.logger.Warn("GET /available-slots - Employee not found: employee_id=%d", employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /available-slots - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceInactive):
			h.logger.Warn("GET /available-slots - Service inactive: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, getAvailableSlots.ErrMerchantNotFound):
			h.logger.Warn("GET /available-slots - Merchant not found for employee_id=%d", employeeID)
			handlers.RespondNotFound(w, msgMerchantNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /available-slots - Failed: employee_id=%d, error=%v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /available-slots - %d slots for employee_id=%d on %s", len(result.Slots), employeeID, req.Date)
	handlers.RespondJSON(w, http.StatusOK, result)
}
