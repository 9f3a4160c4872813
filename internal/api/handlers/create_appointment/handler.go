package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SBP-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SBP-SchedulingService/internal/api/middleware"
	createAppointment "github.com/m04kA/SBP-SchedulingService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные запроса"
	msgEmployeeNotFound   = "сотрудник не найден"
	msgMerchantNotFound   = "салон не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceInactive    = "услуга недоступна для записи"
	msgClientNotFound     = "клиент не найден"
	msgSlotUnavailable    = "выбранный слот вне рабочего графика"
	msgSlotConflict       = "выбранный слот уже занят"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actorID, _ := middleware.GetActorID(r.Context())
	actorRole, _ := middleware.GetActorRole(r.Context())

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actorRole, actorID))
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotConflict):
			h.logger.Warn("POST /appointments - Slot conflict: employee_id=%d, date=%s %s", req.EmployeeID, req.Date, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, createAppointment.ErrSlotUnavailable):
			h.logger.Warn("POST /appointments - Slot unavailable: employee_id=%d, date=%s %s", req.EmployeeID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgSlotUnavailable)

		case errors.Is(err, createAppointment.ErrEmployeeNotFound):
			h.logger.Warn("POST /appointments - Employee not found: employee_id=%d", req.EmployeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrServiceInactive):
			h.logger.Warn("POST /appointments - Service inactive: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createAppointment.ErrMerchantNotFound):
			h.logger.Warn("POST /appointments - Merchant not found for employee_id=%d", req.EmployeeID)
			handlers.RespondNotFound(w, msgMerchantNotFound)

		case errors.Is(err, createAppointment.ErrClientNotFound):
			h.logger.Warn("POST /appointments - Client not found: actor_id=%d", actorID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: employee_id=%d, error=%v", req.EmployeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created: id=%d, employee_id=%d, date=%s %s",
		result.ID, result.EmployeeID, result.Date, result.StartTime)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
