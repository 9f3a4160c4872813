package reschedule_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SBP-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SBP-SchedulingService/internal/api/middleware"
	rescheduleAppointment "github.com/m04kA/SBP-SchedulingService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidAppointmentID = "некорректный идентификатор записи"
	msgAppointmentNotFound  = "запись не найдена"
	msgAlreadyFinished      = "запись уже завершена или отменена"
	msgNoticeTooShort       = "слишком поздно для переноса этой записи"
	msgAccessDenied         = "нет доступа к этой записи"
	msgSlotUnavailable      = "новый слот вне рабочего графика"
	msgSlotConflict         = "новый слот уже занят"
)

type Handler struct {
	useCase RescheduleAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid appointment ID: %s", vars["appointmentId"])
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var body RescheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actorID, _ := middleware.GetActorID(r.Context())
	actorRole, _ := middleware.GetActorRole(r.Context())
	merchantID, _ := middleware.GetMerchantID(r.Context())

	req := rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		ActorRole:     actorRole,
		ActorID:       actorID,
		MerchantID:    merchantID,
		NewDate:       body.NewDate,
		NewStartTime:  types.TimeString(body.NewStartTime),
		Reason:        body.Reason,
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Not found: id=%d", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, rescheduleAppointment.ErrAlreadyFinished):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Already finished: id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyFinished)

		case errors.Is(err, rescheduleAppointment.ErrNoticeTooShort):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Notice too short: id=%d, actor=%d", appointmentID, actorID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgNoticeTooShort)

		case errors.Is(err, rescheduleAppointment.ErrAccessDenied):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Access denied: id=%d, actor=%d", appointmentID, actorID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, rescheduleAppointment.ErrSlotConflict):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Slot conflict: id=%d, new=%s %s", appointmentID, body.NewDate, body.NewStartTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, rescheduleAppointment.ErrSlotUnavailable):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Slot unavailable: id=%d, new=%s %s", appointmentID, body.NewDate, body.NewStartTime)
			handlers.RespondBadRequest(w, msgSlotUnavailable)

		case errors.Is(err, rescheduleAppointment.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /appointments/{id}/reschedule - Failed: id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/reschedule - Rescheduled: id=%d to %s %s", appointmentID, result.Date, result.StartTime)
	handlers.RespondJSON(w, http.StatusOK, result)
}
