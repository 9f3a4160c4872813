package cancel_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SBP-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SBP-SchedulingService/internal/api/middleware"
	cancelAppointment "github.com/m04kA/SBP-SchedulingService/internal/usecase/cancel_appointment"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidAppointmentID = "некорректный идентификатор записи"
	msgAppointmentNotFound  = "запись не найдена"
	msgAlreadyFinished      = "запись уже завершена или отменена"
	msgNoticeTooShort       = "слишком поздно для отмены этой записи"
	msgAccessDenied         = "нет доступа к этой записи"
)

type Handler struct {
	useCase CancelAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CancelAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid appointment ID: %s", vars["appointmentId"])
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var body CancelAppointmentRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actorID, _ := middleware.GetActorID(r.Context())
	actorRole, _ := middleware.GetActorRole(r.Context())
	merchantID, _ := middleware.GetMerchantID(r.Context())

	req := cancelAppointment.Request{
		AppointmentID: appointmentID,
		ActorRole:     actorRole,
		ActorID:       actorID,
		MerchantID:    merchantID,
		Reason:        body.Reason,
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, cancelAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Not found: id=%d", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, cancelAppointment.ErrAlreadyFinished):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Already finished: id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyFinished)

		case errors.Is(err, cancelAppointment.ErrNoticeTooShort):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Notice too short: id=%d, actor=%d", appointmentID, actorID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgNoticeTooShort)

		case errors.Is(err, cancelAppointment.ErrAccessDenied):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Access denied: id=%d, actor=%d", appointmentID, actorID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, cancelAppointment.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /appointments/{id}/cancel - Failed: id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/cancel - Cancelled: id=%d, penalty=%d", appointmentID, result.PenaltyAmount)
	handlers.RespondJSON(w, http.StatusOK, result)
}
