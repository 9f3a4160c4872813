package get_client_appointments

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
	msgInvalidClientID = "некорректный идентификатор клиента"
	msgInvalidStatus   = "недопустимый статус записи"
	msgAccessDenied    = "нет доступа к записям этого клиента"
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

// Handle GET /api/v1/clients/{clientId}/appointments?status=X
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	clientID, err := strconv.ParseInt(vars["clientId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /clients/{id}/appointments - Invalid client ID: %s", vars["clientId"])
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	// Клиент может смотреть только свою историю
	actorID, _ := middleware.GetActorID(r.Context())
	actorRole, _ := middleware.GetActorRole(r.Context())
	if actorRole == domain.RoleClient && actorID != clientID {
		h.logger.Warn("GET /clients/{id}/appointments - Access denied: client=%d, actor=%d", clientID, actorID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	req := &models.GetClientAppointmentsRequest{ClientID: clientID}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetClientAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointmentsService.ErrInvalidStatus):
			h.logger.Warn("GET /clients/{id}/appointments - Invalid status: %v", req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, appointmentsService.ErrInvalidInput):
			h.logger.Warn("GET /clients/{id}/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidClientID)

		default:
			h.logger.Error("GET /clients/{id}/appointments - Failed: client=%d, error=%v", clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /clients/{id}/appointments - %d appointments for client=%d", result.Total, clientID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
