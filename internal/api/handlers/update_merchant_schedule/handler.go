package update_merchant_schedule

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
	msgInvalidMerchantID  = "некорректный идентификатор салона"
	msgInvalidSchedule    = "некорректное расписание"
	msgMerchantNotFound   = "салон не найден"
	msgAccessDenied       = "изменение расписания доступно только владельцу салона"
)

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

// Handle PUT /api/v1/merchants/{merchantId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	merchantID, err := strconv.ParseInt(vars["merchantId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /merchants/{id}/schedule - Invalid merchant ID: %s", vars["merchantId"])
		handlers.RespondBadRequest(w, msgInvalidMerchantID)
		return
	}

	// Расписание меняет только владелец своего салона
	actorRole, _ := middleware.GetActorRole(r.Context())
	actorMerchantID, _ := middleware.GetMerchantID(r.Context())
	if actorRole != domain.RoleMerchant || actorMerchantID != merchantID {
		h.logger.Warn("PUT /merchants/{id}/schedule - Access denied: merchant=%d, actor_merchant=%d", merchantID, actorMerchantID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	var req models.UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /merchants/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateSchedule(r.Context(), merchantID, &req)
	if err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrMerchantNotFound):
			h.logger.Warn("PUT /merchants/{id}/schedule - Not found: merchant_id=%d", merchantID)
			handlers.RespondNotFound(w, msgMerchantNotFound)

		case errors.Is(err, scheduleService.ErrInvalidInput):
			h.logger.Warn("PUT /merchants/{id}/schedule - Invalid schedule: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		default:
			h.logger.Error("PUT /merchants/{id}/schedule - Failed: merchant_id=%d, error=%v", merchantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /merchants/{id}/schedule - Updated: merchant_id=%d, %d employees synced", merchantID, result.EmployeesSynced)
	handlers.RespondJSON(w, http.StatusOK, result)
}
