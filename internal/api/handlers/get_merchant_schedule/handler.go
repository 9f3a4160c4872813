package get_merchant_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SBP-SchedulingService/internal/api/handlers"
	scheduleService "github.com/m04kA/SBP-SchedulingService/internal/service/schedule"
)

const (
	msgInvalidMerchantID = "некорректный идентификатор салона"
	msgMerchantNotFound  = "салон не найден"
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

// Handle GET /api/v1/merchants/{merchantId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	merchantID, err := strconv.ParseInt(vars["merchantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /merchants/{id}/schedule - Invalid merchant ID: %s", vars["merchantId"])
		handlers.RespondBadRequest(w, msgInvalidMerchantID)
		return
	}

	result, err := h.service.GetSchedule(r.Context(), merchantID)
	if err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrMerchantNotFound):
			h.logger.Warn("GET /merchants/{id}/schedule - Not found: merchant_id=%d", merchantID)
			handlers.RespondNotFound(w, msgMerchantNotFound)

		case errors.Is(err, scheduleService.ErrInvalidInput):
			h.logger.Warn("GET /merchants/{id}/schedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidMerchantID)

		default:
			h.logger.Error("GET /merchants/{id}/schedule - Failed: merchant_id=%d, error=%v", merchantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
