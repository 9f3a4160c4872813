package get_service_price

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SBP-SchedulingService/internal/api/handlers"
	pricingService "github.com/m04kA/SBP-SchedulingService/internal/service/pricing"
)

const (
	msgInvalidServiceID = "некорректный идентификатор услуги"
	msgServiceNotFound  = "услуга не найдена"
)

type Handler struct {
	service PricingService
	logger  Logger
}

func NewHandler(service PricingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/price
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/price - Invalid service ID: %s", vars["serviceId"])
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	result, err := h.service.GetPrice(r.Context(), serviceID)
	if err != nil {
		switch {
		case errors.Is(err, pricingService.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/price - Not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, pricingService.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/price - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)

		default:
			h.logger.Error("GET /services/{id}/price - Failed: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
