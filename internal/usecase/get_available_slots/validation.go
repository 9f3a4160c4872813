package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
)

func validateRequest(req Request) error {
	if req.EmployeeID <= 0 {
		return fmt.Errorf("%w: employee_id must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: service_id must be positive", ErrInvalidInput)
	}
	if _, err := time.Parse(domain.DateFormat, req.Date); err != nil {
		return fmt.Errorf("%w: date must be in format %s", ErrInvalidInput, domain.DateFormat)
	}
	return nil
}
