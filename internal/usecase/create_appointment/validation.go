package create_appointment

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
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start_time must be in format HH:MM", ErrInvalidInput)
	}

	if req.ClientID != nil && *req.ClientID <= 0 {
		return fmt.Errorf("%w: client_id must be positive", ErrInvalidInput)
	}
	// Гостевая запись требует контакта, иначе с клиентом не связаться
	if req.ClientID == nil {
		if req.ClientName == "" {
			return fmt.Errorf("%w: client_name is required for guest bookings", ErrInvalidInput)
		}
		if req.ClientPhone == "" {
			return fmt.Errorf("%w: client_phone is required for guest bookings", ErrInvalidInput)
		}
	}

	return nil
}
