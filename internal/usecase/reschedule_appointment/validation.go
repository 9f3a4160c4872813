package reschedule_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
)

func validateRequest(req Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointment_id must be positive", ErrInvalidInput)
	}
	if _, ok := domain.ParseActorRole(string(req.ActorRole)); !ok {
		return fmt.Errorf("%w: unknown actor role %q", ErrInvalidInput, req.ActorRole)
	}
	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actor_id must be positive", ErrInvalidInput)
	}
	if _, err := time.Parse(domain.DateFormat, req.NewDate); err != nil {
		return fmt.Errorf("%w: new_date must be in format %s", ErrInvalidInput, domain.DateFormat)
	}
	if err := req.NewStartTime.Validate(); err != nil {
		return fmt.Errorf("%w: new_start_time must be in format HH:MM", ErrInvalidInput)
	}
	return nil
}

func checkAccess(a *domain.Appointment, req Request) error {
	switch req.ActorRole {
	case domain.RoleClient:
		if a.ClientID == nil || *a.ClientID != req.ActorID {
			return fmt.Errorf("%w: appointment %d does not belong to client %d", ErrAccessDenied, a.ID, req.ActorID)
		}
	case domain.RoleEmployee, domain.RoleMerchant:
		if a.MerchantID != req.MerchantID {
			return fmt.Errorf("%w: appointment %d does not belong to merchant %d", ErrAccessDenied, a.ID, req.MerchantID)
		}
	}
	return nil
}
