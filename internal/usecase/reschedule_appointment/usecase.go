package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	appointmentstore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/appointment"
	employeestore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/employee"
	merchantstore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/merchant"
	"github.com/m04kA/SBP-SchedulingService/pkg/txmanager"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

type UseCase struct {
	appointments AppointmentRepository
	employees    EmployeeRepository
	merchants    MerchantRepository
	txManager    TxManager
	minNotice    int
	timeProvider TimeProvider
	logger       Logger
}

func NewUseCase(
	appointments AppointmentRepository,
	employees EmployeeRepository,
	merchants MerchantRepository,
	txManager TxManager,
	minNoticeMinutes int,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointments: appointments,
		employees:    employees,
		merchants:    merchants,
		txManager:    txManager,
		minNotice:    minNoticeMinutes,
		timeProvider: RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider заменяет провайдер времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute переносит запись на новый слот. Окно политики проверяется для
// клиента всегда, переносов со штрафом не бывает. Новый слот проходит те
// же проверки графика и занятости, что и при создании записи; после
// переноса запись возвращается в статус pending.
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	newDate, _ := time.Parse(domain.DateFormat, req.NewDate)

	appointment, err := uc.appointments.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentstore.ErrAppointmentNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrAppointmentNotFound, req.AppointmentID)
		}
		uc.logger.Error("reschedule_appointment: failed to get appointment %d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: Execute - get appointment: %v", ErrInternal, err)
	}

	if err := checkAccess(appointment, req); err != nil {
		return nil, err
	}

	merchant, err := uc.merchants.GetByID(ctx, appointment.MerchantID)
	if err != nil {
		if errors.Is(err, merchantstore.ErrMerchantNotFound) {
			uc.logger.Error("reschedule_appointment: merchant %d not found for appointment %d", appointment.MerchantID, appointment.ID)
			return nil, fmt.Errorf("%w: Execute - get merchant: %v", ErrInternal, err)
		}
		uc.logger.Error("reschedule_appointment: failed to get merchant %d: %v", appointment.MerchantID, err)
		return nil, fmt.Errorf("%w: Execute - get merchant: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	loc := merchant.Location()

	if err := domain.CanReschedule(appointment, req.ActorRole, now, loc); err != nil {
		switch {
		case errors.Is(err, domain.ErrTerminalState):
			return nil, fmt.Errorf("%w: %v", ErrAlreadyFinished, err)
		case errors.Is(err, domain.ErrNoticeTooShort):
			return nil, fmt.Errorf("%w: %v", ErrNoticeTooShort, err)
		default:
			return nil, fmt.Errorf("%w: Execute - policy check: %v", ErrInternal, err)
		}
	}

	emp, err := uc.employees.GetByID(ctx, appointment.EmployeeID)
	if err != nil {
		if errors.Is(err, employeestore.ErrEmployeeNotFound) {
			uc.logger.Error("reschedule_appointment: employee %d not found for appointment %d", appointment.EmployeeID, appointment.ID)
			return nil, fmt.Errorf("%w: Execute - get employee: %v", ErrInternal, err)
		}
		uc.logger.Error("reschedule_appointment: failed to get employee %d: %v", appointment.EmployeeID, err)
		return nil, fmt.Errorf("%w: Execute - get employee: %v", ErrInternal, err)
	}

	if err := uc.checkSchedule(ctx, emp, merchant, newDate, req.NewStartTime, appointment.DurationMinutes); err != nil {
		return nil, err
	}

	newEnd, err := req.NewStartTime.AddMinutes(appointment.DurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: slot does not fit into the day", ErrSlotUnavailable)
	}

	txErr := uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		existing, err := uc.appointments.GetByEmployeeAndDate(ctx, appointment.EmployeeID, newDate, true)
		if err != nil {
			return fmt.Errorf("%w: Execute - get appointments: %v", ErrInternal, err)
		}

		if domain.HasConflict(existing, req.NewStartTime, appointment.DurationMinutes, appointment.ID) {
			return fmt.Errorf("%w: employee %d at %s %s", ErrSlotConflict, appointment.EmployeeID, req.NewDate, req.NewStartTime)
		}

		// Перенос условный по прочитанному статусу: конкурирующее
		// завершение или отмена не перетираются
		if err := uc.appointments.Reschedule(ctx, appointment.ID, appointment.Status, newDate, req.NewStartTime, newEnd, req.Reason); err != nil {
			if errors.Is(err, appointmentstore.ErrSlotTaken) {
				return fmt.Errorf("%w: employee %d at %s %s", ErrSlotConflict, appointment.EmployeeID, req.NewDate, req.NewStartTime)
			}
			if errors.Is(err, appointmentstore.ErrStatusConflict) {
				return fmt.Errorf("%w: appointment %d status changed concurrently", ErrAlreadyFinished, appointment.ID)
			}
			return fmt.Errorf("%w: Execute - reschedule: %v", ErrInternal, err)
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, ErrSlotConflict) || errors.Is(txErr, ErrAlreadyFinished) || errors.Is(txErr, ErrInternal) {
			return nil, txErr
		}
		// Исчерпание попыток сериализуемой транзакции - слот оспаривается
		// конкурентами, клиенту предлагается выбрать другое время
		if errors.Is(txErr, txmanager.ErrTxConflict) {
			uc.logger.Warn("reschedule_appointment: reservation contention for appointment %d: %v", appointment.ID, txErr)
			return nil, fmt.Errorf("%w: employee %d at %s %s", ErrSlotConflict, appointment.EmployeeID, req.NewDate, req.NewStartTime)
		}
		uc.logger.Error("reschedule_appointment: transaction failed for appointment %d: %v", appointment.ID, txErr)
		return nil, fmt.Errorf("%w: Execute - transaction: %v", ErrInternal, txErr)
	}

	uc.logger.Info("reschedule_appointment: appointment %d moved to %s %s by %s %d",
		appointment.ID, req.NewDate, req.NewStartTime, req.ActorRole, req.ActorID)

	return &Response{
		AppointmentID: appointment.ID,
		Date:          req.NewDate,
		StartTime:     req.NewStartTime,
		EndTime:       newEnd,
		Status:        string(domain.StatusPending),
	}, nil
}

// checkSchedule проверяет, что новый слот попадает в рабочий график
// сотрудника и не нарушает минимальный срок предупреждения
func (uc *UseCase) checkSchedule(ctx context.Context, emp *domain.Employee, merchant *domain.Merchant, date time.Time, start types.TimeString, durationMinutes int) error {
	if !merchant.IsOpen {
		return fmt.Errorf("%w: merchant %d is closed", ErrSlotUnavailable, merchant.ID)
	}
	if !emp.IsActive {
		return fmt.Errorf("%w: employee %d is not active", ErrSlotUnavailable, emp.ID)
	}
	if !emp.WorksOn(date.Weekday()) {
		return fmt.Errorf("%w: employee %d does not work on %s", ErrSlotUnavailable, emp.ID, date.Weekday())
	}

	dayOff, err := uc.employees.HasDayOff(ctx, emp.ID, date)
	if err != nil {
		uc.logger.Error("reschedule_appointment: failed to check day off for employee %d: %v", emp.ID, err)
		return fmt.Errorf("%w: Execute - check day off: %v", ErrInternal, err)
	}
	if dayOff {
		return fmt.Errorf("%w: employee %d has a day off on %s", ErrSlotUnavailable, emp.ID, date.Format(domain.DateFormat))
	}

	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return fmt.Errorf("%w: slot does not fit into the day", ErrSlotUnavailable)
	}
	if start.IsBefore(emp.StartTime) || end.IsAfter(emp.EffectiveEndTime()) {
		return fmt.Errorf("%w: slot %s-%s is outside working hours %s-%s",
			ErrSlotUnavailable, start, end, emp.StartTime, emp.EffectiveEndTime())
	}
	if emp.HasBreak() && types.Overlaps(start, end, *emp.BreakStart, *emp.BreakEnd) {
		return fmt.Errorf("%w: slot %s-%s overlaps the break", ErrSlotUnavailable, start, end)
	}

	loc := merchant.Location()
	startsAt := start.At(date, loc)
	cutoff := uc.timeProvider.Now().In(loc).Add(time.Duration(uc.minNotice) * time.Minute)
	if !startsAt.After(cutoff) {
		return fmt.Errorf("%w: slot starts at %s, requires at least %d minutes notice",
			ErrSlotUnavailable, startsAt.Format(time.RFC3339), uc.minNotice)
	}

	return nil
}
