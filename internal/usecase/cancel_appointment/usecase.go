package cancel_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	appointmentstore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/appointment"
	merchantstore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/merchant"
)

type UseCase struct {
	appointments AppointmentRepository
	merchants    MerchantRepository
	penalties    PenaltyRepository
	txManager    TxManager
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

func NewUseCase(
	appointments AppointmentRepository,
	merchants MerchantRepository,
	penalties PenaltyRepository,
	txManager TxManager,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointments: appointments,
		merchants:    merchants,
		penalties:    penalties,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider заменяет провайдер времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute отменяет запись. Политика отмены оценивается по снапшоту,
// сохранённому в записи при бронировании. Платная клиентская отмена
// создаёт ровно один штраф - в той же транзакции, что и отмена.
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	appointment, err := uc.appointments.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentstore.ErrAppointmentNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrAppointmentNotFound, req.AppointmentID)
		}
		uc.logger.Error("cancel_appointment: failed to get appointment %d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: Execute - get appointment: %v", ErrInternal, err)
	}

	if err := checkAccess(appointment, req); err != nil {
		return nil, err
	}

	loc, err := uc.merchantLocation(ctx, appointment.MerchantID)
	if err != nil {
		return nil, err
	}

	now := uc.timeProvider.Now()
	if err := domain.CanCancel(appointment, req.ActorRole, now, loc); err != nil {
		switch {
		case errors.Is(err, domain.ErrTerminalState):
			return nil, fmt.Errorf("%w: %v", ErrAlreadyFinished, err)
		case errors.Is(err, domain.ErrNoticeTooShort):
			return nil, fmt.Errorf("%w: %v", ErrNoticeTooShort, err)
		default:
			return nil, fmt.Errorf("%w: Execute - policy check: %v", ErrInternal, err)
		}
	}

	fee := domain.CancellationFee(appointment, req.ActorRole, now, loc)

	resp := &Response{
		AppointmentID: appointment.ID,
		Status:        string(domain.StatusCancelled),
	}

	txErr := uc.txManager.Do(ctx, func(ctx context.Context) error {
		// Отмена условная по прочитанному статусу: если запись успели
		// завершить или отменить конкурентно, политика уже не применима
		if err := uc.appointments.Cancel(ctx, appointment.ID, appointment.Status, req.Reason); err != nil {
			if errors.Is(err, appointmentstore.ErrStatusConflict) {
				return fmt.Errorf("%w: appointment %d status changed concurrently", ErrAlreadyFinished, appointment.ID)
			}
			return fmt.Errorf("cancel: %v", err)
		}

		if fee <= 0 {
			return nil
		}

		penalty := &domain.Penalty{
			Reference:     uuid.NewString(),
			MerchantID:    appointment.MerchantID,
			AppointmentID: appointment.ID,
			Amount:        fee,
			Reason:        fmt.Sprintf("late cancellation of appointment %d", appointment.ID),
			Status:        domain.PenaltyPending,
		}
		if appointment.ClientID != nil {
			penalty.ClientID = appointment.ClientID
		} else {
			phone := appointment.ClientPhone
			penalty.ClientPhone = &phone
		}

		created, err := uc.penalties.Create(ctx, penalty)
		if err != nil {
			return fmt.Errorf("create penalty: %v", err)
		}

		resp.PenaltyAmount = created.Amount
		resp.PenaltyReference = &created.Reference
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, ErrAlreadyFinished) {
			return nil, txErr
		}
		uc.logger.Error("cancel_appointment: transaction failed for appointment %d: %v", appointment.ID, txErr)
		return nil, fmt.Errorf("%w: Execute - transaction: %v", ErrInternal, txErr)
	}

	if resp.PenaltyReference != nil && uc.metrics != nil {
		uc.metrics.IncPenaltyCreated()
	}

	uc.logger.Info("cancel_appointment: appointment %d cancelled by %s %d, penalty=%d",
		appointment.ID, req.ActorRole, req.ActorID, resp.PenaltyAmount)

	return resp, nil
}

func (uc *UseCase) merchantLocation(ctx context.Context, merchantID int64) (*time.Location, error) {
	merchant, err := uc.merchants.GetByID(ctx, merchantID)
	if err != nil {
		if errors.Is(err, merchantstore.ErrMerchantNotFound) {
			uc.logger.Warn("cancel_appointment: merchant %d not found, falling back to UTC", merchantID)
			return time.UTC, nil
		}
		uc.logger.Error("cancel_appointment: failed to get merchant %d: %v", merchantID, err)
		return nil, fmt.Errorf("%w: Execute - get merchant: %v", ErrInternal, err)
	}
	return merchant.Location(), nil
}
