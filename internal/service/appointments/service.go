package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SBP-SchedulingService/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	merchantRepo    MerchantRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	merchantRepo MerchantRepository,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		merchantRepo:    merchantRepo,
		timeProvider:    RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider заменяет провайдер времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает запись по ID.
// Клиент видит только свои записи, staff-роли - записи своего мерчанта.
func (s *Service) GetByID(ctx context.Context, id int64, actor models.Actor) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for %s=%d", id, actor.Role, actor.ID)

	appointment, err := s.getAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(appointment, actor); err != nil {
		s.logger.Warn("GetByID: access denied for %s=%d to appointment id=%d", actor.Role, actor.ID, id)
		return nil, err
	}

	return models.FromDomainAppointment(appointment), nil
}

// GetClientAppointments получает историю записей клиента.
// Опционально фильтрует по статусу.
func (s *Service) GetClientAppointments(ctx context.Context, req *models.GetClientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetClientAppointments: fetching appointments for client=%d, status=%v", req.ClientID, req.Status)

	if req.ClientID <= 0 {
		return nil, fmt.Errorf("%w: client_id must be positive", ErrInvalidInput)
	}

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, ok := domain.ParseAppointmentStatus(*req.Status)
		if !ok {
			s.logger.Warn("GetClientAppointments: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *req.Status)
		}
		domainStatus = &status
	}

	list, err := s.appointmentRepo.GetByClient(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientAppointments: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientAppointments: fetched %d appointments for client=%d", len(list), req.ClientID)
	return models.FromDomainAppointmentList(list), nil
}

// GetMerchantAppointments получает журнал записей мерчанта с фильтрацией
// по сотруднику, периоду и статусу.
// Просмотр на одну дату: StartDate и EndDate указывают на один день -
// записи сортируются по времени начала.
func (s *Service) GetMerchantAppointments(ctx context.Context, req *models.GetMerchantAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetMerchantAppointments: fetching appointments for merchant=%d", req.MerchantID)

	if req.MerchantID <= 0 {
		return nil, fmt.Errorf("%w: merchant_id must be positive", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		if errors.Is(err, models.ErrInvalidStatus) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
		}
		return nil, fmt.Errorf("%w: invalid date filter: %v", ErrInvalidInput, err)
	}

	list, err := s.appointmentRepo.GetByMerchantWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetMerchantAppointments: repository error for merchant=%d: %v", req.MerchantID, err)
		return nil, fmt.Errorf("%w: GetMerchantAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetMerchantAppointments: fetched %d appointments for merchant=%d", len(list), req.MerchantID)
	return models.FromDomainAppointmentList(list), nil
}

// UpdateStatus изменяет статус записи по таблице переходов.
// Доступно только staff-ролям. Отметки фактического времени ставятся
// при первом входе в статус и при повторных переходах не перетираются:
// in_progress фиксирует фактическое начало, completed - фактический
// конец, момент завершения и ожидание оплаты.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: appointment id=%d -> %s by %s=%d", id, req.Status, req.Actor.Role, req.Actor.ID)

	if req.Actor.Role == domain.RoleClient {
		return nil, fmt.Errorf("%w: clients cannot change appointment status", ErrAccessDenied)
	}

	newStatus, ok := domain.ParseAppointmentStatus(req.Status)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	appointment, err := s.getAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(appointment, req.Actor); err != nil {
		s.logger.Warn("UpdateStatus: access denied for %s=%d to appointment id=%d", req.Actor.Role, req.Actor.ID, id)
		return nil, err
	}

	if err := domain.CanTransition(appointment, newStatus); err != nil {
		switch {
		case errors.Is(err, domain.ErrTerminalState):
			return nil, fmt.Errorf("%w: %v", ErrAlreadyFinished, err)
		case errors.Is(err, domain.ErrInvalidTransition):
			return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		default:
			return nil, fmt.Errorf("%w: UpdateStatus - transition check: %v", ErrInternal, err)
		}
	}

	patch, err := s.buildStatusPatch(ctx, appointment, newStatus)
	if err != nil {
		return nil, err
	}

	// Переход перепроверяется самим UPDATE: если статус успела сменить
	// конкурирующая операция, проигравший запрос отклоняется
	if err := s.appointmentRepo.UpdateStatus(ctx, id, appointment.Status, patch); err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			return nil, ErrAppointmentNotFound
		case errors.Is(err, appointmentRepo.ErrStatusConflict):
			s.logger.Warn("UpdateStatus: concurrent status change for appointment id=%d", id)
			return nil, fmt.Errorf("%w: appointment %d status changed concurrently", ErrInvalidTransition, id)
		default:
			s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}
	}

	updated, err := s.getAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: appointment id=%d is now %s", id, updated.Status)
	return models.FromDomainAppointment(updated), nil
}

// buildStatusPatch собирает изменение статуса с отметками фактического
// времени в таймзоне мерчанта
func (s *Service) buildStatusPatch(ctx context.Context, a *domain.Appointment, to domain.AppointmentStatus) (domain.StatusPatch, error) {
	patch := domain.StatusPatch{Status: to}

	merchant, err := s.merchantRepo.GetByID(ctx, a.MerchantID)
	if err != nil {
		s.logger.Error("buildStatusPatch: failed to get merchant %d: %v", a.MerchantID, err)
		return patch, fmt.Errorf("%w: UpdateStatus - get merchant: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now().In(merchant.Location())

	switch to {
	case domain.StatusInProgress:
		if a.ActualStartTime == nil {
			patch.ActualStartTime = &now
		}
	case domain.StatusCompleted:
		if a.ActualStartTime == nil {
			patch.ActualStartTime = &now
		}
		if a.ActualEndTime == nil {
			patch.ActualEndTime = &now
		}
		if a.CompletedAt == nil {
			patch.CompletedAt = &now
		}
		if a.PaymentStatus == nil {
			pending := domain.PaymentPending
			patch.PaymentStatus = &pending
		}
	}

	return patch, nil
}

func (s *Service) getAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	return appointment, nil
}

func (s *Service) checkAccess(a *domain.Appointment, actor models.Actor) error {
	switch actor.Role {
	case domain.RoleClient:
		if a.ClientID == nil || *a.ClientID != actor.ID {
			return fmt.Errorf("%w: appointment %d does not belong to client %d", ErrAccessDenied, a.ID, actor.ID)
		}
	case domain.RoleEmployee, domain.RoleMerchant:
		if a.MerchantID != actor.MerchantID {
			return fmt.Errorf("%w: appointment %d does not belong to merchant %d", ErrAccessDenied, a.ID, actor.MerchantID)
		}
	default:
		return fmt.Errorf("%w: unknown role %q", ErrAccessDenied, actor.Role)
	}
	return nil
}
