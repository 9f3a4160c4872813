package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	employeeRepo "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/employee"
	merchantRepo "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/merchant"
	"github.com/m04kA/SBP-SchedulingService/internal/service/schedule/models"
)

// Service сервис управления расписанием мерчанта и выходными сотрудников
type Service struct {
	merchantRepo MerchantRepository
	employeeRepo EmployeeRepository
	txManager    TxManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	merchantRepo MerchantRepository,
	employeeRepo EmployeeRepository,
	txManager TxManager,
	logger Logger,
) *Service {
	return &Service{
		merchantRepo: merchantRepo,
		employeeRepo: employeeRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetSchedule возвращает расписание и политику отмены мерчанта
func (s *Service) GetSchedule(ctx context.Context, merchantID int64) (*models.ScheduleResponse, error) {
	if merchantID <= 0 {
		return nil, fmt.Errorf("%w: merchant_id must be positive", ErrInvalidInput)
	}

	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		if errors.Is(err, merchantRepo.ErrMerchantNotFound) {
			s.logger.Warn("GetSchedule: merchant id=%d not found", merchantID)
			return nil, ErrMerchantNotFound
		}
		s.logger.Error("GetSchedule: repository error for merchant id=%d: %v", merchantID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainMerchant(merchant)
	return &resp, nil
}

// UpdateSchedule обновляет расписание и политику отмены мерчанта.
// Новый график атомарно разливается на всех сотрудников без личного
// расписания. Уже существующие записи политика не трогает - они живут
// по снапшоту, сделанному при бронировании.
func (s *Service) UpdateSchedule(ctx context.Context, merchantID int64, req *models.UpdateScheduleRequest) (*models.UpdateScheduleResponse, error) {
	s.logger.Info("UpdateSchedule: merchant=%d", merchantID)

	if merchantID <= 0 {
		return nil, fmt.Errorf("%w: merchant_id must be positive", ErrInvalidInput)
	}
	if err := validateScheduleRequest(req); err != nil {
		return nil, err
	}

	patch := merchantRepo.SchedulePatch{
		WorkingDays:             req.WorkingDays,
		OpenTime:                req.OpenTime,
		CloseTime:               req.CloseTime,
		BreakStart:              req.BreakStart,
		BreakEnd:                req.BreakEnd,
		CancellationPolicyHours: req.CancellationPolicyHours,
		CancellationFeeEnabled:  req.CancellationFeeEnabled,
		CancellationFeeAmount:   req.CancellationFeeAmount,
		IsOpen:                  req.IsOpen,
		Timezone:                req.Timezone,
	}

	var synced int64
	txErr := s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.merchantRepo.UpdateSchedule(ctx, merchantID, patch); err != nil {
			return err
		}

		n, err := s.employeeRepo.SyncSchedule(ctx, merchantID, req.WorkingDays, req.OpenTime, req.CloseTime, req.BreakStart, req.BreakEnd)
		if err != nil {
			return err
		}
		synced = n
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, merchantRepo.ErrMerchantNotFound) {
			s.logger.Warn("UpdateSchedule: merchant id=%d not found", merchantID)
			return nil, ErrMerchantNotFound
		}
		s.logger.Error("UpdateSchedule: transaction failed for merchant id=%d: %v", merchantID, txErr)
		return nil, fmt.Errorf("%w: UpdateSchedule - transaction: %v", ErrInternal, txErr)
	}

	updated, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		s.logger.Error("UpdateSchedule: failed to re-read merchant id=%d: %v", merchantID, err)
		return nil, fmt.Errorf("%w: UpdateSchedule - re-read merchant: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSchedule: merchant=%d updated, %d employees synced", merchantID, synced)
	return &models.UpdateScheduleResponse{
		Schedule:        models.FromDomainMerchant(updated),
		EmployeesSynced: synced,
	}, nil
}

// CreateDayOff регистрирует выходной сотрудника на дату.
// На (сотрудник, дата) допускается не более одного выходного.
func (s *Service) CreateDayOff(ctx context.Context, req *models.CreateDayOffRequest) (*models.DayOffResponse, error) {
	s.logger.Info("CreateDayOff: employee=%d date=%s", req.EmployeeID, req.Date)

	if req.EmployeeID <= 0 {
		return nil, fmt.Errorf("%w: employee_id must be positive", ErrInvalidInput)
	}
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be in format %s", ErrInvalidInput, domain.DateFormat)
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employeeRepo.ErrEmployeeNotFound) {
			s.logger.Warn("CreateDayOff: employee id=%d not found", req.EmployeeID)
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("CreateDayOff: repository error for employee id=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: CreateDayOff - repository error: %v", ErrInternal, err)
	}

	if req.MerchantID != 0 && emp.MerchantID != req.MerchantID {
		s.logger.Warn("CreateDayOff: employee id=%d does not belong to merchant id=%d", req.EmployeeID, req.MerchantID)
		return nil, fmt.Errorf("%w: employee %d does not belong to merchant %d", ErrAccessDenied, req.EmployeeID, req.MerchantID)
	}

	created, err := s.employeeRepo.CreateDayOff(ctx, &domain.DayOff{
		MerchantID: emp.MerchantID,
		EmployeeID: emp.ID,
		Date:       date,
		Reason:     req.Reason,
	})
	if err != nil {
		if errors.Is(err, employeeRepo.ErrDayOffExists) {
			s.logger.Warn("CreateDayOff: day off already exists for employee=%d on %s", req.EmployeeID, req.Date)
			return nil, ErrDayOffExists
		}
		s.logger.Error("CreateDayOff: failed to create day off for employee=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: CreateDayOff - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainDayOff(created), nil
}

// validateScheduleRequest проверяет согласованность нового расписания
func validateScheduleRequest(req *models.UpdateScheduleRequest) error {
	if len(req.WorkingDays) == 0 {
		return fmt.Errorf("%w: working_days must not be empty", ErrInvalidInput)
	}
	seen := make(map[int]bool, len(req.WorkingDays))
	for _, d := range req.WorkingDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: working day %d is out of range 0..6", ErrInvalidInput, d)
		}
		if seen[d] {
			return fmt.Errorf("%w: working day %d is duplicated", ErrInvalidInput, d)
		}
		seen[d] = true
	}

	if err := req.OpenTime.Validate(); err != nil {
		return fmt.Errorf("%w: open_time must be in format HH:MM", ErrInvalidInput)
	}
	if err := req.CloseTime.Validate(); err != nil {
		return fmt.Errorf("%w: close_time must be in format HH:MM", ErrInvalidInput)
	}
	if !req.OpenTime.IsBefore(req.CloseTime) {
		return fmt.Errorf("%w: open_time must be before close_time", ErrInvalidInput)
	}

	if (req.BreakStart == nil) != (req.BreakEnd == nil) {
		return fmt.Errorf("%w: break_start and break_end must be set together", ErrInvalidInput)
	}
	if req.BreakStart != nil {
		if err := req.BreakStart.Validate(); err != nil {
			return fmt.Errorf("%w: break_start must be in format HH:MM", ErrInvalidInput)
		}
		if err := req.BreakEnd.Validate(); err != nil {
			return fmt.Errorf("%w: break_end must be in format HH:MM", ErrInvalidInput)
		}
		if !req.BreakStart.IsBefore(*req.BreakEnd) {
			return fmt.Errorf("%w: break_start must be before break_end", ErrInvalidInput)
		}
		if req.BreakStart.IsBefore(req.OpenTime) || req.BreakEnd.IsAfter(req.CloseTime) {
			return fmt.Errorf("%w: break window must be inside working hours", ErrInvalidInput)
		}
	}

	allowed := false
	for _, h := range domain.AllowedPolicyHours {
		if req.CancellationPolicyHours == h {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: cancellation_policy_hours must be one of %v", ErrInvalidInput, domain.AllowedPolicyHours)
	}

	if req.CancellationFeeAmount < 0 {
		return fmt.Errorf("%w: cancellation_fee_amount must not be negative", ErrInvalidInput)
	}
	if req.CancellationFeeEnabled && req.CancellationFeeAmount == 0 {
		return fmt.Errorf("%w: cancellation_fee_amount is required when fees are enabled", ErrInvalidInput)
	}

	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, req.Timezone)
		}
	}

	return nil
}
