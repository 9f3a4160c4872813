package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	employeeRepo "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/employee"
	"github.com/m04kA/SBP-SchedulingService/internal/service/payroll/models"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

// Service сервис расчёта заработка и сверхурочных
type Service struct {
	employeeRepo    EmployeeRepository
	merchantRepo    MerchantRepository
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса расчёта заработка
func NewService(
	employeeRepo EmployeeRepository,
	merchantRepo MerchantRepository,
	appointmentRepo AppointmentRepository,
	logger Logger,
) *Service {
	return &Service{
		employeeRepo:    employeeRepo,
		merchantRepo:    merchantRepo,
		appointmentRepo: appointmentRepo,
		timeProvider:    RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider заменяет провайдер времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetEarnings считает заработок сотрудника за период по выполненным
// записям. В расчёт входят только записи в статусе completed - отменённые
// и неявки не оплачиваются. Цена берётся из снапшота записи, поэтому
// последующие изменения прайса на расчёт не влияют.
// Оклад (monthly) по записям даёт ноль - он выплачивается отдельно.
func (s *Service) GetEarnings(ctx context.Context, req *models.GetEarningsRequest) (*models.EarningsResponse, error) {
	s.logger.Info("GetEarnings: employee=%d period=%s..%s", req.EmployeeID, req.StartDate, req.EndDate)

	from, err := time.Parse(domain.DateFormat, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date must be in format %s", ErrInvalidInput, domain.DateFormat)
	}
	to, err := time.Parse(domain.DateFormat, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end_date must be in format %s", ErrInvalidInput, domain.DateFormat)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end_date is before start_date", ErrInvalidInput)
	}

	emp, err := s.getEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	completed, err := s.appointmentRepo.GetCompletedByEmployeeInRange(ctx, req.EmployeeID, from, to)
	if err != nil {
		s.logger.Error("GetEarnings: repository error for employee=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: GetEarnings - repository error: %v", ErrInternal, err)
	}

	resp := &models.EarningsResponse{
		EmployeeID:   req.EmployeeID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		PayType:      string(emp.PayType),
		PayValue:     emp.PayValue,
		Appointments: make([]models.EarningLine, 0, len(completed)),
		Completed:    len(completed),
	}

	for _, a := range completed {
		earned := domain.EarningsForAppointment(emp, a)
		resp.Appointments = append(resp.Appointments, models.EarningLine{
			AppointmentID: a.ID,
			Date:          a.Date.Format(domain.DateFormat),
			ServiceName:   a.ServiceName,
			ServicePrice:  a.ServicePrice,
			Earned:        earned,
		})
		resp.TotalEarned += earned
	}

	s.logger.Info("GetEarnings: employee=%d completed=%d total=%d", req.EmployeeID, resp.Completed, resp.TotalEarned)
	return resp, nil
}

// FinishWorkday закрывает смену сотрудника: считает сверхурочные против
// запланированного конца рабочего дня, накапливает их и сбрасывает
// временное продление дня. Уход вовремя или раньше даёт ноль сверхурочных.
func (s *Service) FinishWorkday(ctx context.Context, req *models.FinishWorkdayRequest) (*models.FinishWorkdayResponse, error) {
	s.logger.Info("FinishWorkday: employee=%d", req.EmployeeID)

	emp, err := s.getEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	merchant, err := s.merchantRepo.GetByID(ctx, emp.MerchantID)
	if err != nil {
		s.logger.Error("FinishWorkday: failed to get merchant %d: %v", emp.MerchantID, err)
		return nil, fmt.Errorf("%w: FinishWorkday - get merchant: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now().In(merchant.Location())

	actualEnd := types.NewTimeString(now)
	if req.ActualEndTime != nil {
		if err := req.ActualEndTime.Validate(); err != nil {
			return nil, fmt.Errorf("%w: actual_end_time must be in format HH:MM", ErrInvalidInput)
		}
		actualEnd = *req.ActualEndTime
	}

	overtime := domain.OvertimeMinutes(emp.EndTime, actualEnd)

	// Запись закрытия смены сбрасывает продление дня даже при нуле
	// сверхурочных
	if err := s.employeeRepo.AddOvertime(ctx, emp.ID, overtime, now); err != nil {
		s.logger.Error("FinishWorkday: failed to add overtime for employee=%d: %v", emp.ID, err)
		return nil, fmt.Errorf("%w: FinishWorkday - add overtime: %v", ErrInternal, err)
	}

	s.logger.Info("FinishWorkday: employee=%d overtime=%dm (total %dm)", emp.ID, overtime, emp.OvertimeMinutes+overtime)
	return &models.FinishWorkdayResponse{
		EmployeeID:           emp.ID,
		ScheduledEndTime:     emp.EndTime,
		ActualEndTime:        actualEnd,
		OvertimeMinutes:      overtime,
		TotalOvertimeMinutes: emp.OvertimeMinutes + overtime,
	}, nil
}

func (s *Service) getEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employeeRepo.ErrEmployeeNotFound) {
			s.logger.Warn("employee id=%d not found", id)
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("repository error for employee id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	return emp, nil
}
