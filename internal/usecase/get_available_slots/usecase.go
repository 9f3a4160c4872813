package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	catalogstore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/catalog"
	employeestore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/employee"
	merchantstore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/merchant"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

type UseCase struct {
	employees    EmployeeRepository
	merchants    MerchantRepository
	catalog      CatalogRepository
	appointments AppointmentRepository
	stepMinutes  int
	minNotice    int
	timeProvider TimeProvider
	logger       Logger
}

func NewUseCase(
	employees EmployeeRepository,
	merchants MerchantRepository,
	catalog CatalogRepository,
	appointments AppointmentRepository,
	stepMinutes int,
	minNoticeMinutes int,
	logger Logger,
) *UseCase {
	return &UseCase{
		employees:    employees,
		merchants:    merchants,
		catalog:      catalog,
		appointments: appointments,
		stepMinutes:  stepMinutes,
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

// Execute возвращает свободные слоты сотрудника на дату для услуги.
// Недоступность (выходной, day-off, увольнение, закрытый салон)
// выражается пустым списком, а не ошибкой.
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	date, _ := time.Parse(domain.DateFormat, req.Date)

	emp, err := uc.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employeestore.ErrEmployeeNotFound) {
			return nil, fmt.Errorf("%w: employee_id=%d", ErrEmployeeNotFound, req.EmployeeID)
		}
		uc.logger.Error("get_available_slots: failed to get employee %d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: Execute - get employee: %v", ErrInternal, err)
	}

	svc, err := uc.catalog.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogstore.ErrServiceNotFound) {
			return nil, fmt.Errorf("%w: service_id=%d", ErrServiceNotFound, req.ServiceID)
		}
		uc.logger.Error("get_available_slots: failed to get service %d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: Execute - get service: %v", ErrInternal, err)
	}

	// Услуга должна принадлежать тому же мерчанту, что и сотрудник
	if svc.MerchantID != emp.MerchantID {
		return nil, fmt.Errorf("%w: service_id=%d", ErrServiceNotFound, req.ServiceID)
	}
	if !svc.IsActive {
		return nil, fmt.Errorf("%w: service_id=%d", ErrServiceInactive, req.ServiceID)
	}

	merchant, err := uc.merchants.GetByID(ctx, emp.MerchantID)
	if err != nil {
		if errors.Is(err, merchantstore.ErrMerchantNotFound) {
			return nil, fmt.Errorf("%w: merchant_id=%d", ErrMerchantNotFound, emp.MerchantID)
		}
		uc.logger.Error("get_available_slots: failed to get merchant %d: %v", emp.MerchantID, err)
		return nil, fmt.Errorf("%w: Execute - get merchant: %v", ErrInternal, err)
	}

	resp := &Response{
		EmployeeID:      req.EmployeeID,
		ServiceID:       req.ServiceID,
		Date:            req.Date,
		DurationMinutes: svc.DurationMinutes,
		Slots:           []types.TimeString{},
	}

	available, err := uc.employeeAvailable(ctx, emp, merchant, date)
	if err != nil {
		return nil, err
	}
	if !available {
		return resp, nil
	}

	appointments, err := uc.appointments.GetByEmployeeAndDate(ctx, req.EmployeeID, date, true)
	if err != nil {
		uc.logger.Error("get_available_slots: failed to load appointments for employee %d on %s: %v", req.EmployeeID, req.Date, err)
		return nil, fmt.Errorf("%w: Execute - get appointments: %v", ErrInternal, err)
	}

	slots := buildSlotGrid(emp, svc.DurationMinutes, uc.stepMinutes)
	slots = filterConflicting(slots, appointments, svc.DurationMinutes)
	slots = filterPast(slots, date, uc.timeProvider.Now(), merchant.Location(), uc.minNotice)

	resp.Slots = slots
	return resp, nil
}

func (uc *UseCase) employeeAvailable(ctx context.Context, emp *domain.Employee, merchant *domain.Merchant, date time.Time) (bool, error) {
	if !merchant.IsOpen || !emp.IsActive {
		return false, nil
	}
	if !emp.WorksOn(date.Weekday()) {
		return false, nil
	}

	dayOff, err := uc.employees.HasDayOff(ctx, emp.ID, date)
	if err != nil {
		uc.logger.Error("get_available_slots: failed to check day off for employee %d: %v", emp.ID, err)
		return false, fmt.Errorf("%w: Execute - check day off: %v", ErrInternal, err)
	}
	return !dayOff, nil
}
