package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	"github.com/m04kA/SBP-SchedulingService/internal/integrations/clientservice"
	appointmentstore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/appointment"
	catalogstore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/catalog"
	employeestore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/employee"
	merchantstore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/merchant"
	"github.com/m04kA/SBP-SchedulingService/pkg/txmanager"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

const (
	outcomeWon      = "won"
	outcomeConflict = "conflict"
)

type UseCase struct {
	appointments AppointmentRepository
	employees    EmployeeRepository
	merchants    MerchantRepository
	catalog      CatalogRepository
	clients      ClientProvider
	txManager    TxManager
	metrics      MetricsRecorder
	minNotice    int
	timeProvider TimeProvider
	logger       Logger
}

func NewUseCase(
	appointments AppointmentRepository,
	employees EmployeeRepository,
	merchants MerchantRepository,
	catalog CatalogRepository,
	clients ClientProvider,
	txManager TxManager,
	metrics MetricsRecorder,
	minNoticeMinutes int,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointments: appointments,
		employees:    employees,
		merchants:    merchants,
		catalog:      catalog,
		clients:      clients,
		txManager:    txManager,
		metrics:      metrics,
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

// Execute создаёт запись на услугу. Проверка занятости слота и вставка
// выполняются в одной SERIALIZABLE-транзакции: два конкурентных запроса
// на один слот не могут пройти оба. Страховкой служит частичный
// уникальный индекс по активным записям.
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
		uc.logger.Error("create_appointment: failed to get employee %d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: Execute - get employee: %v", ErrInternal, err)
	}

	svc, err := uc.catalog.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogstore.ErrServiceNotFound) {
			return nil, fmt.Errorf("%w: service_id=%d", ErrServiceNotFound, req.ServiceID)
		}
		uc.logger.Error("create_appointment: failed to get service %d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: Execute - get service: %v", ErrInternal, err)
	}
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
		uc.logger.Error("create_appointment: failed to get merchant %d: %v", emp.MerchantID, err)
		return nil, fmt.Errorf("%w: Execute - get merchant: %v", ErrInternal, err)
	}

	if err := uc.checkSchedule(ctx, emp, merchant, date, req.StartTime, svc.DurationMinutes); err != nil {
		return nil, err
	}

	endTime, err := req.StartTime.AddMinutes(svc.DurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: slot does not fit into the day", ErrSlotUnavailable)
	}

	contact, err := uc.resolveClientContact(ctx, req)
	if err != nil {
		return nil, err
	}

	quote := uc.quotePrice(ctx, svc, merchant.Location())

	appointment := &domain.Appointment{
		MerchantID:      emp.MerchantID,
		EmployeeID:      req.EmployeeID,
		ServiceID:       req.ServiceID,
		ClientID:        req.ClientID,
		Date:            date,
		StartTime:       req.StartTime,
		EndTime:         endTime,
		DurationMinutes: svc.DurationMinutes,
		Status:          domain.StatusPending,

		ClientName:  contact.Name,
		ClientPhone: contact.Phone,
		ClientEmail: contact.Email,

		ServiceName:   svc.Name,
		ServicePrice:  quote.EffectivePrice,
		OriginalPrice: quote.OriginalPrice,

		CancelPolicyHours: merchant.CancellationPolicyHours,
		CancelFeeEnabled:  merchant.CancellationFeeEnabled,
		CancelFeeAmount:   merchant.CancellationFeeAmount,

		Notes: req.Notes,
	}
	if quote.HasPromotion {
		appointment.PromotionID = &quote.Promotion.ID
	}

	created, err := uc.reserve(ctx, appointment)
	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			uc.recordReservation(outcomeConflict)
		}
		return nil, err
	}

	uc.recordReservation(outcomeWon)
	uc.logger.Info("create_appointment: appointment %d created for employee %d on %s %s",
		created.ID, created.EmployeeID, req.Date, req.StartTime)

	return toResponse(created), nil
}

// reserve выполняет атомарный check-and-reserve: выборка активных записей
// дня с блокировкой FOR UPDATE, проверка пересечений и вставка - в одной
// SERIALIZABLE-транзакции с ограниченным числом повторов.
func (uc *UseCase) reserve(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	var created *domain.Appointment

	txErr := uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		existing, err := uc.appointments.GetByEmployeeAndDate(ctx, a.EmployeeID, a.Date, true)
		if err != nil {
			return fmt.Errorf("%w: reserve - get appointments: %v", ErrInternal, err)
		}

		if domain.HasConflict(existing, a.StartTime, a.DurationMinutes, 0) {
			return fmt.Errorf("%w: employee %d at %s %s", ErrSlotConflict, a.EmployeeID,
				a.Date.Format(domain.DateFormat), a.StartTime)
		}

		created, err = uc.appointments.Create(ctx, a)
		if err != nil {
			if errors.Is(err, appointmentstore.ErrSlotTaken) {
				return fmt.Errorf("%w: employee %d at %s %s", ErrSlotConflict, a.EmployeeID,
					a.Date.Format(domain.DateFormat), a.StartTime)
			}
			return fmt.Errorf("%w: reserve - create: %v", ErrInternal, err)
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, ErrSlotConflict) || errors.Is(txErr, ErrInternal) {
			return nil, txErr
		}
		// Исчерпание попыток сериализуемой транзакции - слот оспаривается
		// конкурентами, клиенту предлагается выбрать другое время
		if errors.Is(txErr, txmanager.ErrTxConflict) {
			uc.logger.Warn("create_appointment: reservation contention for employee %d: %v", a.EmployeeID, txErr)
			return nil, fmt.Errorf("%w: employee %d at %s %s", ErrSlotConflict, a.EmployeeID,
				a.Date.Format(domain.DateFormat), a.StartTime)
		}
		uc.logger.Error("create_appointment: reservation transaction failed: %v", txErr)
		return nil, fmt.Errorf("%w: reserve - transaction: %v", ErrInternal, txErr)
	}

	return created, nil
}

// checkSchedule проверяет, что слот попадает в рабочий график сотрудника
// и не нарушает минимальный срок предупреждения
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
		uc.logger.Error("create_appointment: failed to check day off for employee %d: %v", emp.ID, err)
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

	// Нельзя записаться в прошлое или с нарушением минимального
	// срока предупреждения
	loc := merchant.Location()
	startsAt := start.At(date, loc)
	cutoff := uc.timeProvider.Now().In(loc).Add(time.Duration(uc.minNotice) * time.Minute)
	if !startsAt.After(cutoff) {
		return fmt.Errorf("%w: slot starts at %s, requires at least %d minutes notice",
			ErrSlotUnavailable, startsAt.Format(time.RFC3339), uc.minNotice)
	}

	return nil
}

// resolveClientContact собирает снапшот контакта клиента. Для
// зарегистрированного клиента данные берутся из сервиса аккаунтов;
// при его недоступности - graceful degradation на контакт из запроса.
func (uc *UseCase) resolveClientContact(ctx context.Context, req Request) (*clientservice.ClientProfile, error) {
	fallback := &clientservice.ClientProfile{
		Name:  req.ClientName,
		Phone: req.ClientPhone,
		Email: req.ClientEmail,
	}

	if req.ClientID == nil {
		return fallback, nil
	}

	profile, err := uc.clients.GetClientWithGracefulDegradation(ctx, *req.ClientID)
	if err != nil {
		if errors.Is(err, clientservice.ErrClientNotFound) {
			return nil, fmt.Errorf("%w: client_id=%d", ErrClientNotFound, *req.ClientID)
		}
		if errors.Is(err, clientservice.ErrServiceDegraded) {
			if fallback.Name == "" || fallback.Phone == "" {
				return nil, fmt.Errorf("%w: client service is unavailable and no contact provided", ErrInvalidInput)
			}
			uc.logger.Warn("create_appointment: client service degraded, using contact from request for client %d", *req.ClientID)
			return fallback, nil
		}
		uc.logger.Error("create_appointment: failed to get client %d: %v", *req.ClientID, err)
		return nil, fmt.Errorf("%w: Execute - get client: %v", ErrInternal, err)
	}

	return profile, nil
}

// quotePrice рассчитывает цену с учётом активной акции. Окно акции
// оценивается по текущей дате мерчанта в момент бронирования, не по дате
// записи: акция действует на бронирования, сделанные в её окно. Отсутствие
// акции и сбой выборки акций не блокируют бронирование - берётся базовая цена.
func (uc *UseCase) quotePrice(ctx context.Context, svc *domain.SalonService, loc *time.Location) domain.PriceQuote {
	today := uc.timeProvider.Now().In(loc)
	promo, err := uc.catalog.GetActivePromotionForService(ctx, svc.ID, svc.MerchantID, today)
	if err != nil {
		if !errors.Is(err, catalogstore.ErrPromotionNotFound) {
			uc.logger.Warn("create_appointment: failed to load promotion for service %d: %v", svc.ID, err)
		}
		return domain.QuotePrice(svc.Price, nil)
	}
	return domain.QuotePrice(svc.Price, promo)
}

func (uc *UseCase) recordReservation(outcome string) {
	if uc.metrics != nil {
		uc.metrics.IncReservation(outcome)
	}
}
