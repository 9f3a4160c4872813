package create_appointment

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	"github.com/m04kA/SBP-SchedulingService/internal/integrations/clientservice"
	catalogstore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/catalog"
	employeestore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/employee"
	"github.com/m04kA/SBP-SchedulingService/pkg/txmanager"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

// --- Моки ---

// memAppointmentRepo хранит записи в памяти. Потокобезопасность
// обеспечивает fakeTxManager, сериализующий транзакции.
type memAppointmentRepo struct {
	appointments []*domain.Appointment
	nextID       int64
}

func (m *memAppointmentRepo) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	m.nextID++
	stored := *a
	stored.ID = m.nextID
	stored.CreatedAt = time.Now()
	m.appointments = append(m.appointments, &stored)
	return &stored, nil
}

func (m *memAppointmentRepo) GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time, activeOnly bool) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range m.appointments {
		if a.EmployeeID != employeeID || !a.Date.Equal(date) {
			continue
		}
		if activeOnly && !a.IsActive() {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

type mockEmployeeRepo struct {
	employee *domain.Employee
	dayOff   bool
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	if m.employee == nil || m.employee.ID != id {
		return nil, employeestore.ErrEmployeeNotFound
	}
	return m.employee, nil
}

func (m *mockEmployeeRepo) HasDayOff(ctx context.Context, employeeID int64, date time.Time) (bool, error) {
	return m.dayOff, nil
}

type mockMerchantRepo struct {
	merchant *domain.Merchant
}

func (m *mockMerchantRepo) GetByID(ctx context.Context, id int64) (*domain.Merchant, error) {
	return m.merchant, nil
}

type mockCatalogRepo struct {
	service *domain.SalonService
	promo   *domain.Promotion
}

func (m *mockCatalogRepo) GetServiceByID(ctx context.Context, id int64) (*domain.SalonService, error) {
	if m.service == nil || m.service.ID != id {
		return nil, catalogstore.ErrServiceNotFound
	}
	return m.service, nil
}

func (m *mockCatalogRepo) GetActivePromotionForService(ctx context.Context, serviceID int64, merchantID int64, date time.Time) (*domain.Promotion, error) {
	if m.promo == nil || !m.promo.AppliesOn(date) {
		return nil, catalogstore.ErrPromotionNotFound
	}
	return m.promo, nil
}

type mockClientProvider struct {
	profile *clientservice.ClientProfile
	err     error
}

func (m *mockClientProvider) GetClientWithGracefulDegradation(ctx context.Context, clientID int64) (*clientservice.ClientProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

// fakeTxManager сериализует транзакции мьютексом - имитация
// SERIALIZABLE-изоляции для проверки check-and-reserve.
type fakeTxManager struct {
	mu  sync.Mutex
	err error // если задана, транзакция завершается этой ошибкой
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type countingMetrics struct {
	mu        sync.Mutex
	won       int
	conflicts int
}

func (c *countingMetrics) IncReservation(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch outcome {
	case outcomeWon:
		c.won++
	case outcomeConflict:
		c.conflicts++
	}
}

type fakeTime struct {
	now time.Time
}

func (f fakeTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Debug(format string, args ...any) {}
func (nopLogger) Info(format string, args ...any)  {}
func (nopLogger) Warn(format string, args ...any)  {}
func (nopLogger) Error(format string, args ...any) {}

// --- Фикстуры ---

func ts(t *testing.T, s string) types.TimeString {
	t.Helper()
	v, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return v
}

type fixtures struct {
	employees *mockEmployeeRepo
	merchants *mockMerchantRepo
	catalog   *mockCatalogRepo
	clients   *mockClientProvider
	repo      *memAppointmentRepo
	tx        *fakeTxManager
	metrics   *countingMetrics
}

func newFixtures(t *testing.T) *fixtures {
	return &fixtures{
		employees: &mockEmployeeRepo{
			employee: &domain.Employee{
				ID:          20,
				MerchantID:  10,
				Name:        "Анна",
				WorkingDays: []int{1, 2, 3, 4, 5},
				StartTime:   ts(t, "09:00"),
				EndTime:     ts(t, "18:00"),
				IsActive:    true,
			},
		},
		merchants: &mockMerchantRepo{
			merchant: &domain.Merchant{
				ID:                      10,
				IsOpen:                  true,
				Timezone:                "UTC",
				CancellationPolicyHours: 24,
				CancellationFeeEnabled:  true,
				CancellationFeeAmount:   50000,
			},
		},
		catalog: &mockCatalogRepo{
			service: &domain.SalonService{
				ID:              30,
				MerchantID:      10,
				Name:            "Стрижка",
				DurationMinutes: 60,
				Price:           250000,
				IsActive:        true,
			},
		},
		clients: &mockClientProvider{
			profile: &clientservice.ClientProfile{ID: 7, Name: "Иван", Phone: "+79990001122"},
		},
		repo:    &memAppointmentRepo{},
		tx:      &fakeTxManager{},
		metrics: &countingMetrics{},
	}
}

func (f *fixtures) useCase() *UseCase {
	return NewUseCase(
		f.repo, f.employees, f.merchants, f.catalog, f.clients,
		f.tx, f.metrics, 60, nopLogger{},
	).WithTimeProvider(fakeTime{now: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)})
}

// 2026-06-10 - среда
const testDate = "2026-06-10"

func clientID(id int64) *int64 { return &id }

func validRequest() Request {
	return Request{
		EmployeeID: 20,
		ServiceID:  30,
		Date:       testDate,
		StartTime:  "10:00",
		ClientID:   clientID(7),
	}
}

// --- Тесты ---

func TestExecute_CreatesAppointment(t *testing.T) {
	f := newFixtures(t)
	uc := f.useCase()

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, int64(10), resp.MerchantID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, ts(t, "10:00"), resp.StartTime)
	assert.Equal(t, ts(t, "11:00"), resp.EndTime)

	// Снапшот контакта из сервиса аккаунтов
	assert.Equal(t, "Иван", resp.ClientName)
	assert.Equal(t, "+79990001122", resp.ClientPhone)

	// Снапшот услуги и цены без акции
	assert.Equal(t, "Стрижка", resp.ServiceName)
	assert.Equal(t, int64(250000), resp.ServicePrice)
	assert.Equal(t, int64(250000), resp.OriginalPrice)
	assert.Nil(t, resp.PromotionID)

	// Снапшот политики отмены мерчанта
	stored := f.repo.appointments[0]
	assert.Equal(t, 24, stored.CancelPolicyHours)
	assert.True(t, stored.CancelFeeEnabled)
	assert.Equal(t, int64(50000), stored.CancelFeeAmount)

	assert.Equal(t, 1, f.metrics.won)
}

func TestExecute_AppliesActivePromotion(t *testing.T) {
	f := newFixtures(t)
	f.catalog.promo = &domain.Promotion{
		ID:            5,
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 20,
		StartDate:     time.Date(2026, 5, 25, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
		IsActive:      true,
	}
	uc := f.useCase()

	// Окно акции покрывает день бронирования (2026-06-01), а не дату
	// записи (2026-06-10) - скидка всё равно применяется
	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(200000), resp.ServicePrice)
	assert.Equal(t, int64(250000), resp.OriginalPrice)
	require.NotNil(t, resp.PromotionID)
	assert.Equal(t, int64(5), *resp.PromotionID)
}

func TestExecute_PromotionWindowEvaluatedAtBookingTime(t *testing.T) {
	f := newFixtures(t)
	// Окно акции покрывает дату записи, но на день бронирования акция
	// ещё не началась - цена остаётся базовой
	f.catalog.promo = &domain.Promotion{
		ID:            5,
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 20,
		StartDate:     time.Date(2026, 6, 9, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 6, 11, 0, 0, 0, 0, time.UTC),
		IsActive:      true,
	}
	uc := f.useCase()

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(250000), resp.ServicePrice)
	assert.Equal(t, int64(250000), resp.OriginalPrice)
	assert.Nil(t, resp.PromotionID)
}

func TestExecute_GuestBooking(t *testing.T) {
	f := newFixtures(t)
	uc := f.useCase()

	req := validRequest()
	req.ClientID = nil
	req.ClientName = "Пётр"
	req.ClientPhone = "+79991112233"

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Nil(t, resp.ClientID)
	assert.Equal(t, "Пётр", resp.ClientName)
	assert.Equal(t, "+79991112233", resp.ClientPhone)
}

func TestExecute_GuestBookingRequiresContact(t *testing.T) {
	f := newFixtures(t)
	uc := f.useCase()

	req := validRequest()
	req.ClientID = nil

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ClientServiceDegraded(t *testing.T) {
	f := newFixtures(t)
	f.clients.err = clientservice.ErrServiceDegraded
	uc := f.useCase()

	t.Run("falls back to request contact", func(t *testing.T) {
		req := validRequest()
		req.ClientName = "Иван"
		req.ClientPhone = "+79990001122"

		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "Иван", resp.ClientName)
	})

	t.Run("fails without contact in request", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestExecute_ClientNotFound(t *testing.T) {
	f := newFixtures(t)
	f.clients.err = clientservice.ErrClientNotFound
	uc := f.useCase()

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestExecute_ScheduleViolations(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *fixtures, req *Request)
		wantErr error
	}{
		{
			name:    "merchant closed",
			prepare: func(f *fixtures, req *Request) { f.merchants.merchant.IsOpen = false },
			wantErr: ErrSlotUnavailable,
		},
		{
			name:    "employee inactive",
			prepare: func(f *fixtures, req *Request) { f.employees.employee.IsActive = false },
			wantErr: ErrSlotUnavailable,
		},
		{
			name:    "non-working weekday",
			prepare: func(f *fixtures, req *Request) { req.Date = "2026-06-07" }, // воскресенье
			wantErr: ErrSlotUnavailable,
		},
		{
			name:    "day off",
			prepare: func(f *fixtures, req *Request) { f.employees.dayOff = true },
			wantErr: ErrSlotUnavailable,
		},
		{
			name:    "before working hours",
			prepare: func(f *fixtures, req *Request) { req.StartTime = "08:00" },
			wantErr: ErrSlotUnavailable,
		},
		{
			name:    "service does not fit before closing",
			prepare: func(f *fixtures, req *Request) { req.StartTime = "17:30" },
			wantErr: ErrSlotUnavailable,
		},
		{
			name: "overlaps break",
			prepare: func(f *fixtures, req *Request) {
				bs := types.TimeString("13:00")
				be := types.TimeString("14:00")
				f.employees.employee.BreakStart = &bs
				f.employees.employee.BreakEnd = &be
				req.StartTime = "13:30"
			},
			wantErr: ErrSlotUnavailable,
		},
		{
			name:    "inactive service",
			prepare: func(f *fixtures, req *Request) { f.catalog.service.IsActive = false },
			wantErr: ErrServiceInactive,
		},
		{
			name:    "unknown employee",
			prepare: func(f *fixtures, req *Request) { req.EmployeeID = 999 },
			wantErr: ErrEmployeeNotFound,
		},
		{
			name:    "unknown service",
			prepare: func(f *fixtures, req *Request) { req.ServiceID = 999 },
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "cross-merchant service",
			prepare: func(f *fixtures, req *Request) { f.catalog.service.MerchantID = 99 },
			wantErr: ErrServiceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixtures(t)
			req := validRequest()
			tt.prepare(f, &req)

			_, err := f.useCase().Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_MinNotice(t *testing.T) {
	f := newFixtures(t)
	// "Сейчас" - утро дня записи
	uc := f.useCase().WithTimeProvider(fakeTime{now: time.Date(2026, 6, 10, 9, 30, 0, 0, time.UTC)})

	// 10:00 при min_notice 60 минут - слишком поздно
	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// 11:00 проходит
	req := validRequest()
	req.StartTime = "11:00"
	_, err = uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_SlotConflict(t *testing.T) {
	f := newFixtures(t)
	uc := f.useCase()

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Повторное бронирование того же слота
	_, err = uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)

	assert.Equal(t, 1, f.metrics.won)
	assert.Equal(t, 1, f.metrics.conflicts)
}

func TestExecute_RetryExhaustionIsSlotConflict(t *testing.T) {
	f := newFixtures(t)
	// Сериализуемая транзакция не прошла за отведённые попытки -
	// для клиента это проигранная борьба за слот, не сбой сервиса
	f.tx.err = fmt.Errorf("%w: 3 serializable attempts exhausted", txmanager.ErrTxConflict)
	uc := f.useCase()

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Empty(t, f.repo.appointments)
	assert.Equal(t, 1, f.metrics.conflicts)
}

func TestExecute_ConcurrentReservation(t *testing.T) {
	f := newFixtures(t)
	uc := f.useCase()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), validRequest())
		}(i)
	}
	wg.Wait()

	// Ровно один запрос выигрывает слот
	var won, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case assert.ErrorIs(t, err, ErrSlotConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, f.repo.appointments, 1)
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr bool
	}{
		{name: "valid registered client", mutate: func(req *Request) {}},
		{name: "zero employee", mutate: func(req *Request) { req.EmployeeID = 0 }, wantErr: true},
		{name: "zero service", mutate: func(req *Request) { req.ServiceID = 0 }, wantErr: true},
		{name: "bad date", mutate: func(req *Request) { req.Date = "июнь" }, wantErr: true},
		{name: "bad start time", mutate: func(req *Request) { req.StartTime = "25:00" }, wantErr: true},
		{
			name: "guest without phone",
			mutate: func(req *Request) {
				req.ClientID = nil
				req.ClientName = "Пётр"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := validateRequest(req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}
