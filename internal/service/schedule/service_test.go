package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	employeestore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/employee"
	merchantstore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/merchant"
	"github.com/m04kA/SBP-SchedulingService/internal/service/schedule/models"
	"github.com/m04kA/SBP-SchedulingService/pkg/ptr"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

// --- Моки ---

type mockMerchantRepo struct {
	merchant  *domain.Merchant
	lastPatch *merchantstore.SchedulePatch
}

func (m *mockMerchantRepo) GetByID(ctx context.Context, id int64) (*domain.Merchant, error) {
	if m.merchant == nil || m.merchant.ID != id {
		return nil, merchantstore.ErrMerchantNotFound
	}
	return m.merchant, nil
}

func (m *mockMerchantRepo) UpdateSchedule(ctx context.Context, id int64, patch merchantstore.SchedulePatch) error {
	if m.merchant == nil || m.merchant.ID != id {
		return merchantstore.ErrMerchantNotFound
	}
	m.lastPatch = &patch
	m.merchant.WorkingDays = patch.WorkingDays
	m.merchant.OpenTime = patch.OpenTime
	m.merchant.CloseTime = patch.CloseTime
	m.merchant.CancellationPolicyHours = patch.CancellationPolicyHours
	m.merchant.CancellationFeeEnabled = patch.CancellationFeeEnabled
	m.merchant.CancellationFeeAmount = patch.CancellationFeeAmount
	m.merchant.IsOpen = patch.IsOpen
	return nil
}

type mockEmployeeRepo struct {
	employee   *domain.Employee
	synced     int64
	dayOffErr  error
	lastDayOff *domain.DayOff
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	if m.employee == nil || m.employee.ID != id {
		return nil, employeestore.ErrEmployeeNotFound
	}
	return m.employee, nil
}

func (m *mockEmployeeRepo) CreateDayOff(ctx context.Context, d *domain.DayOff) (*domain.DayOff, error) {
	if m.dayOffErr != nil {
		return nil, m.dayOffErr
	}
	stored := *d
	stored.ID = 1
	m.lastDayOff = &stored
	return &stored, nil
}

func (m *mockEmployeeRepo) SyncSchedule(ctx context.Context, merchantID int64, workingDays []int, start, end types.TimeString, breakStart, breakEnd *types.TimeString) (int64, error) {
	return m.synced, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Debug(format string, args ...any) {}
func (nopLogger) Info(format string, args ...any)  {}
func (nopLogger) Warn(format string, args ...any)  {}
func (nopLogger) Error(format string, args ...any) {}

// --- Фикстуры ---

func newService() (*Service, *mockMerchantRepo, *mockEmployeeRepo) {
	merchants := &mockMerchantRepo{
		merchant: &domain.Merchant{
			ID:          10,
			Name:        "Салон",
			WorkingDays: []int{1, 2, 3, 4, 5},
			OpenTime:    types.TimeString("09:00"),
			CloseTime:   types.TimeString("20:00"),
			IsOpen:      true,
			Timezone:    "Europe/Moscow",
		},
	}
	employees := &mockEmployeeRepo{
		employee: &domain.Employee{ID: 20, MerchantID: 10, IsActive: true},
		synced:   3,
	}
	svc := NewService(merchants, employees, fakeTxManager{}, nopLogger{})
	return svc, merchants, employees
}

func validUpdateRequest() *models.UpdateScheduleRequest {
	return &models.UpdateScheduleRequest{
		WorkingDays:             []int{1, 2, 3, 4, 5, 6},
		OpenTime:                types.TimeString("10:00"),
		CloseTime:               types.TimeString("21:00"),
		CancellationPolicyHours: 12,
		CancellationFeeEnabled:  true,
		CancellationFeeAmount:   30000,
		IsOpen:                  true,
		Timezone:                "Europe/Moscow",
	}
}

// --- Тесты ---

func TestGetSchedule(t *testing.T) {
	svc, _, _ := newService()

	resp, err := svc.GetSchedule(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.MerchantID)
	assert.Equal(t, types.TimeString("09:00"), resp.OpenTime)
	assert.Equal(t, "Europe/Moscow", resp.Timezone)
}

func TestGetSchedule_NotFound(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.GetSchedule(context.Background(), 999)
	assert.ErrorIs(t, err, ErrMerchantNotFound)
}

func TestUpdateSchedule(t *testing.T) {
	svc, merchants, _ := newService()

	resp, err := svc.UpdateSchedule(context.Background(), 10, validUpdateRequest())
	require.NoError(t, err)

	assert.Equal(t, types.TimeString("10:00"), resp.Schedule.OpenTime)
	assert.Equal(t, 12, resp.Schedule.CancellationPolicyHours)
	assert.Equal(t, int64(3), resp.EmployeesSynced)

	require.NotNil(t, merchants.lastPatch)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, merchants.lastPatch.WorkingDays)
}

func TestUpdateSchedule_NotFound(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.UpdateSchedule(context.Background(), 999, validUpdateRequest())
	assert.ErrorIs(t, err, ErrMerchantNotFound)
}

func TestUpdateSchedule_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *models.UpdateScheduleRequest)
	}{
		{
			name:   "empty working days",
			mutate: func(req *models.UpdateScheduleRequest) { req.WorkingDays = nil },
		},
		{
			name:   "day out of range",
			mutate: func(req *models.UpdateScheduleRequest) { req.WorkingDays = []int{1, 7} },
		},
		{
			name:   "duplicated day",
			mutate: func(req *models.UpdateScheduleRequest) { req.WorkingDays = []int{1, 1} },
		},
		{
			name:   "open after close",
			mutate: func(req *models.UpdateScheduleRequest) { req.OpenTime = "22:00" },
		},
		{
			name: "break without end",
			mutate: func(req *models.UpdateScheduleRequest) {
				bs := types.TimeString("13:00")
				req.BreakStart = &bs
			},
		},
		{
			name: "break outside working hours",
			mutate: func(req *models.UpdateScheduleRequest) {
				bs := types.TimeString("08:00")
				be := types.TimeString("09:00")
				req.BreakStart = &bs
				req.BreakEnd = &be
			},
		},
		{
			name:   "policy hours not allowed",
			mutate: func(req *models.UpdateScheduleRequest) { req.CancellationPolicyHours = 7 },
		},
		{
			name:   "negative fee",
			mutate: func(req *models.UpdateScheduleRequest) { req.CancellationFeeAmount = -1 },
		},
		{
			name: "fee enabled without amount",
			mutate: func(req *models.UpdateScheduleRequest) {
				req.CancellationFeeEnabled = true
				req.CancellationFeeAmount = 0
			},
		},
		{
			name:   "unknown timezone",
			mutate: func(req *models.UpdateScheduleRequest) { req.Timezone = "Mars/Olympus" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newService()
			req := validUpdateRequest()
			tt.mutate(req)

			_, err := svc.UpdateSchedule(context.Background(), 10, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateDayOff(t *testing.T) {
	svc, _, employees := newService()

	resp, err := svc.CreateDayOff(context.Background(), &models.CreateDayOffRequest{
		EmployeeID: 20,
		MerchantID: 10,
		Date:       "2026-07-01",
		Reason:     ptr.Ptr("отпуск"),
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-07-01", resp.Date)
	require.NotNil(t, employees.lastDayOff)
	assert.Equal(t, int64(10), employees.lastDayOff.MerchantID)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), employees.lastDayOff.Date)
}

func TestCreateDayOff_Duplicate(t *testing.T) {
	svc, _, employees := newService()
	employees.dayOffErr = employeestore.ErrDayOffExists

	_, err := svc.CreateDayOff(context.Background(), &models.CreateDayOffRequest{
		EmployeeID: 20,
		Date:       "2026-07-01",
	})
	assert.ErrorIs(t, err, ErrDayOffExists)
}

func TestCreateDayOff_ForeignMerchant(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.CreateDayOff(context.Background(), &models.CreateDayOffRequest{
		EmployeeID: 20,
		MerchantID: 777,
		Date:       "2026-07-01",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCreateDayOff_BadDate(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.CreateDayOff(context.Background(), &models.CreateDayOffRequest{
		EmployeeID: 20,
		Date:       "завтра",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateDayOff_EmployeeNotFound(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.CreateDayOff(context.Background(), &models.CreateDayOffRequest{
		EmployeeID: 999,
		Date:       "2026-07-01",
	})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}
