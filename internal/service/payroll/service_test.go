package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	employeestore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/employee"
	"github.com/m04kA/SBP-SchedulingService/internal/service/payroll/models"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

// --- Моки ---

type mockEmployeeRepo struct {
	employee *domain.Employee

	overtimeAdded   bool
	overtimeMinutes int
	overtimeDate    time.Time
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	if m.employee == nil || m.employee.ID != id {
		return nil, employeestore.ErrEmployeeNotFound
	}
	return m.employee, nil
}

func (m *mockEmployeeRepo) AddOvertime(ctx context.Context, id int64, minutes int, date time.Time) error {
	m.overtimeAdded = true
	m.overtimeMinutes = minutes
	m.overtimeDate = date
	return nil
}

type mockMerchantRepo struct{}

func (m *mockMerchantRepo) GetByID(ctx context.Context, id int64) (*domain.Merchant, error) {
	return &domain.Merchant{ID: id, Timezone: "UTC"}, nil
}

type mockAppointmentRepo struct {
	completed []*domain.Appointment
}

func (m *mockAppointmentRepo) GetCompletedByEmployeeInRange(ctx context.Context, employeeID int64, from, to time.Time) ([]*domain.Appointment, error) {
	return m.completed, nil
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

func testEmployee(payType domain.PayType, payValue int64) *domain.Employee {
	return &domain.Employee{
		ID:         20,
		MerchantID: 10,
		EndTime:    types.TimeString("18:00"),
		PayType:    payType,
		PayValue:   payValue,
		IsActive:   true,
	}
}

func completedAppointment(id int64, price int64) *domain.Appointment {
	return &domain.Appointment{
		ID:           id,
		EmployeeID:   20,
		Date:         time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		ServiceName:  "Стрижка",
		ServicePrice: price,
		Status:       domain.StatusCompleted,
	}
}

func newService(emp *domain.Employee, completed []*domain.Appointment) (*Service, *mockEmployeeRepo) {
	employees := &mockEmployeeRepo{employee: emp}
	svc := NewService(employees, &mockMerchantRepo{}, &mockAppointmentRepo{completed: completed}, nopLogger{}).
		WithTimeProvider(fakeTime{now: time.Date(2026, 6, 10, 19, 30, 0, 0, time.UTC)})
	return svc, employees
}

// --- Тесты ---

func TestGetEarnings_Percentage(t *testing.T) {
	// Ставка 10.00% в базисных пунктах
	svc, _ := newService(testEmployee(domain.PayPercentage, 1000), []*domain.Appointment{
		completedAppointment(1, 250000),
		completedAppointment(2, 100000),
	})

	resp, err := svc.GetEarnings(context.Background(), &models.GetEarningsRequest{
		EmployeeID: 20,
		StartDate:  "2026-06-01",
		EndDate:    "2026-06-30",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Completed)
	assert.Equal(t, int64(35000), resp.TotalEarned)
	assert.Equal(t, int64(25000), resp.Appointments[0].Earned)
	assert.Equal(t, int64(10000), resp.Appointments[1].Earned)
}

func TestGetEarnings_Fixed(t *testing.T) {
	svc, _ := newService(testEmployee(domain.PayFixed, 700), []*domain.Appointment{
		completedAppointment(1, 250000),
		completedAppointment(2, 100000),
		completedAppointment(3, 50000),
	})

	resp, err := svc.GetEarnings(context.Background(), &models.GetEarningsRequest{
		EmployeeID: 20,
		StartDate:  "2026-06-01",
		EndDate:    "2026-06-30",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2100), resp.TotalEarned)
}

func TestGetEarnings_MonthlyIsZero(t *testing.T) {
	svc, _ := newService(testEmployee(domain.PayMonthly, 9000000), []*domain.Appointment{
		completedAppointment(1, 250000),
	})

	resp, err := svc.GetEarnings(context.Background(), &models.GetEarningsRequest{
		EmployeeID: 20,
		StartDate:  "2026-06-01",
		EndDate:    "2026-06-30",
	})
	require.NoError(t, err)
	assert.Zero(t, resp.TotalEarned)
	assert.Equal(t, 1, resp.Completed)
}

func TestGetEarnings_Validation(t *testing.T) {
	svc, _ := newService(testEmployee(domain.PayFixed, 700), nil)

	tests := []struct {
		name string
		req  *models.GetEarningsRequest
	}{
		{
			name: "bad start date",
			req:  &models.GetEarningsRequest{EmployeeID: 20, StartDate: "01.06.2026", EndDate: "2026-06-30"},
		},
		{
			name: "bad end date",
			req:  &models.GetEarningsRequest{EmployeeID: 20, StartDate: "2026-06-01", EndDate: "лето"},
		},
		{
			name: "inverted period",
			req:  &models.GetEarningsRequest{EmployeeID: 20, StartDate: "2026-06-30", EndDate: "2026-06-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetEarnings(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestGetEarnings_EmployeeNotFound(t *testing.T) {
	svc, _ := newService(testEmployee(domain.PayFixed, 700), nil)

	_, err := svc.GetEarnings(context.Background(), &models.GetEarningsRequest{
		EmployeeID: 999,
		StartDate:  "2026-06-01",
		EndDate:    "2026-06-30",
	})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestFinishWorkday_Overtime(t *testing.T) {
	emp := testEmployee(domain.PayFixed, 700)
	emp.OvertimeMinutes = 45
	svc, employees := newService(emp, nil)

	end := types.TimeString("19:30")
	resp, err := svc.FinishWorkday(context.Background(), &models.FinishWorkdayRequest{
		EmployeeID:    20,
		ActualEndTime: &end,
	})
	require.NoError(t, err)

	assert.Equal(t, 90, resp.OvertimeMinutes)
	assert.Equal(t, 135, resp.TotalOvertimeMinutes)
	assert.True(t, employees.overtimeAdded)
	assert.Equal(t, 90, employees.overtimeMinutes)
}

func TestFinishWorkday_DefaultsToNow(t *testing.T) {
	svc, employees := newService(testEmployee(domain.PayFixed, 700), nil)

	// Время не передано - берётся "сейчас" (19:30 UTC)
	resp, err := svc.FinishWorkday(context.Background(), &models.FinishWorkdayRequest{EmployeeID: 20})
	require.NoError(t, err)

	assert.Equal(t, types.TimeString("19:30"), resp.ActualEndTime)
	assert.Equal(t, 90, resp.OvertimeMinutes)
	assert.True(t, employees.overtimeAdded)
}

func TestFinishWorkday_OnTimeResetsExtension(t *testing.T) {
	svc, employees := newService(testEmployee(domain.PayFixed, 700), nil)

	end := types.TimeString("17:45")
	resp, err := svc.FinishWorkday(context.Background(), &models.FinishWorkdayRequest{
		EmployeeID:    20,
		ActualEndTime: &end,
	})
	require.NoError(t, err)

	// Ранний уход: сверхурочных нет, но закрытие смены всё равно
	// записывается - оно сбрасывает продление дня
	assert.Zero(t, resp.OvertimeMinutes)
	assert.True(t, employees.overtimeAdded)
	assert.Zero(t, employees.overtimeMinutes)
}

func TestFinishWorkday_InvalidTime(t *testing.T) {
	svc, _ := newService(testEmployee(domain.PayFixed, 700), nil)

	bad := types.TimeString("25:99")
	_, err := svc.FinishWorkday(context.Background(), &models.FinishWorkdayRequest{
		EmployeeID:    20,
		ActualEndTime: &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
