package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	appointmentstore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SBP-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SBP-SchedulingService/pkg/ptr"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

// --- Моки ---

type mockAppointmentRepo struct {
	appointments map[int64]*domain.Appointment
	// staleGet подменяет результат GetByID - имитация чтения снапшота,
	// сделанного до конкурирующей записи
	staleGet   *domain.Appointment
	lastPatch  *domain.StatusPatch
	lastFilter *domain.MerchantAppointmentsFilter
}

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if m.staleGet != nil && m.staleGet.ID == id {
		return m.staleGet, nil
	}
	if a, ok := m.appointments[id]; ok {
		return a, nil
	}
	return nil, appointmentstore.ErrAppointmentNotFound
}

func (m *mockAppointmentRepo) GetByClient(ctx context.Context, clientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range m.appointments {
		if a.ClientID == nil || *a.ClientID != clientID {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (m *mockAppointmentRepo) GetByMerchantWithFilter(ctx context.Context, filter domain.MerchantAppointmentsFilter) ([]*domain.Appointment, error) {
	m.lastFilter = &filter
	var result []*domain.Appointment
	for _, a := range m.appointments {
		if a.MerchantID == filter.MerchantID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockAppointmentRepo) UpdateStatus(ctx context.Context, id int64, from domain.AppointmentStatus, patch domain.StatusPatch) error {
	a, ok := m.appointments[id]
	if !ok {
		return appointmentstore.ErrAppointmentNotFound
	}
	// Условный UPDATE: строка должна всё ещё быть в статусе from
	if a.Status != from {
		return appointmentstore.ErrStatusConflict
	}
	m.lastPatch = &patch
	a.Status = patch.Status
	if patch.ActualStartTime != nil {
		a.ActualStartTime = patch.ActualStartTime
	}
	if patch.ActualEndTime != nil {
		a.ActualEndTime = patch.ActualEndTime
	}
	if patch.CompletedAt != nil {
		a.CompletedAt = patch.CompletedAt
	}
	if patch.PaymentStatus != nil {
		a.PaymentStatus = patch.PaymentStatus
	}
	return nil
}

type mockMerchantRepo struct{}

func (m *mockMerchantRepo) GetByID(ctx context.Context, id int64) (*domain.Merchant, error) {
	return &domain.Merchant{ID: id, Timezone: "UTC"}, nil
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

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:         1,
		MerchantID: 10,
		EmployeeID: 20,
		ServiceID:  30,
		ClientID:   ptr.Ptr(int64(7)),
		Date:       time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		StartTime:  types.TimeString("14:00"),
		EndTime:    types.TimeString("15:00"),
		Status:     domain.StatusConfirmed,
	}
}

func newService(appointments ...*domain.Appointment) (*Service, *mockAppointmentRepo) {
	repo := &mockAppointmentRepo{appointments: map[int64]*domain.Appointment{}}
	for _, a := range appointments {
		repo.appointments[a.ID] = a
	}
	svc := NewService(repo, &mockMerchantRepo{}, nopLogger{}).
		WithTimeProvider(fakeTime{now: time.Date(2026, 6, 10, 14, 5, 0, 0, time.UTC)})
	return svc, repo
}

func staffActor() models.Actor {
	return models.Actor{Role: domain.RoleMerchant, ID: 3, MerchantID: 10}
}

// --- Тесты ---

func TestGetByID_Access(t *testing.T) {
	tests := []struct {
		name    string
		actor   models.Actor
		wantErr error
	}{
		{name: "owner client", actor: models.Actor{Role: domain.RoleClient, ID: 7}},
		{name: "foreign client", actor: models.Actor{Role: domain.RoleClient, ID: 99}, wantErr: ErrAccessDenied},
		{name: "merchant staff", actor: staffActor()},
		{name: "foreign merchant", actor: models.Actor{Role: domain.RoleMerchant, ID: 3, MerchantID: 777}, wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(testAppointment())

			resp, err := svc.GetByID(context.Background(), 1, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), resp.ID)
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _ := newService()

	_, err := svc.GetByID(context.Background(), 999, staffActor())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUpdateStatus_InProgressStampsActualStart(t *testing.T) {
	svc, repo := newService(testAppointment())

	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		Actor:  staffActor(),
		Status: "in_progress",
	})
	require.NoError(t, err)

	assert.Equal(t, "in_progress", resp.Status)
	require.NotNil(t, repo.lastPatch.ActualStartTime)
	assert.Nil(t, repo.lastPatch.ActualEndTime)
	assert.Nil(t, repo.lastPatch.PaymentStatus)
}

func TestUpdateStatus_CompletedStampsEverything(t *testing.T) {
	svc, repo := newService(testAppointment())

	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		Actor:  staffActor(),
		Status: "completed",
	})
	require.NoError(t, err)

	assert.Equal(t, "completed", resp.Status)
	require.NotNil(t, repo.lastPatch.ActualStartTime)
	require.NotNil(t, repo.lastPatch.ActualEndTime)
	require.NotNil(t, repo.lastPatch.CompletedAt)
	require.NotNil(t, repo.lastPatch.PaymentStatus)
	assert.Equal(t, domain.PaymentPending, *repo.lastPatch.PaymentStatus)
}

func TestUpdateStatus_DoesNotOverwriteExistingStamps(t *testing.T) {
	a := testAppointment()
	started := time.Date(2026, 6, 10, 14, 2, 0, 0, time.UTC)
	a.Status = domain.StatusInProgress
	a.ActualStartTime = &started

	svc, repo := newService(a)

	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		Actor:  staffActor(),
		Status: "completed",
	})
	require.NoError(t, err)

	// Фактическое начало уже зафиксировано - патч его не трогает
	assert.Nil(t, repo.lastPatch.ActualStartTime)
	assert.NotNil(t, repo.lastPatch.ActualEndTime)
}

func TestUpdateStatus_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.AppointmentStatus
		req     *models.UpdateStatusRequest
		wantErr error
	}{
		{
			name:    "client denied",
			status:  domain.StatusConfirmed,
			req:     &models.UpdateStatusRequest{Actor: models.Actor{Role: domain.RoleClient, ID: 7}, Status: "completed"},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "unknown status",
			status:  domain.StatusConfirmed,
			req:     &models.UpdateStatusRequest{Actor: staffActor(), Status: "paused"},
			wantErr: ErrInvalidStatus,
		},
		{
			name:    "terminal appointment",
			status:  domain.StatusCompleted,
			req:     &models.UpdateStatusRequest{Actor: staffActor(), Status: "cancelled"},
			wantErr: ErrAlreadyFinished,
		},
		{
			name:    "invalid transition",
			status:  domain.StatusInProgress,
			req:     &models.UpdateStatusRequest{Actor: staffActor(), Status: "scheduled"},
			wantErr: ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testAppointment()
			a.Status = tt.status
			svc, _ := newService(a)

			_, err := svc.UpdateStatus(context.Background(), 1, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateStatus_ConcurrentChangeRejected(t *testing.T) {
	// Два перехода читают запись в confirmed до того, как хоть один
	// записал: проигравший не должен перетереть результат победителя
	a := testAppointment()
	svc, repo := newService(a)

	stale := *a
	repo.staleGet = &stale

	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		Actor:  staffActor(),
		Status: "completed",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		Actor:  staffActor(),
		Status: "cancelled",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.StatusCompleted, a.Status)
}

func TestGetClientAppointments(t *testing.T) {
	a := testAppointment()
	other := testAppointment()
	other.ID = 2
	other.ClientID = ptr.Ptr(int64(99))

	svc, _ := newService(a, other)

	resp, err := svc.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{ClientID: 7})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, int64(1), resp.Appointments[0].ID)
}

func TestGetClientAppointments_InvalidStatus(t *testing.T) {
	svc, _ := newService()

	_, err := svc.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{ClientID: 7, Status: ptr.Ptr("paused")})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetMerchantAppointments_FilterConversion(t *testing.T) {
	svc, repo := newService(testAppointment())

	resp, err := svc.GetMerchantAppointments(context.Background(), &models.GetMerchantAppointmentsRequest{
		MerchantID: 10,
		EmployeeID: ptr.Ptr(int64(20)),
		StartDate:  ptr.Ptr("2026-06-10"),
		EndDate:    ptr.Ptr("2026-06-10"),
		Status:     ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	require.NotNil(t, repo.lastFilter)
	assert.Equal(t, int64(10), repo.lastFilter.MerchantID)
	require.NotNil(t, repo.lastFilter.StartDate)
	assert.Equal(t, time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC), *repo.lastFilter.StartDate)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, domain.StatusConfirmed, *repo.lastFilter.Status)
	assert.False(t, repo.lastFilter.IncludeInactive)
}

func TestGetMerchantAppointments_BadDate(t *testing.T) {
	svc, _ := newService()

	_, err := svc.GetMerchantAppointments(context.Background(), &models.GetMerchantAppointmentsRequest{
		MerchantID: 10,
		StartDate:  ptr.Ptr("10.06.2026"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
