package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

// appointmentAt собирает запись, начинающуюся в указанное время,
// с политикой отмены из аргументов.
func appointmentAt(t *testing.T, date string, start string, policyHours int, feeEnabled bool, feeAmount int64) *Appointment {
	t.Helper()

	d, err := time.Parse(DateFormat, date)
	require.NoError(t, err)
	st, err := types.NewTimeStringFromString(start)
	require.NoError(t, err)
	en, err := st.AddMinutes(60)
	require.NoError(t, err)

	return &Appointment{
		ID:                1,
		MerchantID:        10,
		EmployeeID:        20,
		ServiceID:         30,
		Date:              d,
		StartTime:         st,
		EndTime:           en,
		DurationMinutes:   60,
		Status:            StatusConfirmed,
		CancelPolicyHours: policyHours,
		CancelFeeEnabled:  feeEnabled,
		CancelFeeAmount:   feeAmount,
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    AppointmentStatus
		to      AppointmentStatus
		wantErr error
	}{
		{name: "pending to scheduled", from: StatusPending, to: StatusScheduled},
		{name: "pending to confirmed", from: StatusPending, to: StatusConfirmed},
		{name: "confirmed to in_progress", from: StatusConfirmed, to: StatusInProgress},
		{name: "in_progress to completed", from: StatusInProgress, to: StatusCompleted},
		{name: "late back to in_progress", from: StatusLate, to: StatusInProgress},
		{name: "scheduled to no_show", from: StatusScheduled, to: StatusNoShow},
		{name: "backwards to pending", from: StatusConfirmed, to: StatusPending, wantErr: ErrInvalidTransition},
		{name: "in_progress to scheduled", from: StatusInProgress, to: StatusScheduled, wantErr: ErrInvalidTransition},
		{name: "out of completed", from: StatusCompleted, to: StatusConfirmed, wantErr: ErrTerminalState},
		{name: "out of cancelled", from: StatusCancelled, to: StatusPending, wantErr: ErrTerminalState},
		{name: "out of no_show", from: StatusNoShow, to: StatusCompleted, wantErr: ErrTerminalState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Appointment{Status: tt.from}
			err := CanTransition(a, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCanCancel(t *testing.T) {
	// Запись 2026-06-10 14:00, "сейчас" варьируется по кейсам
	tests := []struct {
		name       string
		role       ActorRole
		now        time.Time
		policy     int
		feeEnabled bool
		feeAmount  int64
		status     AppointmentStatus
		wantErr    error
	}{
		{
			name:   "client with enough notice",
			role:   RoleClient,
			now:    time.Date(2026, 6, 9, 13, 0, 0, 0, time.UTC), // 25h до начала
			policy: 24,
		},
		{
			name:    "client inside window fees disabled",
			role:    RoleClient,
			now:     time.Date(2026, 6, 9, 15, 0, 0, 0, time.UTC), // 23h до начала
			policy:  24,
			wantErr: ErrNoticeTooShort,
		},
		{
			// При включённых штрафах поздняя отмена разрешена - со штрафом
			name:       "client inside window fees enabled",
			role:       RoleClient,
			now:        time.Date(2026, 6, 9, 15, 0, 0, 0, time.UTC),
			policy:     24,
			feeEnabled: true,
			feeAmount:  50000,
		},
		{
			name:   "client zero policy",
			role:   RoleClient,
			now:    time.Date(2026, 6, 10, 13, 59, 0, 0, time.UTC),
			policy: 0,
		},
		{
			name:   "merchant bypasses window",
			role:   RoleMerchant,
			now:    time.Date(2026, 6, 10, 13, 0, 0, 0, time.UTC),
			policy: 24,
		},
		{
			name:   "employee bypasses window",
			role:   RoleEmployee,
			now:    time.Date(2026, 6, 10, 13, 0, 0, 0, time.UTC),
			policy: 24,
		},
		{
			name:    "terminal status blocks everyone",
			role:    RoleMerchant,
			now:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			status:  StatusCancelled,
			wantErr: ErrTerminalState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := appointmentAt(t, "2026-06-10", "14:00", tt.policy, tt.feeEnabled, tt.feeAmount)
			if tt.status != "" {
				a.Status = tt.status
			}

			err := CanCancel(a, tt.role, tt.now, time.UTC)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCanReschedule(t *testing.T) {
	a := appointmentAt(t, "2026-06-10", "14:00", 24, true, 50000)

	// Перенос не бывает платным: окно политики действует на клиента
	// даже при включённых штрафах за отмену.
	err := CanReschedule(a, RoleClient, time.Date(2026, 6, 9, 15, 0, 0, 0, time.UTC), time.UTC)
	assert.ErrorIs(t, err, ErrNoticeTooShort)

	err = CanReschedule(a, RoleClient, time.Date(2026, 6, 9, 13, 0, 0, 0, time.UTC), time.UTC)
	assert.NoError(t, err)

	err = CanReschedule(a, RoleMerchant, time.Date(2026, 6, 10, 13, 0, 0, 0, time.UTC), time.UTC)
	assert.NoError(t, err)

	a.Status = StatusCompleted
	err = CanReschedule(a, RoleMerchant, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), time.UTC)
	assert.ErrorIs(t, err, ErrTerminalState)
}

func TestCancellationFee(t *testing.T) {
	tests := []struct {
		name       string
		role       ActorRole
		now        time.Time
		policy     int
		feeEnabled bool
		feeAmount  int64
		want       int64
	}{
		{
			name:       "client late cancel",
			role:       RoleClient,
			now:        time.Date(2026, 6, 9, 15, 0, 0, 0, time.UTC), // 23h < 24h
			policy:     24,
			feeEnabled: true,
			feeAmount:  50000,
			want:       50000,
		},
		{
			name:       "client early cancel",
			role:       RoleClient,
			now:        time.Date(2026, 6, 9, 13, 0, 0, 0, time.UTC), // 25h > 24h
			policy:     24,
			feeEnabled: true,
			feeAmount:  50000,
			want:       0,
		},
		{
			name:      "fees disabled",
			role:      RoleClient,
			now:       time.Date(2026, 6, 10, 13, 0, 0, 0, time.UTC),
			policy:    24,
			feeAmount: 50000,
			want:      0,
		},
		{
			name:       "staff never pays",
			role:       RoleMerchant,
			now:        time.Date(2026, 6, 10, 13, 0, 0, 0, time.UTC),
			policy:     24,
			feeEnabled: true,
			feeAmount:  50000,
			want:       0,
		},
		{
			name:       "zero policy hours",
			role:       RoleClient,
			now:        time.Date(2026, 6, 10, 13, 59, 0, 0, time.UTC),
			policy:     0,
			feeEnabled: true,
			feeAmount:  50000,
			want:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := appointmentAt(t, "2026-06-10", "14:00", tt.policy, tt.feeEnabled, tt.feeAmount)
			got := CancellationFee(a, tt.role, tt.now, time.UTC)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseActorRole(t *testing.T) {
	role, ok := ParseActorRole("client")
	assert.True(t, ok)
	assert.Equal(t, RoleClient, role)

	_, ok = ParseActorRole("admin")
	assert.False(t, ok)
}
