package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

func TestEarningsForAppointment(t *testing.T) {
	appointment := &Appointment{ServicePrice: 5000}

	tests := []struct {
		name     string
		payType  PayType
		payValue int64
		want     int64
	}{
		{name: "fixed per appointment", payType: PayFixed, payValue: 700, want: 700},
		// 1000 базисных пунктов = 10.00%
		{name: "percentage", payType: PayPercentage, payValue: 1000, want: 500},
		{name: "percentage rounds", payType: PayPercentage, payValue: 333, want: 167},
		// Оклад: за отдельные записи не начисляется
		{name: "monthly", payType: PayMonthly, payValue: 9000000, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Employee{PayType: tt.payType, PayValue: tt.payValue}
			assert.Equal(t, tt.want, EarningsForAppointment(e, appointment))
		})
	}
}

func TestOvertimeMinutes(t *testing.T) {
	ts := func(s string) types.TimeString {
		v, err := types.NewTimeStringFromString(s)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, 90, OvertimeMinutes(ts("18:00"), ts("19:30")))
	assert.Equal(t, 0, OvertimeMinutes(ts("18:00"), ts("18:00")))
	// Ранний уход сверхурочных не даёт
	assert.Equal(t, 0, OvertimeMinutes(ts("18:00"), ts("17:15")))
}
