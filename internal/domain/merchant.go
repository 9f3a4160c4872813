package domain

import (
	"time"

	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

// Merchant represents a tenant business (a salon)
type Merchant struct {
	ID   int64
	Name string

	// Рабочие дни недели (0 = воскресенье ... 6 = суббота)
	WorkingDays []int
	OpenTime    types.TimeString
	CloseTime   types.TimeString
	BreakStart  *types.TimeString
	BreakEnd    *types.TimeString

	// Политика отмены: минимальный срок в часах и штраф
	CancellationPolicyHours int
	CancellationFeeEnabled  bool
	CancellationFeeAmount   int64 // минорные единицы

	IsOpen   bool
	Timezone string // IANA, например "Europe/Moscow"

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorksOn returns true if the merchant works on the given weekday.
func (m *Merchant) WorksOn(weekday time.Weekday) bool {
	for _, d := range m.WorkingDays {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

// Location возвращает таймзону мерчанта.
// При некорректном значении используется UTC.
func (m *Merchant) Location() *time.Location {
	loc, err := time.LoadLocation(m.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// HasBreak returns true if a break window is configured.
func (m *Merchant) HasBreak() bool {
	return m.BreakStart != nil && m.BreakEnd != nil
}
