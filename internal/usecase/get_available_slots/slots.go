package get_available_slots

import (
	"time"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	"github.com/m04kA/SBP-SchedulingService/pkg/types"
)

// buildSlotGrid генерирует сетку слотов-кандидатов по графику сотрудника.
// Слот попадает в сетку, если услуга целиком помещается в рабочий день
// и не пересекается с перерывом.
func buildSlotGrid(emp *domain.Employee, durationMinutes, stepMinutes int) []types.TimeString {
	var slots []types.TimeString

	dayEnd := emp.EffectiveEndTime()

	for cursor := emp.StartTime; ; {
		slotEnd, err := cursor.AddMinutes(durationMinutes)
		if err != nil || slotEnd.IsAfter(dayEnd) {
			break
		}

		if !intersectsBreak(emp, cursor, slotEnd) {
			slots = append(slots, cursor)
		}

		next, err := cursor.AddMinutes(stepMinutes)
		if err != nil {
			break
		}
		cursor = next
	}

	return slots
}

func intersectsBreak(emp *domain.Employee, start, end types.TimeString) bool {
	if !emp.HasBreak() {
		return false
	}
	return types.Overlaps(start, end, *emp.BreakStart, *emp.BreakEnd)
}

// filterConflicting убирает слоты, пересекающиеся с активными записями
func filterConflicting(slots []types.TimeString, appointments []*domain.Appointment, durationMinutes int) []types.TimeString {
	result := make([]types.TimeString, 0, len(slots))
	for _, slot := range slots {
		if !domain.HasConflict(appointments, slot, durationMinutes, 0) {
			result = append(result, slot)
		}
	}
	return result
}

// filterPast убирает слоты, начинающиеся раньше, чем now + минимальное
// время предупреждения. Для дат в будущем фильтр не применяется.
func filterPast(slots []types.TimeString, date time.Time, now time.Time, loc *time.Location, minNoticeMinutes int) []types.TimeString {
	localNow := now.In(loc)
	day := date.Format(domain.DateFormat)

	if localNow.Format(domain.DateFormat) != day {
		if day > localNow.Format(domain.DateFormat) {
			return slots
		}
		// Дата в прошлом - свободных слотов нет
		return []types.TimeString{}
	}

	cutoff := localNow.Add(time.Duration(minNoticeMinutes) * time.Minute)
	if cutoff.Format(domain.DateFormat) != day {
		// Порог предупреждения перевалил за полночь
		return []types.TimeString{}
	}
	cutoffMinutes := cutoff.Hour()*60 + cutoff.Minute()

	result := make([]types.TimeString, 0, len(slots))
	for _, slot := range slots {
		if slot.Minutes() > cutoffMinutes {
			result = append(result, slot)
		}
	}
	return result
}
