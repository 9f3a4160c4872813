package domain

import "github.com/m04kA/SBP-SchedulingService/pkg/types"

// HasConflict проверяет, пересекается ли кандидат [start, start+duration)
// с какой-либо активной записью сотрудника из переданного списка.
// Записи в терминальных статусах слот не занимают и пропускаются.
// excludeID позволяет исключить собственную запись при переносе
// (0 - ничего не исключать).
//
// Интервалы полуоткрытые: записи "впритык" не конфликтуют.
func HasConflict(appointments []*Appointment, start types.TimeString, durationMinutes int, excludeID int64) bool {
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		// Кандидат выходит за пределы суток - пересечений в этих сутках нет
		return false
	}

	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		if excludeID != 0 && a.ID == excludeID {
			continue
		}
		if types.Overlaps(start, end, a.StartTime, a.EndTime) {
			return true
		}
	}

	return false
}
