package types

import (
	"errors"
	"fmt"
	"time"
)

// TimeString represents a time of day in "HH:MM" format.
// Used for working hours, break windows and appointment slots.
// All arithmetic stays within a single day - appointments never span midnight.
type TimeString string

const timeLayout = "15:04"

const minutesPerDay = 24 * 60

var (
	// ErrInvalidFormat возвращается при некорректном формате времени
	ErrInvalidFormat = errors.New("types: invalid time string format, expected HH:MM")

	// ErrDayOverflow возвращается, когда арифметика выходит за пределы суток
	ErrDayOverflow = errors.New("types: time arithmetic overflows the day")
)

// NewTimeString создает TimeString из time.Time (берёт только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит строку "HH:MM" в TimeString
func NewTimeStringFromString(s string) (TimeString, error) {
	if _, err := time.Parse(timeLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return TimeString(s), nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут с начала суток
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= minutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrDayOverflow, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// Validate проверяет, что значение имеет корректный формат HH:MM
func (t TimeString) Validate() error {
	if _, err := time.Parse(timeLayout, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, string(t))
	}
	return nil
}

// IsZero returns true if the value is empty.
func (t TimeString) IsZero() bool {
	return t == ""
}

// String returns the raw "HH:MM" representation.
func (t TimeString) String() string {
	return string(t)
}

// Minutes возвращает количество минут с начала суток.
// Для некорректного значения возвращает 0.
func (t TimeString) Minutes() int {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return 0
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// AddMinutes возвращает время через m минут.
// Перенос через час обрабатывается, перенос через полночь - ошибка.
func (t TimeString) AddMinutes(m int) (TimeString, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	total := t.Minutes() + m
	return NewTimeStringFromMinutes(total)
}

// IsBefore returns true if t is strictly earlier than other.
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter returns true if t is strictly later than other.
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// Equal returns true if both values denote the same minute of the day.
func (t TimeString) Equal(other TimeString) bool {
	return t.Minutes() == other.Minutes()
}

// SubMinutes возвращает разницу t - other в минутах
func (t TimeString) SubMinutes(other TimeString) int {
	return t.Minutes() - other.Minutes()
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd).
// Интервалы "впритык" (конец одного равен началу другого) НЕ пересекаются.
func Overlaps(aStart, aEnd, bStart, bEnd TimeString) bool {
	return aStart.IsBefore(bEnd) && bStart.IsBefore(aEnd)
}

// At собирает полную метку времени: дата + время дня в указанной локации
func (t TimeString) At(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Minutes()/60, t.Minutes()%60, 0, 0, loc)
}
