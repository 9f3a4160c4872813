package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Default engine values
const (
	DefaultSlotGranularityMinutes = 30
	DefaultTimezone               = "UTC"
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 часов
	MaxReasonLength           = 500
	MaxClientNameLength       = 200
	MaxClientPhoneLength      = 32
)

// AllowedPolicyHours допустимые значения политики отмены в часах.
// 0 означает отсутствие ограничения по времени.
var AllowedPolicyHours = []int{0, 2, 12, 24}
