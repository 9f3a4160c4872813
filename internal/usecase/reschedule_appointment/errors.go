package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrAlreadyFinished возвращается при попытке перенести запись
	// в терминальном статусе
	ErrAlreadyFinished = errors.New("reschedule_appointment: appointment is already finished")

	// ErrNoticeTooShort возвращается, когда клиент нарушает минимальный
	// срок переноса из политики мерчанта
	ErrNoticeTooShort = errors.New("reschedule_appointment: reschedule notice period violated")

	// ErrAccessDenied возвращается, когда инициатор не имеет прав на запись
	ErrAccessDenied = errors.New("reschedule_appointment: access denied")

	// ErrSlotUnavailable возвращается, когда новый слот вне рабочего графика
	ErrSlotUnavailable = errors.New("reschedule_appointment: new slot is not available")

	// ErrSlotConflict возвращается, когда новый слот пересекается с другой
	// активной записью
	ErrSlotConflict = errors.New("reschedule_appointment: new slot conflicts with another appointment")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
