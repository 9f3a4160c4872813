package cancel_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("cancel_appointment: appointment not found")

	// ErrAlreadyFinished возвращается при попытке отменить запись
	// в терминальном статусе
	ErrAlreadyFinished = errors.New("cancel_appointment: appointment is already finished")

	// ErrNoticeTooShort возвращается, когда клиент нарушает минимальный
	// срок отмены, а штрафы у мерчанта выключены
	ErrNoticeTooShort = errors.New("cancel_appointment: cancellation notice period violated")

	// ErrAccessDenied возвращается, когда инициатор не имеет прав на запись
	ErrAccessDenied = errors.New("cancel_appointment: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_appointment: internal error")
)
