package schedule

import "errors"

var (
	// ErrMerchantNotFound возвращается, когда мерчант не найден
	ErrMerchantNotFound = errors.New("merchant not found")

	// ErrEmployeeNotFound возвращается, когда сотрудник не найден
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrDayOffExists возвращается, когда выходной на эту дату уже есть
	ErrDayOffExists = errors.New("day off already exists")

	// ErrAccessDenied возвращается, когда у инициатора нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule: internal error")
)
