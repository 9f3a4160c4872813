package create_appointment

import "errors"

var (
	// ErrEmployeeNotFound возвращается, когда сотрудник не найден
	ErrEmployeeNotFound = errors.New("create_appointment: employee not found")

	// ErrMerchantNotFound возвращается, когда мерчант не найден
	ErrMerchantNotFound = errors.New("create_appointment: merchant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	// или принадлежит другому мерчанту
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrServiceInactive возвращается, когда услуга выключена в каталоге
	ErrServiceInactive = errors.New("create_appointment: service is inactive")

	// ErrClientNotFound возвращается, когда клиент не найден в сервисе аккаунтов
	ErrClientNotFound = errors.New("create_appointment: client not found")

	// ErrSlotUnavailable возвращается, когда слот вне рабочего графика:
	// нерабочий день, day-off, перерыв, закрытый салон или слишком
	// поздняя попытка записи
	ErrSlotUnavailable = errors.New("create_appointment: slot is not available")

	// ErrSlotConflict возвращается, когда слот пересекается с другой
	// активной записью
	ErrSlotConflict = errors.New("create_appointment: slot conflicts with another appointment")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
