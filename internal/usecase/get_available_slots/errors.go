package get_available_slots

import "errors"

var (
	// ErrEmployeeNotFound возвращается, когда сотрудник не найден
	ErrEmployeeNotFound = errors.New("get_available_slots: employee not found")

	// ErrMerchantNotFound возвращается, когда мерчант не найден
	ErrMerchantNotFound = errors.New("get_available_slots: merchant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	// или принадлежит другому мерчанту
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrServiceInactive возвращается, когда услуга выключена в каталоге
	ErrServiceInactive = errors.New("get_available_slots: service is inactive")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
