package clientservice

import "errors"

var (
	// ErrClientNotFound возвращается, когда клиент не найден в сервисе аккаунтов
	ErrClientNotFound = errors.New("client not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("clientservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("clientservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation.
	// Указывает, что сервис аккаунтов недоступен и следует использовать
	// контактные данные из запроса.
	ErrServiceDegraded = errors.New("clientservice unavailable: graceful degradation applied")
)
