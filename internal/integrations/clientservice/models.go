package clientservice

// ClientProfile контактные данные клиента из сервиса аккаунтов.
// Снимаются в снапшот записи в момент бронирования.
type ClientProfile struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Email *string `json:"email,omitempty"`
}

// ErrorResponse модель ошибки от сервиса аккаунтов
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
