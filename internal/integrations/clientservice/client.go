package clientservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с сервисом аккаунтов клиентов
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса аккаунтов
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetClient получает контактные данные клиента по ID
func (c *Client) GetClient(ctx context.Context, clientID int64) (*ClientProfile, error) {
	url := fmt.Sprintf("%s/internal/clients/%d", c.baseURL, clientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid client ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrClientNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var profile ClientProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &profile, nil
}

// GetClientWithGracefulDegradation получает контакт клиента с graceful
// degradation. При недоступности сервиса аккаунтов возвращает
// ErrServiceDegraded - бронирование продолжится с контактными данными
// из запроса.
func (c *Client) GetClientWithGracefulDegradation(ctx context.Context, clientID int64) (*ClientProfile, error) {
	c.log.Info("Fetching client profile for client_id=%d", clientID)

	profile, err := c.GetClient(ctx, clientID)
	if err != nil {
		// Критичная бизнес-ошибка - клиента не существует,
		// пробрасываем её дальше
		if err == ErrClientNotFound {
			c.log.Info("Client profile not found for client_id=%d", clientID)
			return nil, err
		}

		// Для всех остальных ошибок (недоступность сервиса, timeout, ошибки
		// парсинга) применяем graceful degradation.
		// Уровень ERROR, чтобы быстрее заметить проблему.
		c.log.Error("ClientService unavailable, applying graceful degradation for client_id=%d: %v", clientID, err)
		return nil, fmt.Errorf("%w: client_id=%d, error=%v", ErrServiceDegraded, clientID, err)
	}

	c.log.Info("Successfully fetched client profile for client_id=%d", clientID)
	return profile, nil
}
