package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/catalog"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("pricing: internal error")
)

// CatalogRepository - репозиторий каталога услуг и акций
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, id int64) (*domain.SalonService, error)
	GetActivePromotionForService(ctx context.Context, serviceID int64, merchantID int64, date time.Time) (*domain.Promotion, error)
}

// MerchantRepository - репозиторий мерчантов (нужен для таймзоны)
type MerchantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Merchant, error)
}

// TimeProvider - провайдер текущего времени (для тестов)
type TimeProvider interface {
	Now() time.Time
}

// Logger - интерфейс для логирования
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// RealTimeProvider - боевая реализация TimeProvider
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// PriceResponse итоговая цена услуги с учётом активной акции
type PriceResponse struct {
	ServiceID       int64  `json:"service_id"`
	ServiceName     string `json:"service_name"`
	DurationMinutes int    `json:"duration_minutes"`
	OriginalPrice   int64  `json:"original_price"`  // минорные единицы
	EffectivePrice  int64  `json:"effective_price"` // минорные единицы
	HasPromotion    bool   `json:"has_promotion"`
	PromotionID     *int64 `json:"promotion_id,omitempty"`
}

// Service сервис расчёта цен
type Service struct {
	catalogRepo  CatalogRepository
	merchantRepo MerchantRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса цен
func NewService(catalogRepo CatalogRepository, merchantRepo MerchantRepository, logger Logger) *Service {
	return &Service{
		catalogRepo:  catalogRepo,
		merchantRepo: merchantRepo,
		timeProvider: RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider заменяет провайдер времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetPrice возвращает цену услуги на сегодня с учётом активной акции.
// Из пересекающихся акций побеждает адресная (на конкретную услугу),
// при равенстве - созданная позже. Цена никогда не бывает отрицательной.
func (s *Service) GetPrice(ctx context.Context, serviceID int64) (*PriceResponse, error) {
	if serviceID <= 0 {
		return nil, fmt.Errorf("%w: service_id must be positive", ErrInvalidInput)
	}

	svc, err := s.catalogRepo.GetServiceByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("GetPrice: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetPrice: repository error for service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: GetPrice - repository error: %v", ErrInternal, err)
	}

	today := s.timeProvider.Now()
	if merchant, err := s.merchantRepo.GetByID(ctx, svc.MerchantID); err == nil {
		today = today.In(merchant.Location())
	}

	var promo *domain.Promotion
	p, err := s.catalogRepo.GetActivePromotionForService(ctx, serviceID, svc.MerchantID, today)
	if err == nil {
		promo = p
	} else if !errors.Is(err, catalogRepo.ErrPromotionNotFound) {
		s.logger.Warn("GetPrice: failed to load promotion for service id=%d: %v", serviceID, err)
	}

	quote := domain.QuotePrice(svc.Price, promo)

	resp := &PriceResponse{
		ServiceID:       svc.ID,
		ServiceName:     svc.Name,
		DurationMinutes: svc.DurationMinutes,
		OriginalPrice:   quote.OriginalPrice,
		EffectivePrice:  quote.EffectivePrice,
		HasPromotion:    quote.HasPromotion,
	}
	if quote.HasPromotion {
		resp.PromotionID = &quote.Promotion.ID
	}

	return resp, nil
}
