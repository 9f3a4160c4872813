package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	catalogstore "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/catalog"
)

type mockCatalogRepo struct {
	service  *domain.SalonService
	promo    *domain.Promotion
	promoErr error
}

func (m *mockCatalogRepo) GetServiceByID(ctx context.Context, id int64) (*domain.SalonService, error) {
	if m.service == nil || m.service.ID != id {
		return nil, catalogstore.ErrServiceNotFound
	}
	return m.service, nil
}

func (m *mockCatalogRepo) GetActivePromotionForService(ctx context.Context, serviceID int64, merchantID int64, date time.Time) (*domain.Promotion, error) {
	if m.promoErr != nil {
		return nil, m.promoErr
	}
	if m.promo == nil {
		return nil, catalogstore.ErrPromotionNotFound
	}
	return m.promo, nil
}

type mockMerchantRepo struct{}

func (m *mockMerchantRepo) GetByID(ctx context.Context, id int64) (*domain.Merchant, error) {
	return &domain.Merchant{ID: id, Timezone: "UTC"}, nil
}

type nopLogger struct{}

func (nopLogger) Debug(format string, args ...any) {}
func (nopLogger) Info(format string, args ...any)  {}
func (nopLogger) Warn(format string, args ...any)  {}
func (nopLogger) Error(format string, args ...any) {}

func newService(promo *domain.Promotion) *Service {
	return NewService(
		&mockCatalogRepo{
			service: &domain.SalonService{
				ID:              30,
				MerchantID:      10,
				Name:            "Стрижка",
				DurationMinutes: 60,
				Price:           250000,
				IsActive:        true,
			},
			promo: promo,
		},
		&mockMerchantRepo{},
		nopLogger{},
	)
}

func TestGetPrice_NoPromotion(t *testing.T) {
	svc := newService(nil)

	resp, err := svc.GetPrice(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, int64(250000), resp.OriginalPrice)
	assert.Equal(t, int64(250000), resp.EffectivePrice)
	assert.False(t, resp.HasPromotion)
	assert.Nil(t, resp.PromotionID)
}

func TestGetPrice_WithPromotion(t *testing.T) {
	svc := newService(&domain.Promotion{
		ID:            5,
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 20,
		IsActive:      true,
	})

	resp, err := svc.GetPrice(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, int64(250000), resp.OriginalPrice)
	assert.Equal(t, int64(200000), resp.EffectivePrice)
	assert.True(t, resp.HasPromotion)
	require.NotNil(t, resp.PromotionID)
	assert.Equal(t, int64(5), *resp.PromotionID)
}

func TestGetPrice_PromotionLookupFailureIsNonFatal(t *testing.T) {
	repo := &mockCatalogRepo{
		service: &domain.SalonService{ID: 30, MerchantID: 10, Name: "Стрижка", Price: 250000},
	}
	repo.promoErr = catalogstore.ErrExecQuery

	svc := NewService(repo, &mockMerchantRepo{}, nopLogger{})

	resp, err := svc.GetPrice(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, int64(250000), resp.EffectivePrice)
	assert.False(t, resp.HasPromotion)
}

func TestGetPrice_NotFound(t *testing.T) {
	svc := newService(nil)

	_, err := svc.GetPrice(context.Background(), 999)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestGetPrice_InvalidID(t *testing.T) {
	svc := newService(nil)

	_, err := svc.GetPrice(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
