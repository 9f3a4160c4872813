package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	"github.com/m04kA/SBP-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SBP-SchedulingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий каталога услуг и акций
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetServiceByID получает услугу по ID
func (r *Repository) GetServiceByID(ctx context.Context, id int64) (*domain.SalonService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"merchant_id",
		"name",
		"duration_minutes",
		"price",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.SalonService
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.MerchantID,
		&s.Name,
		&s.DurationMinutes,
		&s.Price,
		&s.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - scan service: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// GetActivePromotionForService получает действующую акцию для услуги
// на указанную дату. К услуге применяется не более одной акции:
// при нескольких подходящих берётся самая свежая.
// Акции на конкретную услугу имеют приоритет над акциями на весь салон.
func (r *Repository) GetActivePromotionForService(ctx context.Context, serviceID int64, merchantID int64, date time.Time) (*domain.Promotion, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	query, args, err := psqlbuilder.Select(
		"id",
		"merchant_id",
		"service_id",
		"discount_type",
		"discount_value",
		"start_date",
		"end_date",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("promotions").
		Where(squirrel.Eq{"merchant_id": merchantID}).
		Where(squirrel.Or{
			squirrel.Eq{"service_id": serviceID},
			squirrel.Eq{"service_id": nil},
		}).
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.LtOrEq{"start_date": day}).
		Where(squirrel.GtOrEq{"end_date": day}).
		OrderBy("service_id ASC NULLS LAST, created_at DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActivePromotionForService - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.Promotion
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.MerchantID,
		&p.ServiceID,
		&p.DiscountType,
		&p.DiscountValue,
		&p.StartDate,
		&p.EndDate,
		&p.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPromotionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActivePromotionForService - scan promotion: %v", ErrScanRow, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}
