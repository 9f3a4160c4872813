package penalty

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/m04kA/SBP-SchedulingService/internal/domain"
	"github.com/m04kA/SBP-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SBP-SchedulingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий штрафов за отмену
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория штрафов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает штраф. Вызывается в одной транзакции с отменой записи:
// отмена со штрафом либо фиксируется целиком, либо не фиксируется вовсе.
func (r *Repository) Create(ctx context.Context, p *domain.Penalty) (*domain.Penalty, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("penalties").
		Columns(
			"reference",
			"merchant_id",
			"client_id",
			"client_phone",
			"appointment_id",
			"amount",
			"reason",
			"status",
		).
		Values(
			p.Reference,
			p.MerchantID,
			p.ClientID,
			p.ClientPhone,
			p.AppointmentID,
			p.Amount,
			p.Reason,
			p.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}
