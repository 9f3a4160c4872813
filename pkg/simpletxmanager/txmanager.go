package simpletxmanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/m04kA/SBP-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SBP-SchedulingService/pkg/txmanager"
)

const defaultSerializableAttempts = 3

// TransactionManager менеджер транзакций поверх чистого *sql.DB
// (без обёртки метрик). Используется, когда метрики выключены.
type TransactionManager struct {
	db       *sql.DB
	attempts int
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db *sql.DB) *TransactionManager {
	return &TransactionManager{db: db, attempts: defaultSerializableAttempts}
}

// WithAttempts задаёт число попыток сериализуемых транзакций.
// Значения меньше единицы игнорируются.
func (m *TransactionManager) WithAttempts(attempts int) *TransactionManager {
	if attempts > 0 {
		m.attempts = attempts
	}
	return m
}

// Do выполняет fn в обычной транзакции
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции с повтором
// при конфликте сериализации
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= m.attempts; attempt++ {
		err := m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
		if err == nil {
			return nil
		}

		if !txmanager.IsRetryable(err) {
			return err
		}

		lastErr = err
	}

	return fmt.Errorf("%w: %d serializable attempts exhausted: %v", txmanager.ErrTxConflict, m.attempts, lastErr)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", txmanager.ErrTxFailed, err)
	}

	txCtx := dbmetrics.WithTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w: rollback after %v: %v", txmanager.ErrTxFailed, err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", txmanager.ErrTxFailed, err)
	}

	return nil
}
