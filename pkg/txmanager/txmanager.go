package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SBP-SchedulingService/pkg/dbmetrics"
)

// Количество попыток для сериализуемых транзакций.
// SERIALIZABLE транзакции в PostgreSQL могут завершаться ошибкой
// serialization_failure при конкурентном доступе - такие транзакции
// безопасно повторить.
const defaultSerializableAttempts = 3

// Коды ошибок PostgreSQL, при которых транзакцию можно повторить
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// ErrTxFailed возвращается, когда транзакция не может быть выполнена
var ErrTxFailed = errors.New("txmanager: transaction failed")

// ErrTxConflict возвращается, когда SERIALIZABLE транзакция не прошла
// за отведённое число попыток из-за конкурентного доступа.
// Вызывающий трактует это как проигранную борьбу за слот, не как сбой.
var ErrTxConflict = errors.New("txmanager: serialization conflict")

// TransactionManager управляет транзакциями поверх *dbmetrics.DB
type TransactionManager struct {
	db       *dbmetrics.DB
	attempts int
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db *dbmetrics.DB) *TransactionManager {
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

// Do выполняет fn в обычной транзакции (READ COMMITTED)
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции с повтором
// при serialization_failure / deadlock_detected.
// Используется для check-and-reserve при создании записи на слот:
// конкурирующие транзакции не могут одновременно пройти проверку
// конфликтов и вставить пересекающиеся записи.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= m.attempts; attempt++ {
		err := m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
		if err == nil {
			return nil
		}

		if !IsRetryable(err) {
			return err
		}

		lastErr = err
	}

	return fmt.Errorf("%w: %d serializable attempts exhausted: %v", ErrTxConflict, m.attempts, lastErr)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTxFailed, err)
	}

	txCtx := dbmetrics.WithTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w: rollback after %v: %v", ErrTxFailed, err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrTxFailed, err)
	}

	return nil
}

// IsRetryable проверяет, что ошибка - конфликт сериализации или deadlock,
// при которых транзакцию имеет смысл повторить
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqSerializationFailure || string(pqErr.Code) == pqDeadlockDetected
	}
	return false
}
