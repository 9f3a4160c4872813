package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/m04kA/SBP-SchedulingService/pkg/metrics"
)

// DB обёртка над *sql.DB, снимающая метрики длительности запросов
// и статистику connection pool
type DB struct {
	db          *sql.DB
	metrics     *metrics.Metrics
	serviceName string
}

const defaultPoolStatsInterval = 15 * time.Second

// Wrap оборачивает *sql.DB и запускает сбор статистики пула
// с указанным интервалом до закрытия stopCh
func Wrap(db *sql.DB, m *metrics.Metrics, serviceName string, interval time.Duration, stopCh <-chan struct{}) *DB {
	wrapped := &DB{
		db:          db,
		metrics:     m,
		serviceName: serviceName,
	}

	go wrapped.collectPoolStats(interval, stopCh)

	return wrapped
}

// WrapWithDefault оборачивает *sql.DB с интервалом сбора статистики по умолчанию
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, serviceName string, stopCh <-chan struct{}) *DB {
	return Wrap(db, m, serviceName, defaultPoolStatsInterval, stopCh)
}

func (d *DB) collectPoolStats(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			stats := d.db.Stats()
			d.metrics.SetDBPoolStats(stats.OpenConnections, stats.InUse, stats.Idle)
		}
	}
}

// queryOperation грубо классифицирует запрос по первому слову (select/insert/update/delete)
func queryOperation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

func (d *DB) observe(query string, start time.Time) {
	d.metrics.ObserveDBQuery(queryOperation(query), time.Since(start).Seconds())
}

// ExecContext выполняет запрос с записью метрики
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	defer d.observe(query, start)
	return d.db.ExecContext(ctx, query, args...)
}

// QueryContext выполняет запрос с записью метрики
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	defer d.observe(query, start)
	return d.db.QueryContext(ctx, query, args...)
}

// QueryRowContext выполняет запрос с записью метрики
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	defer d.observe(query, start)
	return d.db.QueryRowContext(ctx, query, args...)
}

// BeginTx открывает транзакцию. Запросы внутри транзакции идут напрямую
// через *sql.Tx, метрики пула при этом продолжают собираться.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	return d.db.BeginTx(ctx, opts)
}
