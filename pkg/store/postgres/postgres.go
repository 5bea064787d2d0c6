// Package postgres implements the store on PostgreSQL for multi-device
// deployments. Batch writes go through a single database transaction and
// upsert on the record ID.
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/financeflow/financeflow/pkg/api"
	"github.com/financeflow/financeflow/pkg/store"
)

//go:embed 001_create_tables.sql
var migrationSQL string

// Config holds the PostgreSQL store configuration.
type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string

	// MaxPoolSize is the maximum number of connections in the pool.
	MaxPoolSize int
}

// Store persists transactions and bills in PostgreSQL.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New connects to the database and runs migrations.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Port == 0 {
		cfg.Port = 5432
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	if cfg.MaxPoolSize == 0 {
		cfg.MaxPoolSize = 10
	}

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxPoolSize)
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.Info("connected to PostgreSQL",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Database,
	)

	s := &Store{pool: pool, logger: logger}
	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *Store) runMigrations(ctx context.Context) error {
	s.logger.Info("running database migrations")
	if _, err := s.pool.Exec(ctx, migrationSQL); err != nil {
		return fmt.Errorf("executing migration: %w", err)
	}
	return nil
}

const upsertTransaction = `
	INSERT INTO transactions (
		id, type, amount, category, description, date, created_at, source, merchant, account
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE SET
		type = EXCLUDED.type,
		amount = EXCLUDED.amount,
		category = EXCLUDED.category,
		description = EXCLUDED.description,
		date = EXCLUDED.date,
		source = EXCLUDED.source,
		merchant = EXCLUDED.merchant,
		account = EXCLUDED.account,
		updated_at = NOW()
`

// AddTransaction persists a transaction, assigning ID and CreatedAt when empty.
func (s *Store) AddTransaction(ctx context.Context, t *api.Transaction) error {
	store.StampTransaction(t)

	_, err := s.pool.Exec(ctx, upsertTransaction,
		t.ID, string(t.Kind), t.Amount, t.Category, t.Description,
		parseDate(t.Date), parseTimestamp(t.CreatedAt, s.logger), t.Source, t.Merchant, t.Account,
	)
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}
	return nil
}

// AddTransactions writes a batch in one database transaction, retrying once
// on transient failure before giving up.
func (s *Store) AddTransactions(ctx context.Context, ts []*api.Transaction) error {
	if len(ts) == 0 {
		return nil
	}
	for _, t := range ts {
		store.StampTransaction(t)
	}

	return retry.Do(
		func() error { return s.writeBatch(ctx, ts) },
		retry.Attempts(2),
		retry.Delay(2*time.Second),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
}

func (s *Store) writeBatch(ctx context.Context, ts []*api.Transaction) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, t := range ts {
		batch.Queue(upsertTransaction,
			t.ID, string(t.Kind), t.Amount, t.Category, t.Description,
			parseDate(t.Date), parseTimestamp(t.CreatedAt, s.logger), t.Source, t.Merchant, t.Account,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < len(ts); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("inserting transaction %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("closing batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Info("wrote transaction batch", "count", len(ts))
	return nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]*api.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, type, amount, category, description, date, created_at, source, merchant, account
		FROM transactions ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var out []*api.Transaction
	for rows.Next() {
		var t api.Transaction
		var kind string
		var date, createdAt time.Time
		if err := rows.Scan(&t.ID, &kind, &t.Amount, &t.Category, &t.Description,
			&date, &createdAt, &t.Source, &t.Merchant, &t.Account); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		t.Kind = api.Kind(kind)
		t.Date = date.Format("2006-01-02")
		t.CreatedAt = createdAt.Format(time.RFC3339)
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTransaction(ctx context.Context, t *api.Transaction) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE transactions
		SET type = $1, amount = $2, category = $3, description = $4, date = $5,
			source = $6, merchant = $7, account = $8, updated_at = NOW()
		WHERE id = $9
	`, string(t.Kind), t.Amount, t.Category, t.Description, parseDate(t.Date),
		t.Source, t.Merchant, t.Account, t.ID)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// AddBill persists a bill, assigning ID and CreatedAt when empty.
func (s *Store) AddBill(ctx context.Context, b *api.Bill) error {
	store.StampBill(b)

	_, err := s.pool.Exec(ctx, `
		INSERT INTO bills (id, name, amount, due_date, category, is_paid, is_recurring, frequency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			amount = EXCLUDED.amount,
			due_date = EXCLUDED.due_date,
			category = EXCLUDED.category,
			is_paid = EXCLUDED.is_paid,
			is_recurring = EXCLUDED.is_recurring,
			frequency = EXCLUDED.frequency
	`, b.ID, b.Name, b.Amount, parseDate(b.DueDate), b.Category, b.Paid, b.Recurring,
		b.Frequency, parseTimestamp(b.CreatedAt, s.logger))
	if err != nil {
		return fmt.Errorf("inserting bill: %w", err)
	}
	return nil
}

func (s *Store) ListBills(ctx context.Context) ([]*api.Bill, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, amount, due_date, category, is_paid, is_recurring, frequency, created_at
		FROM bills ORDER BY due_date
	`)
	if err != nil {
		return nil, fmt.Errorf("querying bills: %w", err)
	}
	defer rows.Close()

	var out []*api.Bill
	for rows.Next() {
		var b api.Bill
		var dueDate, createdAt time.Time
		var freq *string
		if err := rows.Scan(&b.ID, &b.Name, &b.Amount, &dueDate, &b.Category,
			&b.Paid, &b.Recurring, &freq, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning bill: %w", err)
		}
		b.DueDate = dueDate.Format("2006-01-02")
		b.CreatedAt = createdAt.Format(time.RFC3339)
		if freq != nil {
			f := api.Frequency(*freq)
			b.Frequency = &f
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (s *Store) UpdateBill(ctx context.Context, b *api.Bill) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE bills
		SET name = $1, amount = $2, due_date = $3, category = $4, is_paid = $5, is_recurring = $6, frequency = $7
		WHERE id = $8
	`, b.Name, b.Amount, parseDate(b.DueDate), b.Category, b.Paid, b.Recurring, b.Frequency, b.ID)
	if err != nil {
		return fmt.Errorf("updating bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteBill(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SetBillPaid flips the paid flag on a bill.
func (s *Store) SetBillPaid(ctx context.Context, id string, paid bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE bills SET is_paid = $1 WHERE id = $2`, paid, id)
	if err != nil {
		return fmt.Errorf("updating bill paid flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
		s.logger.Info("closed PostgreSQL connection pool")
	}
	return nil
}

func parseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Now()
	}
	return t
}

func parseTimestamp(s string, logger *slog.Logger) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		logger.Warn("invalid timestamp format, using current time", "timestamp", s, "error", err)
		return time.Now()
	}
	return t
}
