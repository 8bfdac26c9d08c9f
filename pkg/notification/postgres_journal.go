package notification

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrFailedToApplyMigrations wraps goose failures during Migrate.
var ErrFailedToApplyMigrations = errors.New("failed to apply journal migrations")

// PostgresJournal stores delivery events durably in a Postgres table.
// Call Migrate once at startup to create the schema.
type PostgresJournal struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// PostgresJournalOption configures a PostgresJournal.
type PostgresJournalOption func(*PostgresJournal)

// WithPostgresLogger sets the logger used for migration output.
func WithPostgresLogger(log *slog.Logger) PostgresJournalOption {
	return func(j *PostgresJournal) {
		if log != nil {
			j.log = log
		}
	}
}

// NewPostgresJournal creates a journal backed by the given connection pool.
func NewPostgresJournal(pool *pgxpool.Pool, opts ...PostgresJournalOption) *PostgresJournal {
	j := &PostgresJournal{
		pool: pool,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Migrate applies the embedded schema migrations using goose. The pgx
// pool is bridged to database/sql because goose does not speak pgx
// natively; the wrapper shares the underlying connections.
func (j *PostgresJournal) Migrate(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(j.pool)
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			j.log.ErrorContext(ctx, "failed to close migration connection", slog.Any("error", err))
		}
	}(db)

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseSlogAdapter{log: j.log})

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	return nil
}

// gooseSlogAdapter bridges goose's Printf-style logging to slog.
type gooseSlogAdapter struct {
	log *slog.Logger
}

func (a gooseSlogAdapter) Fatalf(format string, v ...any) {
	a.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (a gooseSlogAdapter) Printf(format string, v ...any) {
	a.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (j *PostgresJournal) Record(ctx context.Context, d Delivery) error {
	if err := normalize(&d); err != nil {
		return err
	}

	const query = `INSERT INTO notifyhub_deliveries
		(id, message_id, channel, destination, recipient_name, recipient_email, recipient_phone, body, outcome, reason, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := j.pool.Exec(ctx, query,
		d.ID, d.MessageID, d.Channel, d.Destination,
		d.Recipient.Name, d.Recipient.Email, d.Recipient.Phone,
		d.Text, string(d.Outcome), d.Reason, d.At,
	)
	if err != nil {
		return errors.Join(ErrJournalUnavailable, err)
	}
	return nil
}

func (j *PostgresJournal) List(ctx context.Context, opts ListOptions) ([]Delivery, error) {
	query := `SELECT id, message_id, channel, destination, recipient_name, recipient_email, recipient_phone, body, outcome, reason, recorded_at
		FROM notifyhub_deliveries`

	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if opts.MessageID != "" {
		add("message_id = $%d", opts.MessageID)
	}
	if opts.Channel != "" {
		add("channel = $%d", opts.Channel)
	}
	if opts.Outcome != "" {
		add("outcome = $%d", string(opts.Outcome))
	}
	if opts.Recipient != "" {
		add("recipient_email = $%d", opts.Recipient)
	}
	if !opts.Since.IsZero() {
		add("recorded_at >= $%d", opts.Since)
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY recorded_at DESC, id"

	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := j.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrJournalUnavailable, err)
	}
	defer rows.Close()

	var deliveries []Delivery
	for rows.Next() {
		var (
			d       Delivery
			outcome string
		)
		if err := rows.Scan(
			&d.ID, &d.MessageID, &d.Channel, &d.Destination,
			&d.Recipient.Name, &d.Recipient.Email, &d.Recipient.Phone,
			&d.Text, &outcome, &d.Reason, &d.At,
		); err != nil {
			return nil, errors.Join(ErrJournalUnavailable, err)
		}
		d.Outcome = Outcome(outcome)
		deliveries = append(deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrJournalUnavailable, err)
	}

	return deliveries, nil
}

func (j *PostgresJournal) Count(ctx context.Context, outcome Outcome) (int, error) {
	var (
		count int64
		err   error
	)
	if outcome == "" {
		err = j.pool.QueryRow(ctx, `SELECT count(*) FROM notifyhub_deliveries`).Scan(&count)
	} else {
		err = j.pool.QueryRow(ctx, `SELECT count(*) FROM notifyhub_deliveries WHERE outcome = $1`, string(outcome)).Scan(&count)
	}
	if err != nil {
		return 0, errors.Join(ErrJournalUnavailable, err)
	}
	return int(count), nil
}

func (j *PostgresJournal) Purge(ctx context.Context, olderThan time.Time) (int, error) {
	tag, err := j.pool.Exec(ctx, `DELETE FROM notifyhub_deliveries WHERE recorded_at < $1`, olderThan)
	if err != nil {
		return 0, errors.Join(ErrJournalUnavailable, err)
	}
	return int(tag.RowsAffected()), nil
}
