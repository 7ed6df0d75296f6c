package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
	"github.com/comitanigiacomo/kanso-dashboard/pkg/metrics"
)

var _ domain.TableRepository = (*PostgresTableRepository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS habit_columns (
	name     TEXT PRIMARY KEY,
	position INT  NOT NULL
);

CREATE TABLE IF NOT EXISTS habit_records (
	person      TEXT        NOT NULL,
	record_date DATE        NOT NULL,
	habit       TEXT        NOT NULL REFERENCES habit_columns (name) ON DELETE CASCADE,
	value       INT         NOT NULL DEFAULT 0,
	seq         INT         NOT NULL,
	imported_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (person, record_date, habit)
);`

// PostgresTableRepository stores the habit log in long format: one row per
// (person, date, habit). seq keeps the row order of the imported file.
type PostgresTableRepository struct {
	db *sqlx.DB
}

func NewPostgresTableRepository(db *sqlx.DB) *PostgresTableRepository {
	return &PostgresTableRepository{db: db}
}

type habitRecordRow struct {
	Person     string    `db:"person"`
	RecordDate time.Time `db:"record_date"`
	Habit      string    `db:"habit"`
	Value      int       `db:"value"`
	Seq        int       `db:"seq"`
	ImportedAt time.Time `db:"imported_at"`
}

func (r *PostgresTableRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("repository: ensure schema failed: %w", err)
	}
	return nil
}

func (r *PostgresTableRepository) Version(ctx context.Context) (string, error) {
	var stats struct {
		Records    int64     `db:"records"`
		LastImport time.Time `db:"last_import"`
	}

	query := `
		SELECT count(*) AS records,
		       COALESCE(max(imported_at), 'epoch'::timestamptz) AS last_import
		FROM habit_records`

	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	return fmt.Sprintf("pg:%d:%d", stats.Records, stats.LastImport.UnixNano()), nil
}

func (r *PostgresTableRepository) Load(ctx context.Context) (*domain.Table, error) {
	start := time.Now()

	table, err := r.load(ctx)
	if err != nil {
		metrics.RecordTableLoad("postgres", "error")
		return nil, err
	}

	metrics.RecordTableLoad("postgres", "ok")
	metrics.RecordTableLoadDuration(float64(time.Since(start).Milliseconds()))
	metrics.UpdateTableRecords(len(table.Records))
	return table, nil
}

func (r *PostgresTableRepository) load(ctx context.Context) (*domain.Table, error) {
	habits := []string{}
	if err := r.db.SelectContext(ctx, &habits, `SELECT name FROM habit_columns ORDER BY position`); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	rows := []habitRecordRow{}
	query := `
		SELECT person, record_date, habit, value, seq, imported_at
		FROM habit_records
		ORDER BY seq ASC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	return pivotRows(habits, rows)
}

// pivotRows turns long-format rows back into one record per (person, date).
func pivotRows(habits []string, rows []habitRecordRow) (*domain.Table, error) {
	position := make(map[string]int, len(habits))
	for i, h := range habits {
		position[h] = i
	}

	type key struct {
		person string
		date   string
	}
	index := make(map[key]int)
	var records []domain.HabitRecord

	for _, row := range rows {
		col, ok := position[row.Habit]
		if !ok {
			return nil, &domain.MalformedInputError{Column: row.Habit, Reason: "value for unknown habit"}
		}

		date := domain.DateOnly(row.RecordDate)
		k := key{person: row.Person, date: date.Format(domain.DateLayout)}
		i, ok := index[k]
		if !ok {
			i = len(records)
			index[k] = i
			records = append(records, domain.HabitRecord{
				Person: row.Person,
				Date:   date,
				Values: make([]int, len(habits)),
			})
		}
		records[i].Values[col] = row.Value
	}

	return domain.NewTable(habits, records)
}

// Import replaces the stored table with table. Habit column positions follow the
// table order and rows or habits missing from table are removed.
func (r *PostgresTableRepository) Import(ctx context.Context, table *domain.Table) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_records`); err != nil {
		return 0, mapPostgresError(err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_columns`); err != nil {
		return 0, mapPostgresError(err)
	}

	for i, h := range table.Habits {
		_, err := tx.ExecContext(ctx, `INSERT INTO habit_columns (name, position) VALUES ($1, $2)`, h, i)
		if err != nil {
			return 0, mapPostgresError(err)
		}
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO habit_records (person, record_date, habit, value, seq, imported_at)
		VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	written := 0
	for seq, rec := range table.Records {
		for col, h := range table.Habits {
			if _, err := stmt.ExecContext(ctx, rec.Person, rec.Date, h, rec.Value(col), seq, now); err != nil {
				return 0, mapPostgresError(err)
			}
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return written, nil
}

func mapPostgresError(err error) error {
	switch postgresErrorCode(err) {
	case "23503":
		return &domain.MalformedInputError{Reason: "record references a habit column that does not exist"}
	case "23505":
		return &domain.MalformedInputError{Reason: "duplicate record"}
	}
	return err
}

func postgresErrorCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
