package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	driver "github.com/go-sql-driver/mysql"

	"wanderplan/internal/domain"
)

// NormalizeDSN forces the driver options the repo scans depend on: DATETIME columns come back as
// time.Time in UTC whatever the operator's DSN says.
func NormalizeDSN(dsn string) (string, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Repo is the audit sink for generation outcomes. It stores metadata only; itinerary
// content is never written.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Migrate creates the outcomes table if it does not exist.
func (r *Repo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createOutcomesSQL)
	return err
}

func (r *Repo) RecordOutcome(ctx context.Context, o domain.Outcome) error {
	created := o.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, insertOutcomeSQL,
		o.ID,
		o.Provider,
		string(o.Tier),
		string(o.Source),
		valStr(string(o.Failure)),
		o.Duration.Milliseconds(),
		created,
	)
	return err
}

// CountBySource tallies outcomes per source since the cutoff.
func (r *Repo) CountBySource(ctx context.Context, since time.Time) (map[domain.Source]int64, error) {
	rows, err := r.db.QueryContext(ctx, countBySourceSQL, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[domain.Source]int64{}
	for rows.Next() {
		var src string
		var n int64
		if err := rows.Scan(&src, &n); err != nil {
			return nil, err
		}
		out[domain.Source(src)] = n
	}
	return out, rows.Err()
}

func (r *Repo) Recent(ctx context.Context, limit int) ([]domain.Outcome, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, recentOutcomesSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Outcome
	for rows.Next() {
		var o domain.Outcome
		var tier, src string
		var failure sql.NullString
		var ms int64
		if err := rows.Scan(&o.ID, &o.Provider, &tier, &src, &failure, &ms, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Tier = domain.BudgetTier(tier)
		o.Source = domain.Source(src)
		if failure.Valid {
			o.Failure = domain.FailureKind(failure.String)
		}
		o.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, o)
	}
	return out, rows.Err()
}
