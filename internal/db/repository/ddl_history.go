package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"feedlake/internal/domain"
)

const ddlHistoryColumns = `id, plan_id, category, feed, role, table_name, statement, status, error, created_at`

// createdAtLayout is fixed-width so that created_at sorts chronologically as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

// DDLHistoryRepo stores generated statements in the ddl_history table.
type DDLHistoryRepo struct {
	db *sql.DB
}

// NewDDLHistoryRepo creates a repository over a migrated history database.
func NewDDLHistoryRepo(db *sql.DB) *DDLHistoryRepo {
	return &DDLHistoryRepo{db: db}
}

// Insert records r. A missing ID or CreatedAt is filled in.
func (r *DDLHistoryRepo) Insert(ctx context.Context, rec *domain.DDLRecord) error {
	if rec.ID == "" {
		rec.ID = domain.NewID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ddl_history (`+ddlHistoryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.PlanID, rec.Category, rec.Feed, rec.Role, rec.TableName,
		rec.Statement, string(rec.Status), nullableString(rec.Error),
		rec.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return fmt.Errorf("insert ddl history: %w", err)
	}
	return nil
}

// List returns records matching filter, newest first.
func (r *DDLHistoryRepo) List(ctx context.Context, filter domain.DDLFilter) ([]domain.DDLRecord, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Feed != "" {
		where = append(where, "feed = ?")
		args = append(args, filter.Feed)
	}
	if filter.Role != "" {
		where = append(where, "role = ?")
		args = append(args, filter.Role)
	}

	query := `SELECT ` + ddlHistoryColumns + ` FROM ddl_history`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, filter.EffectiveLimit())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ddl history: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.DDLRecord
	for rows.Next() {
		rec, err := scanDDLRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// ListByPlan returns the records of one plan in insertion order.
func (r *DDLHistoryRepo) ListByPlan(ctx context.Context, planID string) ([]domain.DDLRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ddlHistoryColumns+` FROM ddl_history WHERE plan_id = ? ORDER BY created_at, rowid`, planID)
	if err != nil {
		return nil, fmt.Errorf("list plan history: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.DDLRecord
	for rows.Next() {
		rec, err := scanDDLRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Latest returns the newest record for one table of a feed.
func (r *DDLHistoryRepo) Latest(ctx context.Context, category, feed, role string) (*domain.DDLRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+ddlHistoryColumns+` FROM ddl_history
		 WHERE category = ? AND feed = ? AND role = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		category, feed, role)
	rec, err := scanDDLRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("no ddl recorded for %s.%s (%s)", category, feed, role)
	}
	return rec, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDDLRecord(s rowScanner) (*domain.DDLRecord, error) {
	var (
		rec       domain.DDLRecord
		status    string
		errText   sql.NullString
		createdAt string
	)
	if err := s.Scan(&rec.ID, &rec.PlanID, &rec.Category, &rec.Feed, &rec.Role, &rec.TableName,
		&rec.Statement, &status, &errText, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan ddl history: %w", err)
	}
	rec.Status = domain.DDLStatus(status)
	if errText.Valid {
		rec.Error = &errText.String
	}
	t, err := time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	rec.CreatedAt = t
	return &rec, nil
}

func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
