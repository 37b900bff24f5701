package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"feedlake/internal/domain"
)

// Execer runs a statement against the metastore. *sql.DB and *sql.Conn
// satisfy it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// HistoryRecorder persists generated statements.
type HistoryRecorder interface {
	Insert(ctx context.Context, rec *domain.DDLRecord) error
}

// Registrar submits plans and records every statement in the DDL history.
//
// The feedlake command builds it without an Execer, so its records are all
// planned. Embedding programs pass a metastore connection (any *sql.DB with
// a Hive driver) to get applied and failed records, optionally throttled
// with WithStatementRate.
type Registrar struct {
	exec    Execer
	history HistoryRecorder
	logger  *slog.Logger
	limiter *rate.Limiter
	now     func() time.Time
}

// RegistrarOption configures a Registrar.
type RegistrarOption func(*Registrar)

// WithStatementRate caps executor submissions at perSecond statements per
// second with the given burst. Recording-only registrars ignore it.
func WithStatementRate(perSecond float64, burst int) RegistrarOption {
	return func(r *Registrar) {
		if perSecond > 0 {
			r.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
		}
	}
}

// NewRegistrar creates a Registrar. A nil exec only records statements as
// planned.
func NewRegistrar(exec Execer, history HistoryRecorder, logger *slog.Logger, opts ...RegistrarOption) *Registrar {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registrar{exec: exec, history: history, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register processes the statements of plan in order and returns the
// recorded history entries. The first executor failure is recorded as failed
// and stops the run; later statements are not recorded.
func (r *Registrar) Register(ctx context.Context, plan *Plan) ([]domain.DDLRecord, error) {
	records := make([]domain.DDLRecord, 0, len(plan.Statements))
	for _, s := range plan.Statements {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		rec := domain.DDLRecord{
			PlanID:    plan.ID,
			Category:  plan.Category,
			Feed:      plan.Feed,
			Role:      s.RoleName,
			TableName: s.TableName,
			Statement: s.Statement,
			Status:    domain.DDLStatusPlanned,
			CreatedAt: r.now().UTC(),
		}

		var execErr error
		if r.exec != nil {
			if r.limiter != nil {
				if err := r.limiter.Wait(ctx); err != nil {
					return records, err
				}
			}
			if _, execErr = r.exec.ExecContext(ctx, s.Statement); execErr != nil {
				msg := execErr.Error()
				rec.Status = domain.DDLStatusFailed
				rec.Error = &msg
			} else {
				rec.Status = domain.DDLStatusApplied
			}
		}

		if err := r.history.Insert(ctx, &rec); err != nil {
			return records, fmt.Errorf("record %s: %w", s.QualifiedName, err)
		}
		records = append(records, rec)

		if execErr != nil {
			r.logger.Error("table registration failed",
				"plan_id", plan.ID, "table", s.QualifiedName, "error", execErr)
			return records, fmt.Errorf("create %s: %w", s.QualifiedName, execErr)
		}
		r.logger.Info("table registered",
			"plan_id", plan.ID, "table", s.QualifiedName, "status", rec.Status)
	}
	return records, nil
}
