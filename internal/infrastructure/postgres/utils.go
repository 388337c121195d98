package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registra el dialecto
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx; los repositorios funcionan igual dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// dialect construye los listados con filtros opcionales. Siempre en modo Prepared ($1, $2...).
var dialect = goqu.Dialect("postgres")

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isRetryable fallos de concurrencia que se resuelven repitiendo la transacción completa:
// 40001 serialization_failure y 40P01 deadlock_detected.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// countAndList ejecuta el conteo total y la página de un listado construido con goqu.
func countAndList(ctx context.Context, q Querier, base *goqu.SelectDataset, page *goqu.SelectDataset) (pgx.Rows, int, error) {
	countSQL, countArgs, err := base.Select(goqu.COUNT(goqu.Star())).Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	pageSQL, pageArgs, err := page.Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	rows, err := q.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
