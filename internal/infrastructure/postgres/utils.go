package postgres

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventory-tracker/internal/domain"
)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx; permite usar el mismo repo con o sin transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Classify traduce errores de pgx/PostgreSQL a la taxonomía del dominio.
func Classify(err error) domain.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.KindUnavailable
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42501", strings.HasPrefix(pgErr.Code, "28"): // insufficient_privilege, invalid_authorization
			return domain.KindPermissionDenied
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P"), pgErr.Code == "53300":
			return domain.KindUnavailable
		case pgErr.Code == "40001", pgErr.Code == "40P01": // serialization_failure, deadlock
			return domain.KindUnavailable
		}
		return domain.KindUnknown
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return domain.KindUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.KindUnavailable
	}
	return domain.KindUnknown
}

func wrap(op, key string, err error) error {
	return domain.NewStoreError(op, key, Classify(err), err)
}
