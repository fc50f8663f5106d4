package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

// SQLSTATE codes the repositories classify.
const (
	pgUniqueViolation = "23505"
)

// DBTX is the subset of pgxpool.Pool and pgx.Tx the repositories need.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// classify turns a driver error into a typed store fault.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var fault *apperrors.StoreFault
	if errors.As(err, &fault) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) || pgxscan.NotFound(err) {
		return apperrors.NewStoreFault(apperrors.FaultRecordNotFound, "", err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolation {
			return apperrors.NewStoreFault(apperrors.FaultUniqueViolation, pgErr.Code, err)
		}
		return apperrors.NewStoreFault(apperrors.FaultUnknown, pgErr.Code, err)
	}
	return apperrors.NewStoreFault(apperrors.FaultUnknown, "", err)
}

// IsNotFound reports whether err is a record-not-found fault.
func IsNotFound(err error) bool {
	var fault *apperrors.StoreFault
	return errors.As(err, &fault) && fault.Kind == apperrors.FaultRecordNotFound
}

func notFound() error {
	return apperrors.NewStoreFault(apperrors.FaultRecordNotFound, "", pgx.ErrNoRows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching search literally anywhere in the
// column. Queries using it must declare ESCAPE '\'.
func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}
