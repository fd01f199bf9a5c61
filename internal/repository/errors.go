package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"log/slog"
	"net"
	"strings"

	"socialfeed/internal/middleware"
	"socialfeed/internal/models"
	"socialfeed/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Store failure categories, used as metric labels.
const (
	categoryConstraint   = "constraint"
	categoryConnectivity = "connectivity"
	categoryUnknown      = "unknown"
)

const (
	pgUniqueViolation = "23505"
	// SQLSTATE class 23: integrity constraint violation
	pgIntegrityClass = "23"
)

// classifyError converts a store error into an AppError. Unique violations
// become Conflict; every other failure is an internal error tagged with its
// category, logged and reported.
func classifyError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if isUniqueViolation(err) {
		return models.NewConflictError("Resource already exists").WithReason(models.ReasonDuplicate)
	}

	category, reason := categoryUnknown, models.ReasonStoreUnknown
	switch {
	case isConstraintViolation(err):
		category, reason = categoryConstraint, models.ReasonStoreConstraint
	case isConnectivityError(err):
		category, reason = categoryConnectivity, models.ReasonStoreUnavailable
	}

	middleware.Logger.ErrorContext(ctx, "Store operation failed",
		slog.String("operation", op),
		slog.String("category", category),
		slog.String("error", err.Error()),
	)
	observability.ReportStoreFailure(ctx, category, err)
	return models.NewInternalError(err).WithReason(reason)
}

// notFoundOr maps gorm.ErrRecordNotFound to a NotFound error and classifies anything else.
func notFoundOr(ctx context.Context, op string, err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return classifyError(ctx, op, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint failed")
}

func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, pgIntegrityClass)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "constraint failed")
}

func isConnectivityError(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}
