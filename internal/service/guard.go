// Package service implements the application's business rules on top of the repositories.
package service

import (
	"context"
	"fmt"

	"socialfeed/internal/models"
	"socialfeed/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// IsOwner reports whether callerID owns an entity whose owner is ownerID.
func IsOwner(ownerID, callerID uint) bool {
	return ownerID != 0 && ownerID == callerID
}

// RequireOwner returns a Forbidden error unless callerID owns the entity.
// It is never NotFound: callers check existence first.
func RequireOwner(ownerID, callerID uint, action string) error {
	if IsOwner(ownerID, callerID) {
		return nil
	}
	return models.NewForbiddenError(fmt.Sprintf("You are not allowed to %s", action))
}

// startSpan opens a service span. The returned func ends it and marks it
// failed when *errp holds an internal error.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	ctx, span := observability.StartSpan(ctx, name, attrs...)
	return ctx, func(errp *error) {
		var failure error
		if errp != nil && *errp != nil && models.StatusFor(*errp) >= 500 {
			failure = *errp
		}
		observability.EndSpan(span, failure)
	}
}

func idAttr(key string, id uint) attribute.KeyValue {
	return attribute.Int64(key, int64(id))
}
