package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad"), fiber.StatusBadRequest},
		{"not found", NewNotFoundError("Post", 1), fiber.StatusNotFound},
		{"forbidden", NewForbiddenError("nope"), fiber.StatusForbidden},
		{"conflict", NewConflictError("dup"), fiber.StatusConflict},
		{"unauthorized", NewUnauthorizedError("who"), fiber.StatusUnauthorized},
		{"internal", NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", NewConflictError("dup")), fiber.StatusConflict},
		{"plain", errors.New("plain"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestWithReason_DoesNotMutateOriginal(t *testing.T) {
	t.Parallel()
	base := NewConflictError("Cannot like post")
	withReason := base.WithReason(ReasonAlreadyLiked)

	assert.Empty(t, base.Reason)
	assert.Equal(t, ReasonAlreadyLiked, withReason.Reason)
	assert.True(t, HasCode(withReason, CodeConflict))
}

func TestRespondWithError_HidesInternalDetails(t *testing.T) {
	app := fiber.New()
	app.Get("/internal", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError,
			NewInternalError(errors.New("pq: password authentication failed")))
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError, errors.New("raw driver error"))
	})
	app.Get("/forbidden", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusForbidden,
			NewForbiddenError("You can only delete your own posts").WithReason(ReasonOwnPost))
	})

	decode := func(t *testing.T, path string) (int, ErrorResponse) {
		t.Helper()
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var out ErrorResponse
		require.NoError(t, json.Unmarshal(body, &out))
		return resp.StatusCode, out
	}

	status, body := decode(t, "/internal")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body.Error)
	assert.Empty(t, body.Details)

	_, body = decode(t, "/plain")
	assert.Equal(t, "Internal server error", body.Error)
	assert.Equal(t, CodeInternal, body.Code)

	status, body = decode(t, "/forbidden")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, CodeForbidden, body.Code)
	assert.Equal(t, ReasonOwnPost, body.Reason)
}
