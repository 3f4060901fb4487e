package domain

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "order not found", NotFoundError{Resource: "order"}.Error())
	assert.Equal(t, "phone: is required", ValidationError{Field: "phone", Msg: "is required"}.Error())
	assert.Equal(t, "invalid month", ValidationError{Field: "month"}.Error())
	assert.Equal(t, "rate conflict: duplicate", ConflictError{Resource: "rate", Msg: "duplicate"}.Error())
	assert.Equal(t, "forbidden", ForbiddenError{}.Error())
	assert.Equal(t, "could not load account: connection reset", InternalError{Msg: "could not load account", Err: errors.New("connection reset")}.Error())
}

func TestIsHelpersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", NotFoundError{Resource: "user", Err: sql.ErrNoRows})

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.ErrorIs(t, wrapped, sql.ErrNoRows)

	assert.True(t, IsUnauthorized(fmt.Errorf("x: %w", UnauthorizedError{})))
	assert.True(t, IsInternal(InternalError{Msg: "boom"}))
}

func TestActorLabel(t *testing.T) {
	assert.Equal(t, "a@b.c", Actor{UserID: "u1", Email: "a@b.c"}.Label())
	assert.Equal(t, "u1", Actor{UserID: "u1"}.Label())
}
