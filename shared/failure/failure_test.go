package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"sizopi/shared/failure"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "bad request", err: failure.BadRequest(errors.New("jumlah_tiket is required")), code: http.StatusBadRequest, message: "jumlah_tiket is required"},
		{name: "bad request from string", err: failure.BadRequestFromString("status must be one of Terjadwal Dibatalkan"), code: http.StatusBadRequest, message: "status must be one of Terjadwal Dibatalkan"},
		{name: "unauthorized", err: failure.Unauthorized("Token has expired"), code: http.StatusUnauthorized, message: "Token has expired"},
		{name: "forbidden", err: failure.Forbidden("reservation belongs to another visitor"), code: http.StatusForbidden, message: "reservation belongs to another visitor"},
		{name: "forbidden sentinel", err: failure.ForbiddenError, code: http.StatusForbidden, message: "You don't have the required permissions"},
		{name: "not found", err: failure.NotFound("facility not found"), code: http.StatusNotFound, message: "facility not found"},
		{name: "conflict", err: failure.Conflict("facility name already exists"), code: http.StatusConflict, message: "facility name already exists"},
		{name: "internal", err: failure.InternalError(errors.New("ledger sum failed")), code: http.StatusInternalServerError, message: "ledger sum failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fail *failure.Failure
			require.ErrorAs(t, tt.err, &fail)

			assert.Equal(t, tt.code, fail.Code)
			assert.Equal(t, tt.message, fail.Error())
			assert.Nil(t, fail.Remaining)
		})
	}
}

func TestNilCausesStayNil(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
	assert.NoError(t, failure.FromDatabase(nil, "cancel reservation"))
}

func TestCapacityExceeded(t *testing.T) {
	var fail *failure.Failure
	require.ErrorAs(t, failure.CapacityExceeded(20), &fail)

	assert.Equal(t, http.StatusBadRequest, fail.Code)
	assert.Equal(t, "capacity exceeded: only 20 tickets remaining", fail.Message)
	require.NotNil(t, fail.Remaining)
	assert.Equal(t, 20, *fail.Remaining)
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, failure.GetCode(fmt.Errorf("load: %w", failure.NotFound("ride not found"))))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(errors.New("connection reset")))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(nil))
}

func TestFromDatabase(t *testing.T) {
	tests := []struct {
		name        string
		input       error
		code        int
		messagePart string
	}{
		{
			name:        "unique violation",
			input:       fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Message: "duplicate key value"}),
			code:        http.StatusConflict,
			messagePart: "create attraction: record already exists",
		},
		{
			name:        "foreign key violation",
			input:       &pq.Error{Code: "23503", Message: "violates foreign key constraint"},
			code:        http.StatusConflict,
			messagePart: "related record",
		},
		{
			name:        "check violation",
			input:       &pq.Error{Code: "23514", Message: "violates check constraint"},
			code:        http.StatusBadRequest,
			messagePart: "constraint",
		},
		{
			name:        "capacity trigger",
			input:       &pq.Error{Code: "P0001", Message: "Capacity exceeded: only 5 tickets remaining"},
			code:        http.StatusBadRequest,
			messagePart: "only 5 tickets remaining",
		},
		{
			name:        "other raised exception",
			input:       &pq.Error{Code: "P0001", Message: "facility still has active reservations"},
			code:        http.StatusConflict,
			messagePart: "active reservations",
		},
		{
			name:        "unmapped pq code",
			input:       &pq.Error{Code: "40P01", Message: "deadlock detected"},
			code:        http.StatusInternalServerError,
			messagePart: "deadlock detected",
		},
		{
			name:        "existing failure kept",
			input:       fmt.Errorf("wrapped: %w", failure.NotFound("facility not found")),
			code:        http.StatusNotFound,
			messagePart: "facility not found",
		},
		{
			name:        "unknown error",
			input:       errors.New("connection reset"),
			code:        http.StatusInternalServerError,
			messagePart: "create attraction: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.FromDatabase(tt.input, "create attraction")

			assert.Equal(t, tt.code, failure.GetCode(result))
			assert.Contains(t, result.Error(), tt.messagePart)
		})
	}
}
