package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("order", "42")

		assert.Equal(t, "order", err.ParamName)
		assert.Equal(t, "object not found: 42", err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewObjectNotFoundErrorWithCause("driver", "7", cause)

		assert.Equal(t, "object not found: param is: driver, ID is: 7 (cause: connection reset)", err.Error())
		assert.Equal(t, cause, err.Cause)
	})

	t.Run("non string id", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("wallet", 456)
		assert.Equal(t, "object not found: %!s(int=456)", err.Error())
	})
}

func TestValueErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{
			name:     "invalid",
			err:      errs.NewValueIsInvalidError("status"),
			sentinel: errs.ErrValueIsInvalid,
			message:  "value is invalid: status",
		},
		{
			name:     "invalid with cause",
			err:      errs.NewValueIsInvalidErrorWithCause("status", errors.New("delivered is final")),
			sentinel: errs.ErrValueIsInvalid,
			message:  "value is invalid: status (cause: delivered is final)",
		},
		{
			name:     "required",
			err:      errs.NewValueIsRequiredError("restaurantId"),
			sentinel: errs.ErrValueIsRequired,
			message:  "value is required: restaurantId",
		},
		{
			name:     "required with cause",
			err:      errs.NewValueIsRequiredErrorWithCause("restaurantId", errors.New("empty")),
			sentinel: errs.ErrValueIsRequired,
			message:  "value is required: restaurantId (cause: empty)",
		},
		{
			name:     "out of range",
			err:      errs.NewValueIsOutOfRangeError("rating", 7, 0, 5),
			sentinel: errs.ErrValueIsOutOfRange,
			message:  "value is invalid: %!s(int=7) is rating, min value is 0, max value is 5",
		},
		{
			name: "out of range with cause",
			err: errs.NewValueIsOutOfRangeErrorWithCause("lat", "91", -90, 90,
				errors.New("bad gps fix")),
			sentinel: errs.ErrValueIsOutOfRange,
			message:  "value is invalid: 91 is lat, min value is -90, max value is 90 (cause: bad gps fix)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			require.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestValueIsOutOfRangeError_SanitizesNewlines(t *testing.T) {
	err := errs.NewValueIsOutOfRangeError("note", "line one\nline two", 0, 10)
	assert.Contains(t, err.Error(), "line one line two")
	assert.NotContains(t, err.Error(), "\n")
}

func TestDataIntegrityError(t *testing.T) {
	err := errs.NewDataIntegrityError("order", "o-1", "restaurant coordinates are missing")

	assert.Equal(t, "data integrity violation: order o-1: restaurant coordinates are missing", err.Error())
	require.ErrorIs(t, err, errs.ErrDataIntegrity)

	wrapped := fmt.Errorf("match order: %w", err)
	var target *errs.DataIntegrityError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "o-1", target.ID)
}

func TestConcurrencyConflict(t *testing.T) {
	err := errs.NewConcurrencyConflict("order %s already has a driver", "o-1")

	require.ErrorIs(t, err, errs.ErrConcurrencyConflict)
	assert.Equal(t, "concurrency conflict: order o-1 already has a driver", err.Error())
}

func TestStoreUnavailable(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := errs.NewStoreUnavailable("registry", cause)

	require.ErrorIs(t, err, errs.ErrStoreUnavailable)
	require.ErrorIs(t, err, cause)
}

func TestInvalidTransition(t *testing.T) {
	err := errs.NewInvalidTransition("order", "delivered", "cancel")

	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, "invalid state transition: cannot cancel order in status delivered", err.Error())
}
