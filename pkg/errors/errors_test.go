package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_MessageIncludesCodeAndCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewDatabaseError("update ingredient", cause)

	assert.Contains(t, err.Error(), string(CodeDatabaseError))
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, cause, err.Unwrap())
}

func TestIs_WalksTheCauseChain(t *testing.T) {
	inner := NewQuotaExceededError(200)
	outer := fmt.Errorf("enrichment run: %w", inner)

	assert.True(t, Is(outer, CodeQuotaExceeded))
	assert.False(t, Is(outer, CodeDatabaseError))
	assert.False(t, Is(nil, CodeQuotaExceeded))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeNoMatchFound, GetCode(NewNoMatchFoundError("dragonfruit")))
	assert.Equal(t, CodeInternal, GetCode(stderrors.New("plain")))
}

func TestWrap(t *testing.T) {
	t.Run("NilError_ReturnsNil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "ignored"))
	})

	t.Run("AppError_PassesThroughUnchanged", func(t *testing.T) {
		original := NewNotFoundError("recipe")
		wrapped := Wrap(original, "outer message")
		assert.Same(t, original, wrapped)
	})

	t.Run("PlainError_BecomesInternal", func(t *testing.T) {
		cause := stderrors.New("migration table locked")
		wrapped := Wrap(cause, "failed to apply migrations")
		require.NotNil(t, wrapped)
		assert.Equal(t, CodeInternal, wrapped.Code)
		assert.Equal(t, cause, wrapped.Unwrap())
	})
}

func TestConstructors_CarryMetadata(t *testing.T) {
	unit := NewUnknownUnitError("handful")
	assert.Equal(t, CodeUnknownUnit, unit.Code)
	assert.Equal(t, "handful", unit.Metadata["unit"])

	quota := NewQuotaExceededError(150)
	assert.Equal(t, CodeQuotaExceeded, quota.Code)
	assert.Equal(t, 150, quota.Metadata["limit"])

	noMatch := NewNoMatchFoundError("mystery paste")
	assert.Equal(t, CodeNoMatchFound, noMatch.Code)
	assert.Equal(t, "mystery paste", noMatch.Metadata["normalized_name"])
}
