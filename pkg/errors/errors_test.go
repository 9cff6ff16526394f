package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneKeepsCodeForIs(t *testing.T) {
	cloned := Clone(ErrNotFound, "student not found")
	assert.Equal(t, "student not found", cloned.Message)
	assert.True(t, stderrors.Is(cloned, ErrNotFound))
	assert.False(t, stderrors.Is(cloned, ErrConflict))
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	err := FromError(fmt.Errorf("boom"))
	require.NotNil(t, err)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, ErrInternal.Code, err.Code)

	wrapped := fmt.Errorf("lookup: %w", Clone(ErrAlreadyEnrolled, ""))
	assert.Equal(t, ErrAlreadyEnrolled.Code, FromError(wrapped).Code)
	assert.Nil(t, FromError(nil))
}
