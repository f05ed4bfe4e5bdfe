package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/building-analyzer/internal/pkg/errors"
)

func TestWithDetails(t *testing.T) {
	detailed := errors.ErrInvalidEra.WithDetails(map[string]interface{}{"era": "StoneAge"})

	assert.Equal(t, "StoneAge", detailed.Details["era"])
	assert.Nil(t, errors.ErrInvalidEra.Details)
	assert.Equal(t, http.StatusBadRequest, detailed.StatusCode)
	assert.Equal(t, "INVALID_ERA: Unknown era", detailed.Error())
}

func TestIs(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", errors.ErrDatasetLoadFailed.WithDetails(map[string]interface{}{"source": "x"}))

	assert.True(t, stderrors.Is(wrapped, errors.ErrDatasetLoadFailed))
	assert.False(t, stderrors.Is(wrapped, errors.ErrDatasetNotLoaded))
}
