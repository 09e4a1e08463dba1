package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"gohstat/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestWrapMapsDomainErrors(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{core.ErrNotFitted, CodeNotFitted, http.StatusBadRequest},
		{core.ErrUnsupportedModel, CodeUnsupportedModel, http.StatusBadRequest},
		{core.NewWeightsError("negative weight at row %d", 3), CodeInvalidWeights, http.StatusBadRequest},
		{core.NewFeatureSpecError("unknown feature %q", "x"), CodeInvalidFeatureSpec, http.StatusBadRequest},
		{core.NewOptionError("n_max", "must be positive"), CodeInvalidInput, http.StatusBadRequest},
		{core.ErrRunNotFound, CodeNotFound, http.StatusNotFound},
		{fmt.Errorf("disk on fire"), CodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		wrapped := Wrap(tt.err, "compute failed")
		assert.Equal(t, tt.code, GetCode(wrapped), tt.err.Error())
		assert.Equal(t, tt.status, HTTPStatus(wrapped), tt.err.Error())
		assert.True(t, stderrors.Is(wrapped, tt.err))
	}
}

func TestWrapKeepsAppErrorCode(t *testing.T) {
	inner := ConfigInvalid("HSTAT_N_MAX must be positive")
	outer := Wrap(inner, "failed to load configuration")

	assert.Equal(t, CodeConfigInvalid, GetCode(outer))
	assert.Equal(t, "failed to load configuration: HSTAT_N_MAX must be positive", outer.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeValidationError, fmt.Errorf("bad"))
	assert.Equal(t, CodeValidationError, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.False(t, IsAppError(fmt.Errorf("plain")))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}
