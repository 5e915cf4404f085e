package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"gospc/domain/core"
)

func TestGetCodeClassifiesDomainErrors(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{core.ErrEmptySample, CodeInvalidInput},
		{fmt.Errorf("capability: %w", core.ErrZeroVariance), CodeComputationUndefined},
		{core.NewStatisticalError("kruskal", "all numbers are identical"), CodeStatisticalFailure},
		{core.NewNotFoundError("run", "abc"), CodeNotFound},
		{stderrors.New("boom"), CodeInternalError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetCode(tt.err), tt.err.Error())
	}
}

func TestWrapKeepsCodeAndChain(t *testing.T) {
	err := Wrap(core.ErrTooFewGroups, "hypothesis request")
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.True(t, stderrors.Is(err, core.ErrInvalidInput))
	assert.Equal(t, "hypothesis request: "+core.ErrTooFewGroups.Error(), err.Error())

	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Equal(t, CodeDatabaseError, GetCode(Wrapf(DatabaseError("insert run", stderrors.New("locked")), "save %s", "x")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeConfigInvalid, stderrors.New("SPC_ALPHA out of range"))
	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.False(t, IsAppError(stderrors.New("plain")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeInvalidInput))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(CodeNotFound))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(CodeComputationUndefined))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(CodeDatabaseError))
}
