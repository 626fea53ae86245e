package httpclient

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	resp := &BaseResponse{StatusCode: http.StatusTooManyRequests, Body: []byte(`{"message":"slow down"}`)}
	err := NewAPIError(resp)

	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "slow down")

	wrapped := fmt.Errorf("failed to list executions: %w", err)
	apiErr, ok := AsAPIError(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)

	_, ok = AsAPIError(fmt.Errorf("plain error"))
	assert.False(t, ok)
}

func TestBaseResponse_IsSuccess(t *testing.T) {
	assert.True(t, (&BaseResponse{StatusCode: http.StatusOK}).IsSuccess())
	assert.True(t, (&BaseResponse{StatusCode: http.StatusCreated}).IsSuccess())
	assert.False(t, (&BaseResponse{StatusCode: http.StatusNotFound}).IsSuccess())
	assert.False(t, (&BaseResponse{StatusCode: http.StatusInternalServerError}).IsSuccess())
}
