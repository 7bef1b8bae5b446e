package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKind_Status(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want int
	}{
		{KindMethodNotAllowed, http.StatusMethodNotAllowed},
		{KindInvalidRequest, http.StatusBadRequest},
		{KindThrottled, http.StatusTooManyRequests},
		{KindServerMisconfigured, http.StatusInternalServerError},
		{KindUpstreamError, http.StatusInternalServerError},
		{KindUpstreamEmptyResponse, http.StatusBadGateway},
		{KindResponseDecodeError, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Status())
		})
	}
}

func TestError(t *testing.T) {
	t.Run("原因を Unwrap で辿れるのだ", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := fmt.Errorf("wrapped: %w", ErrUpstream("upstream unavailable", cause))

		var de *Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, KindUpstreamError, de.Kind)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("応答には原因を含めない", func(t *testing.T) {
		err := ErrServerMisconfigured(errors.New("GEMINI_API_KEY is empty"))

		b, jsonErr := json.Marshal(err.Response())

		require.NoError(t, jsonErr)
		assert.JSONEq(t, `{"error":"Server configuration error","code":"ServerMisconfigured"}`, string(b))
	})

	t.Run("画像なしは 400 で返す", func(t *testing.T) {
		err := ErrNoImage("no image part", nil)
		assert.Equal(t, KindUpstreamEmptyResponse, err.Kind)
		assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
		assert.Equal(t, "no image part", err.Response().Details)
	})

	t.Run("AsError は分類のないエラーを UpstreamError にする", func(t *testing.T) {
		assert.Nil(t, AsError(nil))

		de := AsError(errors.New("boom"))
		assert.Equal(t, KindUpstreamError, de.Kind)

		orig := ErrThrottled()
		assert.Same(t, orig, AsError(orig))
	})
}

func TestOperation_Type(t *testing.T) {
	ops := map[OperationType]Operation{
		OperationDesign: DesignRequest{},
		OperationStyle:  StyleRequest{},
		OperationImage:  ImageRequest{},
		OperationChat:   ChatRequest{},
	}
	for want, op := range ops {
		assert.Equal(t, want, op.Type())
	}
}
