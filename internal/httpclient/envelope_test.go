// ABOUTME: Tests for envelope decoding and error body extraction
package httpclient

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrap(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		out, err := Unwrap[map[string]int]([]byte(`{"success":true,"data":{"n":1}}`))
		require.NoError(t, err)
		assert.Equal(t, 1, out["n"])
	})

	t.Run("primitive", func(t *testing.T) {
		out, err := Unwrap[string]([]byte(`{"success":true,"data":"ok","message":"done"}`))
		require.NoError(t, err)
		assert.Equal(t, "ok", out)
	})

	t.Run("array", func(t *testing.T) {
		out, err := Unwrap[[]int]([]byte(`{"success":true,"data":[1,2,3]}`))
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, out)
	})

	t.Run("null data", func(t *testing.T) {
		out, err := Unwrap[*struct{}]([]byte(`{"success":true,"data":null}`))
		require.NoError(t, err)
		assert.Nil(t, out)
	})

	t.Run("bare payload is invalid", func(t *testing.T) {
		_, err := Unwrap[[]int]([]byte(`[1,2]`))
		assert.ErrorIs(t, err, ErrInvalidEnvelope)
	})

	t.Run("object without success flag is invalid", func(t *testing.T) {
		_, err := Unwrap[map[string]any]([]byte(`{"data":1}`))
		assert.ErrorIs(t, err, ErrInvalidEnvelope)
	})

	t.Run("failure", func(t *testing.T) {
		_, err := Unwrap[int]([]byte(`{"success":false,"error":{"code":"NOT_ALLOWED","message":"no","details":{"field":"x"}}}`))
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "NOT_ALLOWED", apiErr.Code)
		assert.Equal(t, "no", apiErr.Message)
		assert.JSONEq(t, `{"field":"x"}`, string(apiErr.Details))
	})

	t.Run("failure codes map to kinds", func(t *testing.T) {
		_, err := Unwrap[int]([]byte(`{"success":false,"error":{"code":"not_found"}}`))
		assert.True(t, IsNotFound(err))

		_, err = Unwrap[int]([]byte(`{"success":false,"error":{"code":"UNAUTHORIZED","message":"expired"}}`))
		assert.True(t, IsUnauthorized(err))

		_, err = Unwrap[int]([]byte(`{"success":false,"error":{"code":"TRIP_LOCKED"}}`))
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, KindAPI, apiErr.Kind)
	})

	t.Run("failure with string error", func(t *testing.T) {
		_, err := Unwrap[int]([]byte(`{"success":false,"error":"trip not found"}`))
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, CodeUnknown, apiErr.Code)
		assert.Equal(t, "trip not found", apiErr.Message)
	})
}

func TestUnwrapFlexible(t *testing.T) {
	tok, err := UnwrapFlexible[struct {
		AccessToken string `json:"accessToken"`
	}]([]byte(`{"accessToken":"t2"}`))
	require.NoError(t, err)
	assert.Equal(t, "t2", tok.AccessToken)

	tok, err = UnwrapFlexible[struct {
		AccessToken string `json:"accessToken"`
	}]([]byte(`{"success":true,"data":{"accessToken":"t3"}}`))
	require.NoError(t, err)
	assert.Equal(t, "t3", tok.AccessToken)

	empty, err := UnwrapFlexible[[]string](nil)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestErrorBodyFrom(t *testing.T) {
	assert.Nil(t, errorBodyFrom([]byte("<html>bad gateway</html>")))
	assert.Nil(t, errorBodyFrom(nil))

	eb := errorBodyFrom([]byte(`{"statusCode":400,"message":"validation failed"}`))
	require.NotNil(t, eb)
	assert.Equal(t, "validation failed", eb.Message)

	eb = errorBodyFrom([]byte(`{"error":{"code":42,"message":"nested"}}`))
	require.NotNil(t, eb)
	assert.Equal(t, "42", eb.code())
	assert.Equal(t, "nested", eb.Message)
}

func TestAPIErrorPresentation(t *testing.T) {
	notFound := &APIError{Kind: KindNotFound, Status: 404, Message: "not found"}
	assert.False(t, notFound.Blocking())
	assert.True(t, IsNotFound(notFound))

	server := &APIError{Kind: KindServer, Status: 500, Message: "server error"}
	assert.True(t, server.Blocking())
	assert.NotEmpty(t, server.Title())
	assert.Equal(t, "server error", server.Error())
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, "5s", parseRetryAfter("5").String())
	assert.Zero(t, parseRetryAfter(""))
	assert.Zero(t, parseRetryAfter("soon"))
}
