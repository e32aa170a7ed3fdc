package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoestop/backend/pkg/apperr"
	"github.com/shoestop/backend/pkg/response"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Success(rec, response.M{"orders": []string{}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body, "orders")
}

func TestErrMapsAppErrKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.Validation("bad input"), http.StatusBadRequest},
		{apperr.Unauthorized("no token"), http.StatusUnauthorized},
		{apperr.Forbidden("not yours"), http.StatusForbidden},
		{apperr.NotFound("gone"), http.StatusNotFound},
		{apperr.Conflict("duplicate"), http.StatusConflict},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		response.Err(rec, tc.err)
		assert.Equal(t, tc.status, rec.Code)

		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, tc.err.Error(), body["message"])
	}
}

func TestErrHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Err(rec, apperr.Internal("db exploded: connection string leaked", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Internal server error", body["message"])
}

func TestValidationErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	response.ValidationErrors(rec, map[string]string{"email": "The email must be a valid email address."})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Validation failed", body["message"])
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "email")
}

func TestPaginationDerivedFields(t *testing.T) {
	p := response.NewPagination(2, 9, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	last := response.NewPagination(3, 9, 20)
	assert.False(t, last.HasNext)

	empty := response.NewPagination(1, 9, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
