package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fashionhub/storefront/app/repositories"
	"github.com/fashionhub/storefront/pkg/apperrors"
	"github.com/fashionhub/storefront/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	return body
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Success(rec, map[string]string{"name": "Classic Crew Tee"})

	body := decode(t, rec)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Classic Crew Tee", body["data"].(map[string]interface{})["name"])
}

func TestCreated(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Created(rec, "ok")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestListCarriesCountAndPagination(t *testing.T) {
	rec := httptest.NewRecorder()
	response.List(rec, []int{1, 2, 3}, 3, repositories.NewPagination(2, 10, 25))

	body := decode(t, rec)
	assert.Equal(t, float64(3), body["count"])

	page := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), page["next"].(map[string]interface{})["page"])
	assert.Equal(t, float64(1), page["prev"].(map[string]interface{})["page"])
}

func TestListOmitsAbsentPageRefs(t *testing.T) {
	rec := httptest.NewRecorder()
	response.List(rec, []int{}, 0, repositories.NewPagination(1, 10, 0))

	body := decode(t, rec)
	page := body["pagination"].(map[string]interface{})
	assert.NotContains(t, page, "next")
	assert.NotContains(t, page, "prev")
}

func TestFromErrorMapsAppErrors(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{apperrors.Validationf("Insufficient stock for product x"), http.StatusBadRequest, "Insufficient stock for product x"},
		{apperrors.NotFoundf("Product not found"), http.StatusNotFound, "Product not found"},
		{apperrors.Unauthenticated("Invalid credentials"), http.StatusUnauthorized, "Invalid credentials"},
		{apperrors.Unauthorized("Not authorized to access this order"), http.StatusUnauthorized, "Not authorized to access this order"},
		{errors.New("mongo: socket closed"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		response.FromError(rec, tc.err)

		body := decode(t, rec)
		assert.Equal(t, tc.status, rec.Code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, tc.message, body["error"])
	}
}

func TestValidationErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	response.ValidationErrors(rec, map[string]string{"name": "The name field is required."})

	body := decode(t, rec)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", body["error"])
	errs := body["errors"].(map[string]interface{})
	assert.Equal(t, "The name field is required.", errs["name"])
}

func TestRouteNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	response.RouteNotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	body := decode(t, rec)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", body["error"])
}
