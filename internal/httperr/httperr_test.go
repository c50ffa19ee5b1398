package httperr

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeErr(t *testing.T, err error) (int, HTTPError) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	WriteError(c, err)

	var body HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestWriteErrorValidation(t *testing.T) {
	code, body := writeErr(t, Validation("time", "La fecha y hora seleccionadas deben ser en el futuro."))

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation_failed", body.Code)
	assert.Contains(t, body.Fields, "time")
}

func TestWriteErrorSentinels(t *testing.T) {
	cases := []struct {
		err      error
		status   int
		codeName string
	}{
		{ErrNotFound, http.StatusNotFound, "not_found"},
		{ErrForbidden, http.StatusForbidden, "forbidden"},
		{ErrConcurrency, http.StatusConflict, "concurrent_modification"},
		{ErrDependency, http.StatusConflict, "has_dependent_records"},
	}

	for _, tc := range cases {
		code, body := writeErr(t, tc.err)
		assert.Equal(t, tc.status, code)
		assert.Equal(t, tc.codeName, body.Code)
	}
}

func TestWriteErrorBusiness(t *testing.T) {
	code, body := writeErr(t, ErrBusiness("state_changed"))

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "state_changed", body.Code)
}

func TestWriteErrorUnknownIsInternal(t *testing.T) {
	code, body := writeErr(t, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal_error", body.Code)
}

func TestValidationErrorAccumulates(t *testing.T) {
	ve := &ValidationError{}
	ve.Add("new_pet_name", "El nombre de la mascota es obligatorio.")
	ve.Add("new_pet_species", "La especie es obligatoria.")

	assert.Len(t, ve.Fields, 2)
	assert.Contains(t, ve.Error(), "new_pet_name")
}
