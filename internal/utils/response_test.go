package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"SensorLedger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithErrorUsesStatusAndHidesIt(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, models.NewAPIError(models.ErrorCodeMissingParameter, "temperature is required", nil, http.StatusBadRequest))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "missing_parameter", body["code"])
	assert.Equal(t, "temperature is required", body["message"])
	assert.NotContains(t, body, "details")
	assert.NotContains(t, body, "StatusCode")
}

func TestRespondWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithJSON(rec, http.StatusOK, models.AddDataResponse{Status: models.StatusRecorded, TotalEntries: 3})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"recorded","total_entries":3}`, rec.Body.String())
}
