package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"SensorLedger/internal/middleware"
	"SensorLedger/internal/models"
	"SensorLedger/internal/repository"
	"SensorLedger/internal/service"
	"SensorLedger/internal/utils"
)

// LedgerController handles HTTP requests for sensor readings.
type LedgerController struct {
	service *service.LedgerService
}

// NewLedgerController creates a new LedgerController.
func NewLedgerController(service *service.LedgerService) *LedgerController {
	return &LedgerController{
		service: service,
	}
}

// HandleAddData records one reading and answers with the new total.
func (c *LedgerController) HandleAddData(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	req, err := decodeAddData(r.Body)
	if err != nil {
		apiErr := models.NewAPIError(models.ErrorCodeInvalidFormat, fmt.Sprintf("error unmarshalling JSON: %v", err), nil, http.StatusBadRequest)
		utils.RespondWithError(w, apiErr)
		return
	}

	count, err := c.service.RecordReading(r.Context(), req)
	if err != nil {
		log.Printf("addData failed [%s]: %v", middleware.RequestIDFrom(r.Context()), err)
		utils.RespondWithError(w, toAPIError(err))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, models.AddDataResponse{
		Status:       models.StatusRecorded,
		TotalEntries: count,
	})
}

// decodeAddData reads exactly one JSON value from body.
func decodeAddData(body io.Reader) (models.AddDataRequest, error) {
	var req models.AddDataRequest
	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON body")
	}
	return req, nil
}

func toAPIError(err error) models.APIError {
	var perr *repository.PersistenceError
	switch {
	case errors.Is(err, service.ErrMissingField):
		return models.NewAPIError(models.ErrorCodeMissingParameter, err.Error(), nil, http.StatusBadRequest)
	case errors.As(err, &perr):
		return models.NewAPIError(models.ErrorCodePersistenceError, "error writing ledger file", nil, http.StatusInternalServerError)
	default:
		return models.NewAPIError(models.ErrorCodeInternalServerError, err.Error(), nil, http.StatusInternalServerError)
	}
}
