package client

import (
	"context"
	"fmt"
	"time"

	"SensorLedger/internal/models"
	"github.com/go-resty/resty/v2"
)

// LedgerClient posts readings to a ledger server.
type LedgerClient struct {
	http *resty.Client
}

// NewLedgerClient creates a client for the server at baseURL.
func NewLedgerClient(baseURL string, timeout time.Duration) *LedgerClient {
	return &LedgerClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

// AddData sends one reading. Server-side failures come back as
// models.APIError carrying the HTTP status.
func (c *LedgerClient) AddData(ctx context.Context, temperature, humidity interface{}) (*models.AddDataResponse, error) {
	var (
		result models.AddDataResponse
		apiErr models.APIError
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"temperature": temperature,
			"humidity":    humidity,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/addData")
	if err != nil {
		return nil, fmt.Errorf("error posting reading: %w", err)
	}
	if resp.IsError() {
		apiErr.StatusCode = resp.StatusCode()
		if apiErr.Code == "" {
			apiErr.Code = models.ErrorCodeInternalServerError
			apiErr.Message = resp.Status()
		}
		return nil, apiErr
	}
	return &result, nil
}
