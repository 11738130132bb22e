package models

import "encoding/json"

// AddDataRequest is the raw /addData body. Keys are kept as sent so that a
// missing key can be told apart from an explicit null.
type AddDataRequest map[string]json.RawMessage

// AddDataResponse is returned after a reading has been recorded.
type AddDataResponse struct {
	Status       string `json:"status"`
	TotalEntries int    `json:"total_entries"`
}

const StatusRecorded = "recorded"
