package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the server-local format stamped on every reading.
const TimestampLayout = "2006-01-02 15:04:05"

// Reading is one ledger entry. Temperature and Humidity hold whatever JSON
// value the device sent, byte for byte.
type Reading struct {
	Temperature json.RawMessage `json:"temperature"`
	Humidity    json.RawMessage `json:"humidity"`
	Timestamp   string          `json:"timestamp"`
}

// NewReading stamps the two values with now.
func NewReading(temperature, humidity json.RawMessage, now time.Time) Reading {
	return Reading{
		Temperature: temperature,
		Humidity:    humidity,
		Timestamp:   now.Format(TimestampLayout),
	}
}

// Time parses the timestamp back in the local zone.
func (r Reading) Time() (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, r.Timestamp, time.Local)
}

func (r Reading) String() string {
	return fmt.Sprintf("{temperature: %s, humidity: %s, timestamp: %s}", r.Temperature, r.Humidity, r.Timestamp)
}
