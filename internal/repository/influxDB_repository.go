package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"SensorLedger/internal/models"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

const influxMeasurement = "sensor_readings"

// InfluxDBMirror copies accepted readings into an InfluxDB bucket.
type InfluxDBMirror struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
}

// NewInfluxDBMirror creates a new InfluxDBMirror.
func NewInfluxDBMirror(url, token, org, bucket string) *InfluxDBMirror {
	client := influxdb2.NewClient(url, token)
	return &InfluxDBMirror{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		bucket:   bucket,
	}
}

func (m *InfluxDBMirror) Name() string { return "influxdb" }

// Mirror writes reading as one point with temperature and humidity fields.
// Null values are skipped; a reading with no usable field is not written.
func (m *InfluxDBMirror) Mirror(ctx context.Context, reading models.Reading) error {
	fields := make(map[string]interface{})
	if v, ok := fieldValue(reading.Temperature); ok {
		fields["temperature"] = v
	}
	if v, ok := fieldValue(reading.Humidity); ok {
		fields["humidity"] = v
	}
	if len(fields) == 0 {
		return nil
	}

	ts, err := reading.Time()
	if err != nil {
		log.Printf("Error parsing timestamp '%s', using current time: %v\n", reading.Timestamp, err)
		ts = time.Now()
	}
	p := influxdb2.NewPoint(
		influxMeasurement,
		map[string]string{"source": "addData"},
		fields,
		ts,
	)
	if err := m.writeAPI.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("error writing to InfluxDB: %w", err)
	}
	return nil
}

func (m *InfluxDBMirror) Close() error {
	m.client.Close()
	return nil
}

// fieldValue turns a raw JSON value into something InfluxDB accepts as a
// field: numbers, booleans and strings map directly, anything else is kept
// as its JSON text.
func fieldValue(raw json.RawMessage) (interface{}, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw), true
	}
	switch t := v.(type) {
	case nil:
		return nil, false
	case float64, bool, string:
		return t, true
	default:
		return string(raw), true
	}
}
