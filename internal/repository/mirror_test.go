package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"SensorLedger/internal/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldValue(t *testing.T) {
	tests := []struct {
		raw  string
		want interface{}
		ok   bool
	}{
		{raw: `22.5`, want: 22.5, ok: true},
		{raw: `41`, want: float64(41), ok: true},
		{raw: `true`, want: true, ok: true},
		{raw: `"hot"`, want: "hot", ok: true},
		{raw: `null`, ok: false},
		{raw: ``, ok: false},
		{raw: `[1,2]`, want: `[1,2]`, ok: true},
		{raw: `{"c":1}`, want: `{"c":1}`, ok: true},
	}
	for _, tt := range tests {
		got, ok := fieldValue(json.RawMessage(tt.raw))
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

type influxCapture struct {
	mu    sync.Mutex
	paths []string
	query []string
	lines []string
}

func newInfluxServer(t *testing.T, status int) (*httptest.Server, *influxCapture) {
	t.Helper()
	capture := &influxCapture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		capture.mu.Lock()
		capture.paths = append(capture.paths, r.URL.Path)
		capture.query = append(capture.query, r.URL.RawQuery)
		capture.lines = append(capture.lines, string(body))
		capture.mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, capture
}

func TestInfluxDBMirrorWritesPoint(t *testing.T) {
	srv, capture := newInfluxServer(t, http.StatusNoContent)
	m := NewInfluxDBMirror(srv.URL, "token", "org", "sensor_ledger")
	defer m.Close()

	err := m.Mirror(context.Background(), reading("22.5", "41"))
	require.NoError(t, err)

	capture.mu.Lock()
	defer capture.mu.Unlock()
	require.Len(t, capture.lines, 1)
	assert.Equal(t, "/api/v2/write", capture.paths[0])
	assert.Contains(t, capture.query[0], "bucket=sensor_ledger")
	line := capture.lines[0]
	assert.Contains(t, line, "sensor_readings,source=addData")
	assert.Contains(t, line, "temperature=22.5")
	assert.Contains(t, line, "humidity=41")
}

func TestInfluxDBMirrorSkipsNullReading(t *testing.T) {
	srv, capture := newInfluxServer(t, http.StatusNoContent)
	m := NewInfluxDBMirror(srv.URL, "token", "org", "sensor_ledger")
	defer m.Close()

	require.NoError(t, m.Mirror(context.Background(), reading("null", "null")))

	capture.mu.Lock()
	defer capture.mu.Unlock()
	assert.Empty(t, capture.lines)
}

func TestInfluxDBMirrorReportsServerError(t *testing.T) {
	srv, _ := newInfluxServer(t, http.StatusInternalServerError)
	m := NewInfluxDBMirror(srv.URL, "token", "org", "sensor_ledger")
	defer m.Close()

	err := m.Mirror(context.Background(), reading("22.5", "41"))
	assert.Error(t, err)
}

type fakeKafkaWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeKafkaWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeKafkaWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaMirrorPublishesReading(t *testing.T) {
	w := &fakeKafkaWriter{}
	m := &KafkaMirror{writer: w, topic: "sensor.readings"}

	r := reading("22.5", "41")
	require.NoError(t, m.Mirror(context.Background(), r))
	require.Len(t, w.msgs, 1)

	var got models.Reading
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "22.5", string(got.Temperature))
	assert.Equal(t, "41", string(got.Humidity))
	assert.Equal(t, r.Timestamp, got.Timestamp)
	assert.True(t, w.msgs[0].Time.Equal(testNow))

	require.NoError(t, m.Close())
	assert.True(t, w.closed)
}

func TestKafkaMirrorWrapsWriteError(t *testing.T) {
	boom := errors.New("broker down")
	m := &KafkaMirror{writer: &fakeKafkaWriter{err: boom}, topic: "sensor.readings"}

	err := m.Mirror(context.Background(), reading("1", "2"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestNewKafkaMirrorShortBatchTimeout(t *testing.T) {
	m := NewKafkaMirror([]string{"localhost:9092"}, "sensor.readings")
	defer m.Close()

	w, ok := m.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, 10*time.Millisecond, w.BatchTimeout)
}

func TestInfluxDBMirrorHonoursContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	m := NewInfluxDBMirror(srv.URL, "token", "org", "sensor_ledger")
	defer m.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := m.Mirror(ctx, reading("22.5", "41"))
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
