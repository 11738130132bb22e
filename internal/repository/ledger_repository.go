package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"SensorLedger/internal/models"
	"github.com/tidwall/pretty"
)

// Repository is the record store behind /addData.
type Repository interface {
	AppendFunc(build func() models.Reading) (models.Reading, int, error)
	Count() int
}

// PersistenceError is returned when the ledger file could not be rewritten.
// The reading that triggered it stays in memory.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("error persisting ledger to %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

var ledgerFileOptions = &pretty.Options{Width: 0, Prefix: "", Indent: "    ", SortKeys: false}

// LedgerRepository keeps the readings in arrival order and mirrors the
// whole sequence to a JSON file after every append.
type LedgerRepository struct {
	mu       sync.Mutex
	path     string
	readings []models.Reading
}

// NewLedgerRepository loads path into memory. A missing, unreadable or
// malformed file gives an empty ledger; the cause is only logged.
func NewLedgerRepository(path string) *LedgerRepository {
	readings, err := loadLedger(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("Ledger file %s not found, starting a new ledger", path)
		readings = nil
	case err != nil:
		log.Printf("Could not load ledger file %s, starting empty: %v", path, err)
		readings = nil
	default:
		log.Printf("Loaded %d entries from %s", len(readings), path)
	}
	return &LedgerRepository{
		path:     path,
		readings: readings,
	}
}

func loadLedger(path string) ([]models.Reading, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var readings []models.Reading
	if err := json.Unmarshal(data, &readings); err != nil {
		return nil, err
	}
	return readings, nil
}

// Append adds reading to the ledger and rewrites the file. The returned
// count includes the new reading. On a PersistenceError the in-memory
// ledger has already grown and is not rolled back.
func (r *LedgerRepository) Append(reading models.Reading) (int, error) {
	_, n, err := r.AppendFunc(func() models.Reading { return reading })
	return n, err
}

// AppendFunc is Append with the reading built while the ledger is locked,
// so timestamps taken inside build follow file order.
func (r *LedgerRepository) AppendFunc(build func() models.Reading) (models.Reading, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reading := build()
	r.readings = append(r.readings, reading)
	if err := r.persist(); err != nil {
		return reading, len(r.readings), &PersistenceError{Path: r.path, Err: err}
	}
	return reading, len(r.readings), nil
}

// Count returns the number of readings held in memory.
func (r *LedgerRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.readings)
}

// Path is the ledger file location.
func (r *LedgerRepository) Path() string {
	return r.path
}

func (r *LedgerRepository) persist() error {
	data, err := encodeLedger(r.readings)
	if err != nil {
		return err
	}
	return writeFileAtomic(r.path, data)
}

func encodeLedger(readings []models.Reading) ([]byte, error) {
	if readings == nil {
		readings = []models.Reading{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(readings); err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(buf.Bytes(), ledgerFileOptions), nil
}

// writeFileAtomic replaces path with data via a temp file in the same
// directory, so a failed write never leaves a truncated ledger behind.
func writeFileAtomic(path string, data []byte) (err error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
