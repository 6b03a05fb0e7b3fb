package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Veraticus/haul/internal/model"
	"github.com/Veraticus/haul/internal/service"
)

// SnapshotVersion is written into every backup document.
const SnapshotVersion = "1.0"

// ErrImportUnsupported is returned when restoring a snapshot is requested.
var ErrImportUnsupported = errors.New("restoring from a backup is not supported")

// User identifies who a snapshot belongs to.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// SnapshotData holds every collection.
type SnapshotData struct {
	Routes      []model.Route     `json:"routes"`
	Trips       []model.Trip      `json:"trips"`
	Expenses    []model.Expense   `json:"expenses"`
	Trucks      []model.Truck     `json:"trucks"`
	FuelEntries []model.FuelEntry `json:"fuelEntries"`
}

// Snapshot is the full backup document.
type Snapshot struct {
	Timestamp time.Time    `json:"timestamp"`
	User      User         `json:"user"`
	Version   string       `json:"version"`
	Data      SnapshotData `json:"data"`
}

// NewSnapshot captures data. Nil collections are written as empty arrays.
func NewSnapshot(user User, data service.Dataset, now time.Time) Snapshot {
	return Snapshot{
		Version:   SnapshotVersion,
		Timestamp: now.UTC(),
		User:      user,
		Data: SnapshotData{
			Routes:      nonNil(data.Routes),
			Trips:       nonNil(data.Trips),
			Expenses:    nonNil(data.Expenses),
			Trucks:      nonNil(data.Trucks),
			FuelEntries: nonNil(data.FuelEntries),
		},
	}
}

// Dataset returns the snapshot's collections.
func (s Snapshot) Dataset() service.Dataset {
	return service.Dataset{
		Routes:      s.Data.Routes,
		Trips:       s.Data.Trips,
		Expenses:    s.Data.Expenses,
		Trucks:      s.Data.Trucks,
		FuelEntries: s.Data.FuelEntries,
	}
}

// JSON writes v pretty-printed with two-space indentation.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// ParseSnapshot decodes a backup document.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return s, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
