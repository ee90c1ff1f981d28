// Package archive stores raw analysis response blobs in object storage.
// Archiving is best-effort: the pipeline logs archive failures but never
// fails a run because of them.
package archive

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("archive: blob not found")

// Store keeps one raw response blob per report, keyed by vehicle and
// report ID.
type Store interface {
	Put(ctx context.Context, vehicleID, reportID string, blob []byte) error
	Get(ctx context.Context, vehicleID, reportID string) ([]byte, error)
}
