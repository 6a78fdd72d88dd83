package chartshare

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrChartNotFound indicates a chart was not found
	ErrChartNotFound = errors.New("chart not found")

	// ErrUserNotFound indicates a user was not found
	ErrUserNotFound = errors.New("user not found")

	// ErrAuthorMissing indicates a chart has no resolvable author. A chart
	// without an author is corrupt data and is surfaced, never defaulted.
	ErrAuthorMissing = errors.New("chart author missing")

	// ErrAssetNotFound indicates the asset registry has no entry for a key
	ErrAssetNotFound = errors.New("asset not found")

	// ErrInvalidBackgroundVersion indicates an unsupported background version
	ErrInvalidBackgroundVersion = errors.New("invalid background version")
)

// ChartError represents an error related to chart operations
type ChartError struct {
	ChartID uuid.UUID
	Op      string
	Err     error
}

func (e *ChartError) Error() string {
	return fmt.Sprintf("chart operation %s failed for chart %s: %v", e.Op, e.ChartID, e.Err)
}

func (e *ChartError) Unwrap() error {
	return e.Err
}

// DiscoveryError represents an error from the discovery cache, scoped to the
// genre whose pool or count could not be produced.
type DiscoveryError struct {
	Genre Genre
	Op    string
	Err   error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovery operation %s failed for genre %s: %v", e.Op, e.Genre, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}
