// Package cache provides the storage backends behind panelgrid's pipeline.
//
// Two kinds of values are cached, both as opaque bytes:
//   - Outcomes: the JSON-encoded result of interpreting a layout code under
//     given limits. Interpretation is deterministic, so outcomes live long.
//   - Artifacts: rendered outputs (SVG wireframes, DOT, structure diagrams)
//     keyed by the outcome they were rendered from.
//
// # Backends
//
//   - [FileCache]: one file per entry, for the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [MongoCache]: document store with a TTL index, for server deployments
//   - [NullCache]: caching disabled
//
// Use [Open] to build a backend from a [Config].
//
// # Keys
//
// A [Keyer] derives keys from the inputs that determine a value. Wrap it
// with [NewScopedKeyer] to isolate tenants or environments that share a
// backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Default time-to-live values.
const (
	TTLOutcome  = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// keyVersion is mixed into every key so a change to the interpreter or the
// renderers can invalidate old entries.
const keyVersion = "v1"

// Keyer derives cache keys.
type Keyer interface {
	// OutcomeKey returns the key for interpreting code under opts.
	OutcomeKey(code string, opts OutcomeKeyOpts) string

	// ArtifactKey returns the key for rendering the outcome with the given
	// hash under opts.
	ArtifactKey(outcomeHash string, opts ArtifactKeyOpts) string
}

// OutcomeKeyOpts holds every input besides the code that changes an outcome.
type OutcomeKeyOpts struct {
	MaxLength  int      `json:"max_length"`
	MaxDepth   int      `json:"max_depth"`
	AllowGaps  bool     `json:"allow_gaps"`
	Tolerant   bool     `json:"tolerant"`
	References []string `json:"references,omitempty"`
}

// ArtifactKeyOpts holds every input besides the outcome that changes an
// artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	Theme      string  `json:"theme,omitempty"`
	ShowLabels bool    `json:"show_labels,omitempty"`
	Detailed   bool    `json:"detailed,omitempty"`
}

// DefaultKeyer hashes its inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// OutcomeKey returns "outcome:<sha256>".
func (DefaultKeyer) OutcomeKey(code string, opts OutcomeKeyOpts) string {
	return hashKey("outcome", keyVersion, code, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(outcomeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", keyVersion, outcomeHash, opts)
}
