// Package storage keeps short-lived page sessions (compare page state).
package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a session is missing or expired.
var ErrNotFound = errors.New("session not found")

// Store persists opaque session payloads with an expiry.
type Store interface {
	Close() error
	Load(id string) ([]byte, error)
	Save(id string, payload []byte) error
	Delete(id string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	SessionTTL      time.Duration
	CleanupInterval time.Duration
}

// Supported store types.
const (
	TypeNone   = "none"
	TypeMemory = "memory"
	TypeBBolt  = "bbolt"
)

const (
	defaultSessionTTL      = 30 * time.Minute
	defaultCleanupInterval = 10 * time.Minute
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeMemory:
		return newMemoryStore(opts), nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                { return nil }
func (noopStore) Load(string) ([]byte, error) { return nil, ErrNotFound }
func (noopStore) Save(string, []byte) error   { return nil }
func (noopStore) Delete(string) error         { return nil }
