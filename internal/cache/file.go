package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wonny/tickergrade/pkg/clock"
	"github.com/wonny/tickergrade/pkg/logger"
)

// DefaultFileTTL is the lifetime of a persisted series
const DefaultFileTTL = 24 * time.Hour

type envelope[T any] struct {
	Timestamp time.Time `json:"timestamp"`
	Data      T         `json:"data"`
}

// File persists one value with its fetch timestamp. A stored value is served
// until it is TTL old; after that the next Fetch refetches and overwrites it.
type File[T any] struct {
	path   string
	ttl    time.Duration
	clock  clock.Clock
	logger *logger.Logger

	mu sync.Mutex
}

// NewFile creates a file tier at path
func NewFile[T any](path string, ttl time.Duration, clk clock.Clock, log *logger.Logger) *File[T] {
	if ttl <= 0 {
		ttl = DefaultFileTTL
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &File[T]{
		path:   path,
		ttl:    ttl,
		clock:  clk,
		logger: log,
	}
}

// Load returns the stored value if it is younger than the TTL
func (f *File[T]) Load() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *File[T]) load() (T, bool) {
	var zero T

	raw, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.WithError(err).WithField("path", f.path).Warn("Failed to read file cache")
		}
		return zero, false
	}

	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		f.logger.WithError(err).WithField("path", f.path).Warn("Corrupt file cache ignored")
		return zero, false
	}

	age := f.clock.Now().Sub(env.Timestamp)
	if age >= f.ttl {
		f.logger.WithField("age_hours", age.Hours()).Info("File cache expired")
		return zero, false
	}

	f.logger.WithField("age_hours", age.Hours()).Debug("File cache hit")
	return env.Data, true
}

// Store writes v with the current timestamp, replacing the file atomically
func (f *File[T]) Store(v T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store(v)
}

func (f *File[T]) store(v T) error {
	raw, err := json.Marshal(envelope[T]{Timestamp: f.clock.Now(), Data: v})
	if err != nil {
		return fmt.Errorf("failed to encode file cache: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace file cache: %w", err)
	}
	return nil
}

// Fetch serves the stored value while fresh; otherwise it calls fetch and
// persists an available result. A failed fetch is reported as unavailable.
func (f *File[T]) Fetch(ctx context.Context, fetch FetchFunc[T]) (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if v, ok := f.load(); ok {
		return v, true
	}

	v, ok := fetch(ctx)
	if !ok {
		return v, false
	}
	if err := f.store(v); err != nil {
		f.logger.WithError(err).WithField("path", f.path).Warn("Failed to save file cache")
	}
	return v, true
}
