// Package filestore keeps signup partitions as JSON files on local disk.
//
// Each category+date partition lives in its own file, e.g.
// SPARE_WORK_2026-02-11.json, holding an array of signup records in
// insertion order. Writes go through a temp file and rename so a crash
// mid-write never leaves a partition half-written.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nicetransit/operator-signup/pkg/core/model"
	"github.com/nicetransit/operator-signup/pkg/store"
)

const (
	partitionExt = ".json"
	tmpSuffix    = ".tmp"
)

// Store persists signups under a single data directory.
type Store struct {
	dir string
	now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates the data directory if needed and returns a store that stamps
// signup times in the given location.
func New(dir string, loc *time.Location) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &Store{
		dir:   dir,
		now:   func() time.Time { return time.Now().In(loc) },
		locks: map[string]*sync.Mutex{},
	}, nil
}

// Append records a signup at the end of the partition. Concurrent appends
// to the same partition serialise on a per-partition lock, so no record is
// ever lost to a read-modify-write race.
func (s *Store) Append(ctx context.Context, category model.Category, date string, operatorName string, extra map[string]string) (*model.Signup, error) {
	key := store.PartitionKey(category, date)
	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	signups, err := s.load(key)
	if err != nil {
		return nil, err
	}

	if extra == nil {
		extra = map[string]string{}
	}
	record := model.Signup{
		ID:           uuid.NewString(),
		OperatorName: operatorName,
		SignupTime:   s.now(),
		Extra:        extra,
	}
	signups = append(signups, record)

	if err := s.write(key, signups); err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns the partition's signups in insertion order. A partition with
// no file yet is an empty clipboard, not an error.
func (s *Store) List(ctx context.Context, category model.Category, date string) ([]model.Signup, error) {
	key := store.PartitionKey(category, date)
	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	return s.load(key)
}

func (s *Store) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

func (s *Store) partitionPath(key string) string {
	return filepath.Join(s.dir, key+partitionExt)
}

func (s *Store) load(key string) ([]model.Signup, error) {
	data, err := os.ReadFile(s.partitionPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Signup{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read partition %s: %w", key, err)
	}

	var signups []model.Signup
	if err := json.Unmarshal(data, &signups); err != nil {
		return nil, fmt.Errorf("failed to parse partition %s: %w", key, err)
	}
	return signups, nil
}

func (s *Store) write(key string, signups []model.Signup) error {
	data, err := json.MarshalIndent(signups, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode partition %s: %w", key, err)
	}

	path := s.partitionPath(key)
	tmp := path + tmpSuffix
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write partition %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace partition %s: %w", key, err)
	}
	return nil
}
