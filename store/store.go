// Package store persists the local model between invocations.
//
// The model is kept in two JSON documents under <dir>/data: the cache
// document (sync cursor, items and user) and the ordered list of pending
// commands. Both are replaced atomically on save. An exclusive advisory lock
// on <dir>/data/.lock is held for the lifetime of an open Store, so two
// invocations against the same directory run one after the other.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/amonks/tuido/model"
)

const (
	// DataDir is the subdirectory of the local dir holding the documents.
	DataDir = "data"

	// CacheFile holds the sync cursor, items and user.
	CacheFile = "sync.json"

	// CommandsFile holds the pending command queue.
	CommandsFile = "commands.json"

	lockFile = ".lock"
)

// Store reads and writes the persisted model.
type Store struct {
	dir  string
	lock *fileLock
}

// Open prepares the data directory under dir and takes the store lock.
// Close must be called to release it.
func Open(dir string) (*Store, error) {
	s := &Store{dir: dir}
	if err := os.MkdirAll(s.dataDir(), 0755); err != nil {
		return nil, storageError("create", s.dataDir(), err)
	}
	lock, err := acquireLock(filepath.Join(s.dataDir(), lockFile))
	if err != nil {
		return nil, storageError("lock", s.dataDir(), err)
	}
	s.lock = lock
	return s, nil
}

// Close releases the store lock.
func (s *Store) Close() error {
	return s.lock.release()
}

func (s *Store) dataDir() string {
	return filepath.Join(s.dir, DataDir)
}

// CachePath returns the path of the cache document.
func (s *Store) CachePath() string {
	return filepath.Join(s.dataDir(), CacheFile)
}

// CommandsPath returns the path of the commands document.
func (s *Store) CommandsPath() string {
	return filepath.Join(s.dataDir(), CommandsFile)
}

// Load reads the persisted model. Missing documents yield the parts of a
// fresh model.New; a document that exists but cannot be decoded is a
// *StorageError.
func (s *Store) Load() (*model.Model, error) {
	m := model.New()

	cachePath := s.CachePath()
	data, err := os.ReadFile(cachePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, storageError("read", cachePath, err)
	default:
		var doc cacheDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, storageError("decode", cachePath, err)
		}
		if doc.Version > schemaVersion {
			return nil, storageError("decode", cachePath,
				fmt.Errorf("%w: %d (newest known is %d)", ErrUnsupportedVersion, doc.Version, schemaVersion))
		}
		doc.apply(m)
	}

	commandsPath := s.CommandsPath()
	data, err = os.ReadFile(commandsPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, storageError("read", commandsPath, err)
	default:
		var stored []storedCommand
		if err := json.Unmarshal(data, &stored); err != nil {
			return nil, storageError("decode", commandsPath, err)
		}
		queue, err := fromStoredCommands(stored)
		if err != nil {
			return nil, storageError("decode", commandsPath, err)
		}
		m.Commands = queue
	}

	return m, nil
}

// Save writes the model after a local mutation. The commands document is
// written before the cache document, so an interrupted save can leave a
// queued command whose item is missing locally but never an item whose
// command is lost.
func (s *Store) Save(m *model.Model) error {
	if err := s.writeCommands(m); err != nil {
		return err
	}
	return s.writeCache(m)
}

// SaveSynced writes the model after a sync response was applied. The cache
// document goes first: an interrupted save then keeps acknowledged commands
// queued, and they are sent again, instead of dropping them while items
// still carry their temporary IDs.
func (s *Store) SaveSynced(m *model.Model) error {
	if err := s.writeCache(m); err != nil {
		return err
	}
	return s.writeCommands(m)
}

func (s *Store) writeCommands(m *model.Model) error {
	commands, err := toStoredCommands(m.Commands)
	if err != nil {
		return storageError("encode", s.CommandsPath(), err)
	}
	return writeJSON(s.CommandsPath(), commands)
}

func (s *Store) writeCache(m *model.Model) error {
	return writeJSON(s.CachePath(), toCacheDocument(m))
}

// writeJSON replaces the file at path with the indented encoding of v via a
// temporary file and rename. An unchanged file is left alone.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return storageError("encode", path, err)
	}
	data = append(data, '\n')

	if existing, err := os.ReadFile(path); err == nil {
		if bytes.Equal(existing, data) {
			return nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return storageError("read", path, err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return storageError("write", path, fmt.Errorf("create temp file: %w", err))
	}
	name := tmpFile.Name()
	_, err = tmpFile.Write(data)
	if err1 := tmpFile.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(name)
		return storageError("write", path, err)
	}

	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return storageError("rename", path, err)
	}
	return nil
}
