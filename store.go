package storedobject

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Mtdung290504/stored-data-object/schema"
)

// StorageType selects whether the persisted root value is a single object or
// a homogeneous array.
type StorageType string

const (
	// StorageObject stores a single object at the file root. The default.
	StorageObject StorageType = "object"
	// StorageArray stores a homogeneous array at the file root.
	StorageArray StorageType = "array"
)

// ParseError reports a file whose content is not valid JSON.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Invalid JSON in file: %s. %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Config describes what to open.
type Config struct {
	// File is the path of the backing JSON file, resolved to absolute.
	File string

	// Schema describes the shape of the stored value. Must be an object
	// node for StorageObject and an array node for StorageArray.
	Schema *schema.Node

	// StorageType selects the root value kind. Empty means StorageObject.
	StorageType StorageType

	// Default overrides the schema-derived initial value. Used when the
	// file does not exist or is empty, and as the value Reset restores.
	Default any
}

// Options tunes an [Open] call. The zero value (or nil) is the default
// behavior: UTF-8, validation on, process-wide lock registry, slog.Default.
type Options struct {
	// Encoding names the file's text encoding. Only UTF-8 is supported;
	// anything else is rejected at Open.
	Encoding string

	// DisableValidation skips schema validation on load, write, reload and
	// reset. The file content is adopted as-is.
	DisableValidation bool

	// Locks scopes the per-path serialization state. Stores that should
	// serialize against each other must share a registry.
	Locks *LockRegistry

	// Logger receives operation failures and watcher events.
	Logger *slog.Logger
}

// Store is a typed document store backed by one JSON file. Obtain one with
// [Open]; the zero value is not usable.
//
// The in-memory value's identity is stable for the Store's lifetime: Reload
// and Reset update it in place.
type Store struct {
	path     string
	node     *schema.Node
	storage  StorageType
	validate bool
	defVal   any
	lock     *pathLock
	log      *slog.Logger

	// mu guards the live value's headers and contents against the store's
	// own mutations (merge during Reload/Reset, adopt, SetArray). It cannot
	// extend to reads made through a previously obtained Data reference;
	// see Watch for the access discipline while a watcher is running.
	mu  sync.RWMutex
	obj map[string]any
	arr []any
}

// Open resolves cfg.File, creates it with the default value when missing
// (parent directories included), or loads and validates the existing
// content.
//
// The existence-check-and-create sequence is not serialized through the path
// lock; two concurrent first-time opens of the same new path may race on
// creation. Write, Reload and Reset are fully serialized.
func Open(cfg Config, opts *Options) (*Store, error) {
	if opts == nil {
		opts = &Options{}
	}
	if cfg.File == "" {
		return nil, errors.New("config: file path is required")
	}
	if cfg.Schema == nil {
		return nil, errors.New("config: schema is required")
	}
	if err := cfg.Schema.Check(); err != nil {
		return nil, err
	}
	storage := cfg.StorageType
	if storage == "" {
		storage = StorageObject
	}
	switch storage {
	case StorageObject:
		if cfg.Schema.Kind != schema.KindObject {
			return nil, fmt.Errorf("config: object storage requires an object schema, got %s", cfg.Schema.Kind)
		}
	case StorageArray:
		if cfg.Schema.Kind != schema.KindArray {
			return nil, fmt.Errorf("config: array storage requires an array schema, got %s", cfg.Schema.Kind)
		}
	default:
		return nil, fmt.Errorf("config: unknown storage type %q", storage)
	}
	if enc := strings.ToLower(opts.Encoding); enc != "" && enc != "utf-8" && enc != "utf8" {
		return nil, fmt.Errorf("config: unsupported encoding %q", opts.Encoding)
	}

	abs, err := filepath.Abs(cfg.File)
	if err != nil {
		return nil, err
	}

	def := cfg.Default
	if def == nil {
		def = cfg.Schema.Default()
	}
	if opts.DisableValidation {
		def = deepCopy(def)
	} else {
		v, err := cfg.Schema.Validate(def)
		if err != nil {
			return nil, fmt.Errorf("Initial value validation failed: %w", err)
		}
		def = v
	}

	locks := opts.Locks
	if locks == nil {
		locks = defaultLocks
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &Store{
		path:     abs,
		node:     cfg.Schema,
		storage:  storage,
		validate: !opts.DisableValidation,
		defVal:   def,
		lock:     locks.get(abs),
		log:      log,
	}

	data, err := s.loadOrCreate()
	if err != nil {
		return nil, err
	}
	if err := s.adopt(data); err != nil {
		return nil, err
	}
	return s, nil
}

// loadOrCreate materializes the initial value: the file's validated content
// when it exists, the default otherwise (persisting it).
func (s *Store) loadOrCreate() (any, error) {
	if _, err := os.Stat(s.path); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", s.path, err)
		}
		if err := writeJSONFile(s.path, s.defVal); err != nil {
			return nil, err
		}
		return deepCopy(s.defVal), nil
	}

	v, err := s.read()
	if err != nil {
		return nil, err
	}
	if s.validate {
		v, err = s.node.Validate(v)
		if err != nil {
			return nil, fmt.Errorf("Existing file data validation failed: %w", err)
		}
	}
	return v, nil
}

// read parses the file's current content. Blank content means "no value
// yet" and yields a copy of the default; the caller validates.
func (s *Store) read() (any, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(b)) == "" {
		return deepCopy(s.defVal), nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, &ParseError{Path: s.path, Err: err}
	}
	return v, nil
}

// adopt installs v as the live value at open time.
func (s *Store) adopt(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.storage {
	case StorageArray:
		arr, ok := v.([]any)
		if !ok {
			return fmt.Errorf("file %s: root value must be an array, got %T", s.path, v)
		}
		s.arr = arr
	default:
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("file %s: root value must be an object, got %T", s.path, v)
		}
		s.obj = obj
	}
	return nil
}

// value returns the live root value. Callers hold either mu or the path
// lock; the path lock alone suffices because merge only runs under it.
func (s *Store) value() any {
	if s.storage == StorageArray {
		return s.arr
	}
	return s.obj
}

// Data returns the live root object. The returned map is the Store's own
// value: Reload and Reset update it in place, and mutations made to it are
// what Write persists. Nil in array storage mode.
//
// Access through the returned map is not synchronized with the store's own
// merges; see Watch before mixing it with a running watcher.
func (s *Store) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.obj
}

// Array returns the live root array in array storage mode. Unlike Data, the
// returned slice header is a snapshot: re-read it after Reload or Reset.
func (s *Store) Array() []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.arr
}

// SetArray replaces the root array's content prior to a Write in array
// storage mode.
func (s *Store) SetArray(items []any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mergeSlice(&s.arr, items)
}

// Snapshot returns a deep copy of the live root value, taken under the
// store's read lock. It is the safe way to read while [Store.Watch] (or any
// other goroutine driving Reload/Reset) is running: the copy is detached, so
// it neither observes later merges nor races with them.
func (s *Store) Snapshot() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return deepCopy(s.value())
}

// FilePath returns the canonicalized absolute path of the backing file.
func (s *Store) FilePath() string { return s.path }

// Schema returns the store's schema node.
func (s *Store) Schema() *schema.Node { return s.node }

// Write persists the current in-memory value, overwriting the file. With
// validation enabled the value is checked first and the file is left
// untouched on failure.
func (s *Store) Write() error {
	return s.lock.run(s.log, func() error {
		if s.validate {
			if _, err := s.node.Validate(s.value()); err != nil {
				return fmt.Errorf("Data validation failed before write: %w", err)
			}
		}
		return writeJSONFile(s.path, s.value())
	})
}

// Reload refreshes the in-memory value from disk, merging the file's
// validated content onto the live value in place. Blank file content falls
// back to the default computed at Open. The top-level identity never
// changes.
func (s *Store) Reload() error {
	return s.lock.run(s.log, s.reload)
}

func (s *Store) reload() error {
	v, err := s.read()
	if err != nil {
		return err
	}
	if s.validate {
		if v, err = s.node.Validate(v); err != nil {
			return fmt.Errorf("Existing file data validation failed: %w", err)
		}
	}
	return s.merge(v)
}

// Reset restores newValue (or, when nil, the default captured at Open),
// merges it onto the live value in place, and always persists the result.
func (s *Store) Reset(newValue any) error {
	return s.lock.run(s.log, func() error {
		v := newValue
		if v == nil {
			v = s.defVal
		}
		if s.validate {
			var err error
			if v, err = s.node.Validate(v); err != nil {
				return fmt.Errorf("Reset value validation failed: %w", err)
			}
		} else {
			v = deepCopy(v)
		}
		if err := s.merge(v); err != nil {
			return err
		}
		return writeJSONFile(s.path, s.value())
	})
}

// merge applies a validated value onto the live data without replacing the
// root identity. Runs under the path lock; mu additionally excludes the
// accessors while contents change.
func (s *Store) merge(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.storage {
	case StorageArray:
		arr, ok := v.([]any)
		if !ok {
			return fmt.Errorf("file %s: root value must be an array, got %T", s.path, v)
		}
		mergeSlice(&s.arr, arr)
	default:
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("file %s: root value must be an object, got %T", s.path, v)
		}
		mergeMap(s.obj, obj)
	}
	return nil
}

// writeJSONFile serializes v with tab indentation and overwrites path.
func writeJSONFile(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("failed to marshal data for %s: %w", path, err)
	}
	return os.WriteFile(path, b, 0o644)
}
