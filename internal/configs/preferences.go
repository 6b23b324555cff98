package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
	"github.com/PolarWolf314/jasyptor/internal/pbe"
)

// Preference keys.
const (
	KeyPassword  = "password"
	KeyAlgorithm = "algorithm"
	KeyWorkers   = "workers"
	KeyAudit     = "audit"
)

// Keys returns every known preference key, sorted.
func Keys() []string {
	return []string{KeyAlgorithm, KeyAudit, KeyPassword, KeyWorkers}
}

// Preferences stores the user's remembered settings. Values are strings;
// Validate defines what each key accepts.
type Preferences interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Unset(key string) error
	All() (map[string]string, error)
}

// Validate checks that key is known and value is acceptable for it, and
// returns the value in canonical form.
func Validate(key, value string) (string, error) {
	switch key {
	case KeyPassword:
		if value == "" {
			return "", fmt.Errorf("%w: %s must not be empty", kerrors.ErrInvalidPreference, key)
		}
		return value, nil
	case KeyAlgorithm:
		for _, alg := range pbe.SupportedAlgorithms() {
			if strings.EqualFold(alg, value) {
				return alg, nil
			}
		}
		return "", fmt.Errorf("%w: unsupported algorithm %q", kerrors.ErrInvalidPreference, value)
	case KeyWorkers:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return "", fmt.Errorf("%w: %s must be a positive number, got %q", kerrors.ErrInvalidPreference, key, value)
		}
		return strconv.Itoa(n), nil
	case KeyAudit:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", fmt.Errorf("%w: %s must be true or false, got %q", kerrors.ErrInvalidPreference, key, value)
		}
		return strconv.FormatBool(b), nil
	}
	return "", fmt.Errorf("%w: %q (known: %s)", kerrors.ErrUnknownPreference, key, strings.Join(Keys(), ", "))
}

// Int returns the preference as an int, or def when it is unset or invalid.
func Int(p Preferences, key string, def int) int {
	if p == nil {
		return def
	}
	v, ok := p.Get(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Bool returns the preference as a bool, or def when it is unset or invalid.
func Bool(p Preferences, key string, def bool) bool {
	if p == nil {
		return def
	}
	v, ok := p.Get(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// preferencesFile is the on-disk layout of config.toml.
type preferencesFile struct {
	Preferences map[string]string `toml:"preferences"`
}

// FileStore keeps preferences in a TOML file. Every call reads the file, so
// edits made by another process are picked up.
type FileStore struct {
	Path string

	mu sync.Mutex
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) load() (map[string]string, error) {
	data := preferencesFile{}
	if err := LoadTOML(s.Path, &data); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	if data.Preferences == nil {
		data.Preferences = map[string]string{}
	}
	return data.Preferences, nil
}

func (s *FileStore) save(prefs map[string]string) error {
	if err := SaveTOML(s.Path, preferencesFile{Preferences: prefs}); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// Get returns the stored value for key. Unreadable files count as empty.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.load()
	if err != nil {
		return "", false
	}
	v, ok := prefs[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) error {
	value, err := Validate(key, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.load()
	if err != nil {
		return err
	}
	prefs[key] = value
	return s.save(prefs)
}

func (s *FileStore) Unset(key string) error {
	if !slices.Contains(Keys(), key) {
		return fmt.Errorf("%w: %q (known: %s)", kerrors.ErrUnknownPreference, key, strings.Join(Keys(), ", "))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := prefs[key]; !ok {
		return nil
	}
	delete(prefs, key)
	return s.save(prefs)
}

func (s *FileStore) All() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// MemoryStore is an in-memory Preferences.
type MemoryStore struct {
	mu    sync.RWMutex
	prefs map[string]string
}

// NewMemoryStore returns a store holding a copy of initial. Values in
// initial are not validated.
func NewMemoryStore(initial map[string]string) *MemoryStore {
	prefs := make(map[string]string, len(initial))
	maps.Copy(prefs, initial)
	return &MemoryStore{prefs: prefs}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.prefs[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) error {
	value, err := Validate(key, value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[key] = value
	return nil
}

func (s *MemoryStore) Unset(key string) error {
	if !slices.Contains(Keys(), key) {
		return fmt.Errorf("%w: %q", kerrors.ErrUnknownPreference, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.prefs, key)
	return nil
}

func (s *MemoryStore) All() (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.prefs), nil
}
