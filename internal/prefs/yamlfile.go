package prefs

import (
	"fmt"
	"os"
	"sync"

	"fjacquet/pocket-budget/internal/fileutils"
	"fjacquet/pocket-budget/internal/logging"
	"fjacquet/pocket-budget/internal/validation"

	"gopkg.in/yaml.v3"
)

// YAMLFile persists all preferences as one flat YAML mapping.
//
// The file is loaded once when opened. Commit rewrites it through a temporary file and a rename,
// so readers never see a half-written document.
type YAMLFile struct {
	path   string
	logger logging.Logger

	mu     sync.Mutex
	values map[string]string
	staged map[string]string
}

// OpenYAMLFile opens (or prepares to create) the preference file at path. A missing file is an
// empty store; an unreadable or malformed one is logged and also treated as empty.
func OpenYAMLFile(path string, logger logging.Logger) (*YAMLFile, error) {
	if path == "" {
		return nil, fmt.Errorf("preference file path must not be empty")
	}
	if logger == nil {
		logger = logging.NewDiscard()
	}

	f := &YAMLFile{
		path:   path,
		logger: logger.WithField(logging.FieldFile, path),
		values: make(map[string]string),
		staged: make(map[string]string),
	}
	f.load()
	return f, nil
}

func (f *YAMLFile) load() {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.WithError(err).Warn("Could not read preference file, starting empty")
		}
		return
	}

	var values map[string]string
	if err := yaml.Unmarshal(data, &values); err != nil {
		f.logger.WithError(err).Warn("Malformed preference file, starting empty")
		return
	}
	if values != nil {
		f.values = values
	}
	if info, err := os.Stat(f.path); err == nil {
		if err := validation.FilePermissions(info.Mode()); err != nil {
			f.logger.WithError(err).Warn("Preference file is accessible to other users")
		}
	}
	f.logger.Debug("Loaded preferences", logging.F(logging.FieldCount, len(f.values)))
}

// Path returns the backing file.
func (f *YAMLFile) Path() string {
	return f.path
}

func (f *YAMLFile) lookup(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.staged[key]; ok {
		return v, true
	}
	v, ok := f.values[key]
	return v, ok
}

func (f *YAMLFile) set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.staged[key] = value
	return nil
}

// GetString returns the value under key or def.
func (f *YAMLFile) GetString(key, def string) string {
	if v, ok := f.lookup(key); ok {
		return v
	}
	return def
}

// SetString stages value under key.
func (f *YAMLFile) SetString(key, value string) error {
	return f.set(key, value)
}

// GetFloat returns the float under key or def.
func (f *YAMLFile) GetFloat(key string, def float64) float64 {
	v, ok := f.lookup(key)
	return ParseFloat(v, ok, def)
}

// SetFloat stages value under key.
func (f *YAMLFile) SetFloat(key string, value float64) error {
	return f.set(key, FormatFloat(value))
}

// GetInt returns the int under key or def.
func (f *YAMLFile) GetInt(key string, def int) int {
	v, ok := f.lookup(key)
	return ParseInt(v, ok, def)
}

// SetInt stages value under key.
func (f *YAMLFile) SetInt(key string, value int) error {
	return f.set(key, FormatInt(value))
}

// Commit writes committed and staged values to disk. On failure the staged writes are dropped
// and the file keeps its previous content.
func (f *YAMLFile) Commit() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.staged) == 0 {
		return nil
	}

	merged := make(map[string]string, len(f.values)+len(f.staged))
	for k, v := range f.values {
		merged[k] = v
	}
	for k, v := range f.staged {
		merged[k] = v
	}
	f.staged = make(map[string]string)

	data, err := yaml.Marshal(merged)
	if err != nil {
		return fmt.Errorf("error marshaling preferences: %w", err)
	}
	if err := fileutils.WriteFileAtomic(f.path, data); err != nil {
		return err
	}

	f.values = merged
	f.logger.Debug("Saved preferences", logging.F(logging.FieldCount, len(merged)))
	return nil
}
