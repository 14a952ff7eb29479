// Package settings reads and writes the settings file and the environment
// variables that locate it.
package settings

import (
	"bytes"
	"io"
	"io/fs"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned by Load when the settings file does not exist.
	ErrNotFound = errors.New("settings file not found")
	// ErrPermission is returned when the settings file cannot be accessed.
	ErrPermission = errors.New("permission denied when accessing settings file")
	// ErrEmpty is the cause of the ParseError returned for a file with no document.
	ErrEmpty = errors.New("settings file is empty")
)

// ParseError is returned by Load when the file exists but is not valid settings.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "parse settings " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Settings is the content of the settings file. JSON files are accepted as
// well, since JSON is valid YAML.
type Settings struct {
	ProjectName    string `yaml:"project_name" json:"project_name"`
	Version        string `yaml:"version" json:"version"`
	Debug          bool   `yaml:"debug" json:"debug"`
	MaxConnections uint32 `yaml:"max_connections" json:"max_connections"`
	// DataDir is the badger directory holding the games and game_events trees.
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

// Default returns the settings written by `gamelog init`.
func Default() Settings {
	return Settings{
		ProjectName:    "EscapeRoom",
		Version:        "1.0.0",
		MaxConnections: 1,
		DataDir:        "game_db",
	}
}

// Load reads the settings file at path. Keys missing from the file keep their
// Default values; unknown keys and an empty file are parse errors.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, classify(err, "read settings "+path)
	}

	s := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			err = ErrEmpty
		}
		return Settings{}, &ParseError{Path: path, Err: err}
	}
	return s, nil
}

// Save writes s to path, replacing the file.
func (s Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encode settings")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return classify(err, "write settings "+path)
	}
	return nil
}

// LoadAndBump loads the settings at path, increments MaxConnections and writes
// the result back. A missing file starts from Default.
func LoadAndBump(path string) (Settings, error) {
	s, err := Load(path)
	if errors.Is(err, ErrNotFound) {
		s, err = Default(), nil
	}
	if err != nil {
		return Settings{}, err
	}
	s.MaxConnections++
	if err := s.Save(path); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func classify(err error, msg string) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return errors.Wrap(ErrNotFound, msg)
	case errors.Is(err, fs.ErrPermission):
		return errors.Wrap(ErrPermission, msg)
	default:
		return errors.Wrap(err, msg)
	}
}
