package settings

import (
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Env holds the environment variables read at startup. Command-line flags
// take precedence over them.
type Env struct {
	SettingsPath string `env:"SETTINGS_PATH" envDefault:"settings.yaml"`
	// DataDir overrides the data_dir key of the settings file when set.
	DataDir  string `env:"GAMELOG_DATA_DIR"`
	InMemory bool   `env:"GAMELOG_IN_MEMORY"`
}

// LoadEnv parses Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, errors.Wrap(err, "parse env")
	}
	return e, nil
}
