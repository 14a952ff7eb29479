package main

import (
	"github.com/acksell/gamelog/settings"
)

type config struct {
	settingsPath string
	settings     settings.Settings
	dataDir      string
	inMemory     bool
}

// resolveConfig merges the environment, the settings file and the flags, in
// increasing order of precedence. Loading the settings file also bumps its
// max_connections counter.
func resolveConfig(opts *rootOptions) (config, error) {
	env, err := settings.LoadEnv()
	if err != nil {
		return config{}, err
	}

	cfg := config{settingsPath: env.SettingsPath}
	if opts.SettingsPath != "" {
		cfg.settingsPath = opts.SettingsPath
	}

	cfg.settings, err = settings.LoadAndBump(cfg.settingsPath)
	if err != nil {
		return config{}, err
	}

	cfg.dataDir = cfg.settings.DataDir
	if env.DataDir != "" {
		cfg.dataDir = env.DataDir
	}
	if opts.DataDir != "" {
		cfg.dataDir = opts.DataDir
	}
	cfg.inMemory = opts.Memory || env.InMemory
	return cfg, nil
}
