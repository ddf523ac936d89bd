package config

import "fmt"

type Config interface {
	EnvConfig
	ServicesConfig
	SessionConfig
	HTTPConfig
}

type EnvConfig interface {
	GetAppName() string
	GetDataFolder() string
	GetLogLevel() string
	GetLogFile() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Services
	Session
	HTTP
}

// New returns a Config backed by environment variables and built-in defaults.
func New() Config {
	return newMainConfig(nil)
}

// Load returns a Config that layers environment variables over the TOML file at path.
// An empty path behaves like New.
func Load(path string) (Config, error) {
	if path == "" {
		return New(), nil
	}
	file, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return newMainConfig(file), nil
}

func newMainConfig(file *FileConfig) mainConfig {
	return mainConfig{
		EnvVars:  EnvVars{file: file},
		Services: Services{file: file},
		Session:  Session{file: file},
		HTTP:     HTTP{file: file},
	}
}
