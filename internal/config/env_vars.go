package config

import (
	"os"
	"strconv"
	"time"
)

const (
	appNameVar   = "APP_NAME"
	folderEnvVar = "FOLDER"
	logLevelVar  = "LOG_LEVEL"
	logFileVar   = "LOG_FILE"
	configVar    = "CONFIG_FILE"
)

type EnvVars struct {
	file *FileConfig
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return GetEnv(appNameVar, e.file.appName("Zonasi Session"))
}

// GetDataFolder is where durable session state is written.
func (e EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, e.file.dataFolder("./data"))
}

func (e EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, e.file.logLevel("info"))
}

func (e EnvVars) GetLogFile() string {
	return GetEnv(logFileVar, e.file.logFile(""))
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetConfigFile returns the optional TOML config path from the environment.
func GetConfigFile() string {
	return GetEnv(configVar, "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetDurationEnv parses envVar as a time.Duration, falling back to defaultValue when unset or invalid.
func GetDurationEnv(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func GetIntEnv(envVar string, defaultValue int) int {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return i
}

func GetFloatEnv(envVar string, defaultValue float64) float64 {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
