package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig is the optional TOML configuration file.
//
//	app_name = "Zonasi Session"
//	data_folder = "./data"
//
//	[services]
//	auth = "http://localhost:8081"
//
//	[session]
//	refresh_lead_time = "60s"
//
//	[http]
//	request_timeout = "30s"
//	requests_per_second = 20
type FileConfig struct {
	AppName    string            `toml:"app_name"`
	DataFolder string            `toml:"data_folder"`
	LogLevel   string            `toml:"log_level"`
	LogFile    string            `toml:"log_file"`
	Services   map[string]string `toml:"services"`
	Session    FileSession       `toml:"session"`
	HTTP       FileHTTP          `toml:"http"`
}

type FileSession struct {
	RefreshLeadTime string `toml:"refresh_lead_time"`
	RefreshTimeout  string `toml:"refresh_timeout"`
}

type FileHTTP struct {
	RequestTimeout    string  `toml:"request_timeout"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	RequestBurst      int     `toml:"request_burst"`
}

// LoadFile decodes the TOML file at path and rejects unknown keys.
func LoadFile(path string) (*FileConfig, error) {
	var fc FileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	for _, d := range []string{fc.Session.RefreshLeadTime, fc.Session.RefreshTimeout, fc.HTTP.RequestTimeout} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			return nil, fmt.Errorf("invalid duration %q in %s: %w", d, path, err)
		}
	}
	return &fc, nil
}

func (fc *FileConfig) appName(def string) string {
	if fc == nil || fc.AppName == "" {
		return def
	}
	return fc.AppName
}

func (fc *FileConfig) dataFolder(def string) string {
	if fc == nil || fc.DataFolder == "" {
		return def
	}
	return fc.DataFolder
}

func (fc *FileConfig) logLevel(def string) string {
	if fc == nil || fc.LogLevel == "" {
		return def
	}
	return fc.LogLevel
}

func (fc *FileConfig) logFile(def string) string {
	if fc == nil || fc.LogFile == "" {
		return def
	}
	return fc.LogFile
}

func (fc *FileConfig) session() FileSession {
	if fc == nil {
		return FileSession{}
	}
	return fc.Session
}

func (fc *FileConfig) http() FileHTTP {
	if fc == nil {
		return FileHTTP{}
	}
	return fc.HTTP
}

func (fc *FileConfig) duration(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return d
}
