package main

import (
	"io"
	"os"
	"time"

	"github.com/jrsteele09/go-zonasi-client/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging configures the global zerolog logger from c. The returned
// function closes the log file, if any.
func setupLogging(c config.EnvConfig) func() {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var console io.Writer = os.Stderr
	if c.GetEnv() == "DEV" {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	}

	closer := func() {}
	out := console
	if path := c.GetLogFile(); path != "" {
		file := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		out = zerolog.MultiLevelWriter(console, file)
		closer = func() { _ = file.Close() }
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return closer
}
