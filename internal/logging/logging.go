// Package logging builds the zap logger used by the CLI.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// EnvLevel names the variable that sets the log level (debug, info, warn, error).
	EnvLevel = "LOG_LEVEL"
	// EnvFile names an optional rotated JSON log file.
	EnvFile = "LOG_FILE"
)

// Options controls the logger built by NewWithOptions.
type Options struct {
	Level string
	// File, when set, receives a JSON copy of every entry.
	File string
	// Color renders levels with ANSI colors on the console core.
	Color bool
}

// New returns a console logger writing to w at the given level.
// An unknown level falls back to info.
func New(w io.Writer, level string) *zap.Logger {
	return NewWithOptions(w, Options{Level: level})
}

// NewWithOptions returns a console logger on w, teed to a rotated file when
// opts.File is set.
func NewWithOptions(w io.Writer, opts Options) *zap.Logger {
	lvl := parseLevel(opts.Level)

	consoleCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	if opts.Color {
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(w), lvl),
	}

	if opts.File != "" {
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(fileCfg),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
			}),
			lvl,
		))
	}

	return zap.New(zapcore.NewTee(cores...))
}

// FromEnv returns a stderr logger configured from LOG_LEVEL and LOG_FILE.
// Colors are used when stderr is a terminal.
func FromEnv() *zap.Logger {
	fd := os.Stderr.Fd()
	return NewWithOptions(os.Stderr, Options{
		Level: os.Getenv(EnvLevel),
		File:  os.Getenv(EnvFile),
		Color: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	})
}

func parseLevel(level string) zapcore.Level {
	level = strings.TrimSpace(level)
	if level == "" {
		return zapcore.InfoLevel
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
