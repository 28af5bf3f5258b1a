// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type SetupParams struct {
	// FileName is the log file; empty discards log output.
	FileName string
	Level    string
	JSON     bool
	// Stderr also copies log lines to stderr. The TUI never sets it.
	Stderr bool
}

// Setup points logrus at a rotating file. It returns a closer for the file.
func Setup(params SetupParams) io.Closer {
	if params.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	logrus.SetLevel(GetLevel(params.Level))

	if params.FileName == "" {
		logrus.SetOutput(io.Discard)
		return nopCloser{}
	}

	if !strings.HasSuffix(params.FileName, ".log") {
		params.FileName += ".log"
	}
	_ = os.MkdirAll(filepath.Dir(params.FileName), 0o755)

	rotating := &lumberjack.Logger{
		Filename:   params.FileName,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		LocalTime:  true,
	}

	if params.Stderr {
		logrus.SetOutput(io.MultiWriter(os.Stderr, rotating))
	} else {
		logrus.SetOutput(rotating)
	}
	return rotating
}

// GetLevel maps a config string to a logrus level. Unknown values give
// info.
func GetLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "info":
		return logrus.InfoLevel
	case "trace":
		return logrus.TraceLevel
	case "warn", "warning":
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
