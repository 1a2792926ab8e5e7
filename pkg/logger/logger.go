// Package logger builds the process-wide zerolog logger.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const (
	permission = 0664
)

// Build accumulates logger options before Make.
type Build struct {
	writer io.Writer
	path   string
	level  string
}

// Log is the assembled logger plus the file handle it may own.
type Log struct {
	LogFile *os.File
	Logger  zerolog.Logger
}

func New() *Build {
	return &Build{}
}

// ToPath appends log lines to the file at path. Takes precedence over
// ToBuffer.
func (build *Build) ToPath(path string) *Build {
	build.path = path
	return build
}

// ToBuffer writes log lines to w. Defaults to stderr.
func (build *Build) ToBuffer(w io.Writer) *Build {
	build.writer = w
	return build
}

// AtLevel sets the minimum level by name. Unknown names fall back to info.
func (build *Build) AtLevel(level string) *Build {
	build.level = level
	return build
}

func (build *Build) Make() (log *Log, err error) {
	log = new(Log)
	writer := build.writer
	if writer == nil {
		writer = os.Stderr
	}
	if build.path != "" {
		log.LogFile, err = os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		writer = zerolog.SyncWriter(log.LogFile)
	}
	level, err := zerolog.ParseLevel(build.level)
	if err != nil || build.level == "" {
		level = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return log, nil
}

// Close releases the log file when one was opened.
func (log *Log) Close() error {
	if log.LogFile == nil {
		return nil
	}
	return log.LogFile.Close()
}
