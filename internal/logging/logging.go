// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Params configures Setup.
type Params struct {
	Level       string
	FormatJSON  bool
	FileName    string
	LogToStdout bool
}

// Setup applies params to the standard logrus logger. With a FileName, logs
// go to a size-rotated file, and also to stdout if LogToStdout is set.
func Setup(params Params) {
	if params.FormatJSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	log.SetLevel(GetLevel(params.Level))
	log.SetOutput(Output(params))
}

// Output returns the writer Setup would log to.
func Output(params Params) io.Writer {
	if params.FileName == "" {
		return os.Stdout
	}
	name := params.FileName
	if !strings.HasSuffix(name, ".log") {
		name += ".log"
	}
	rotating := &lumberjack.Logger{
		Filename:   name,
		MaxSize:    50, // megabytes
		MaxBackups: 10,
		Compress:   true,
	}
	if params.LogToStdout {
		return io.MultiWriter(os.Stdout, rotating)
	}
	return rotating
}

// GetLevel parses a level name, falling back to Info for unknown names.
func GetLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}
