package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName   string
	LogToConsole  bool
	LogLevel      string
	LogFormatJSON bool
	// Console defaults to os.Stderr so that command output on stdout stays clean
	Console io.Writer
}

// Setup configures the standard logrus logger. The returned closer releases
// the log file, if one was opened.
func Setup(params LoggerSetupParams) io.Closer {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logrus.SetLevel(GetLevel(params.LogLevel))

	console := params.Console
	if console == nil {
		console = os.Stderr
	}

	if params.LogFileName == "" {
		logrus.SetOutput(console)
		return nopCloser{}
	}

	if !strings.HasSuffix(params.LogFileName, ".log") {
		params.LogFileName += ".log"
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   params.LogFileName,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		LocalTime:  false, // false -> use UTC
		Compress:   true,
	}

	if params.LogToConsole {
		logrus.SetOutput(io.MultiWriter(console, lumberJackLogger))
	} else {
		logrus.SetOutput(lumberJackLogger)
	}

	logrus.WithField("file", params.LogFileName).Debug("logging to file")
	return lumberJackLogger
}

// GetLevel maps a level name to a logrus level. Unknown names fall back to info.
func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
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
