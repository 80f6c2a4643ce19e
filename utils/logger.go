package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

func init() {
	// loggers must never be nil, tests call handlers without main
	InitLogger("info")
}

// InitLogger configures the shared info (stdout) and error (stderr) loggers.
func InitLogger(level string) {
	InfoLogger = newLogger(os.Stdout, level)
	ErrorLogger = newLogger(os.Stderr, level)
}

func newLogger(out io.Writer, level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}
