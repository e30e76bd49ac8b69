package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Setup configures the process-wide logrus logger. Unknown levels fall back
// to info.
func Setup(level string, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}
