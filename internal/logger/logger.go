// Package logger configures the process-wide logrus logger.
package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Setup points the standard logrus logger at out with a JSON formatter
// in production and a text formatter otherwise.  An unknown level name
// falls back to info and is reported through the returned error.
func Setup(out io.Writer, level string, prod bool) (*logrus.Logger, error) {
	log := logrus.StandardLogger()
	log.SetOutput(out)
	if prod {
		log.SetFormatter(new(logrus.JSONFormatter))
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.SetLevel(logrus.InfoLevel)
		return log, err
	}
	log.SetLevel(lvl)
	return log, nil
}
