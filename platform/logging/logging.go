package logging

import (
	"os"

	"github.com/DedS3t/monopoly-server/platform/config"
	"github.com/sirupsen/logrus"
)

// Init configures the standard logrus logger: JSON at info in prod, text
// at debug elsewhere. LOG_LEVEL overrides either default.
func Init(cfg config.Config) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetOutput(os.Stdout)

	level := logrus.DebugLevel
	if cfg.Prod() {
		log.SetFormatter(&logrus.JSONFormatter{})
		level = logrus.InfoLevel
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if cfg.LogLevel != "" {
		if parsed, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			level = parsed
		} else {
			log.WithError(err).Warn("ignoring LOG_LEVEL")
		}
	}
	log.SetLevel(level)
	return log
}
