package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the shared application logger.
func NewLogger() *logrus.Logger {
	log := logrus.New()

	// JSON output for log aggregation.
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level := logrus.InfoLevel
	if raw := os.Getenv(envPrefix + "LOG_LEVEL"); raw != "" {
		if parsed, err := logrus.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	log.SetLevel(level)

	return log
}
