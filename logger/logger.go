package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger. It must be initialized with Init()
// before any other package uses it.
var Log *logrus.Logger

func Init() {
	Log = logrus.New()
	Log.SetOutput(os.Stdout)

	// JSON logs everywhere except local development, where text is easier to read.
	if os.Getenv("APP_ENV") == "development" {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		Log.SetFormatter(&logrus.JSONFormatter{})
	}

	Log.SetLevel(logrus.InfoLevel)
}
