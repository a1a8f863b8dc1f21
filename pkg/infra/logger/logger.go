package logger

import (
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

const logFile = "logs/moderator.log"

// NewLogger builds the service logger: JSON lines to an async buffered file
// writer plus a synchronous console hook.
func NewLogger() *logrus.Logger {
	logger := logrus.New()

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})

	if os.Getenv("LOG_LEVEL") == "debug" {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	if err := os.MkdirAll("logs", 0750); err != nil {
		log.Fatalf("failed to create logs directory: %v", err)
	}

	asyncWriter, err := NewAsyncFileWriter(logFile, 32*1024)
	if err != nil {
		log.Fatalf("failed to initialize async log writer: %v", err)
	}

	logger.SetOutput(asyncWriter)
	logger.AddHook(NewConsoleHook())

	return logger
}
