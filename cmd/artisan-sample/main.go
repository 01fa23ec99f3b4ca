// Command artisan-sample shows two command types bound with the artisan
// package.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nesv/artisan"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	level, err := logrus.ParseLevel(getEnv("ARTISAN_LOG_LEVEL", "info"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
	logger.SetLevel(level)

	root, err := newRootCommand(os.Stdout, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to build commands")
	}
	root.Exec()
}

func newRootCommand(out io.Writer, logger *logrus.Logger) (*artisan.Cmd, error) {
	root := artisan.New("HelloWorld", nil)
	root.Log = logger

	if err := artisan.Bind(root, "queue", queueCommand(out)); err != nil {
		return nil, err
	}
	if err := artisan.Bind(root, "advanced-queue", advancedQueueCommand(out, logger.GetLevel())); err != nil {
		return nil, err
	}
	return root, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
