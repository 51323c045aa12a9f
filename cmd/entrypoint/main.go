// Package main provides the Docker container entrypoint
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

func main() {
	runType := getEnvWithDefault("RUN_TYPE", "bot")

	switch runType {
	case "bot":
		execBinary("/app/bin/bot", "--log-dir", getEnvWithDefault("LOG_DIR", "logs/bot_logs"))
	case "db":
		// DB_ARGS is split on whitespace, e.g. DB_ARGS="migrate"
		args := strings.Fields(getEnvWithDefault("DB_ARGS", "migrate"))
		execBinary("/app/bin/db", args...)
	default:
		fmt.Fprintf(os.Stderr, "Invalid RUN_TYPE. Must be either 'bot' or 'db'\n")
		fmt.Fprintf(os.Stderr, "Usage: RUN_TYPE=bot [LOG_DIR=<dir>] | RUN_TYPE=db [DB_ARGS=<command>]\n")
		os.Exit(1)
	}
}

// getEnvWithDefault returns the environment variable value or the default if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// execBinary executes the specified binary with given arguments.
func execBinary(path string, args ...string) {
	cmd := exec.Command(path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute %s: %v\n", filepath.Base(path), err)
		os.Exit(1)
	}
}
