package server

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

const logFileName = "app.log"

// SetupLogging points the standard logger at stdout and dir/app.log. Under air only the
// file is written, since air already echoes the process output.
func SetupLogging(dir string) (io.Closer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, logFileName)
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	var out io.Writer = logFile
	if os.Getenv("AIR_RESTART_COUNT") == "" {
		out = io.MultiWriter(os.Stdout, logFile)
	}
	log.SetOutput(out)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Printf("Logging to %s", path)
	return logFile, nil
}
