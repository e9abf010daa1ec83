package logging

import (
	"io"
	"os"
	"sync"
)

// fileWriter appends each write to path, opening and closing the file every time so that several processes can share one log.
type fileWriter struct {
	mu   sync.Mutex
	path string
}

func (w *fileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		// Unwritable log files are ignored.
		return len(p), nil
	}
	defer f.Close()

	return f.Write(p)
}

// Destination returns where new loggers write: an appending writer for $BLOBDIFF_LOG_FILE if set, else stderr.
func Destination() io.Writer {
	if path := os.Getenv(EnvLogFile); path != "" {
		return &fileWriter{path: path}
	}
	return os.Stderr
}
