package utils

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// SetupLogger configures the process-wide logger. Log lines always go to
// the file at logPath (created with its parent directory as needed);
// stream additionally mirrors them to stderr. Debug lowers the level and
// flips DebugMode so the console helpers agree with the logger.
func SetupLogger(debug, stream bool, logPath string) error {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if debug {
		log.SetLevel(log.DebugLevel)
		DebugMode = true
	} else {
		log.SetLevel(log.InfoLevel)
	}

	var writers []io.Writer
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), PermDir); err != nil {
			return err
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, PermFile)
		if err != nil {
			return err
		}
		writers = append(writers, file)
	}
	if stream || logPath == "" {
		writers = append(writers, os.Stderr)
	}
	log.SetOutput(io.MultiWriter(writers...))
	return nil
}
