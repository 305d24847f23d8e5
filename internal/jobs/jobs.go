// Package jobs defines the contract shared by all computational-chemistry
// job types and the file-backup helper used before a job overwrites its
// previous outputs.
package jobs

import (
	"fmt"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Huiwen-Tan/chemsmart/internal/utils"
)

// Job is one unit of chemistry work. The label doubles as the array-table
// key and the filename fragment for the job's run script, so it must be
// unique within a batch and filesystem-safe.
type Job interface {
	// Label returns the job's unique identifier.
	Label() string

	// Folder returns the directory holding the job's input and output files.
	Folder() string

	// Program returns the quantum-chemistry program the job runs under.
	Program() string
}

// BackupFolderName derives a fresh timestamped backup directory name
// inside the job folder, e.g. <folder>/backup_20260825_143000.
func BackupFolderName(folder string) string {
	stamp := time.Now().Format("20060102_150405")
	return filepath.Join(folder, fmt.Sprintf("backup_%s", stamp))
}

// BackupFiles copies the named files into backupDir, creating it on
// first use. Files that do not exist are skipped silently; a job's first
// run has nothing to back up.
func BackupFiles(backupDir string, paths ...string) error {
	for _, path := range paths {
		if !utils.FileExists(path) {
			continue
		}
		if err := utils.EnsureDir(backupDir); err != nil {
			return fmt.Errorf("creating backup folder %s: %w", backupDir, err)
		}
		if err := utils.CopyFile(path, backupDir); err != nil {
			return fmt.Errorf("backing up %s: %w", path, err)
		}
		log.Debugf("Backed up %s to %s", filepath.Base(path), backupDir)
	}
	return nil
}
