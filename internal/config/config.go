package config

import (
	"os"
	"path/filepath"
)

const VERSION = "0.3.1"

// Config holds global application settings
type Config struct {
	Debug     bool
	SubmitJob bool
	Version   string

	HomeDir   string // ~/.chemsmart
	ServerDir string // ~/.chemsmart/server
	LogFile   string // ~/.chemsmart/chemsmart.log

	ScratchDir string // base directory for scratch runs

	XtbBin        string
	SchedulerBin  string
	SchedulerType string

	// Process-wide submission defaults.
	Account string
	Email   string
}

// Global holds the singleton configuration instance
var Global Config

func LoadDefaults() {
	home, _ := os.UserHomeDir()
	chemsmartDir := filepath.Join(home, ".chemsmart")

	scratch := os.Getenv("SCRATCH")

	Global = Config{
		Debug:     false,
		SubmitJob: true,
		Version:   VERSION,

		HomeDir:   chemsmartDir,
		ServerDir: filepath.Join(chemsmartDir, "server"),
		LogFile:   filepath.Join(chemsmartDir, "chemsmart.log"),

		ScratchDir: scratch,

		XtbBin: "xtb",
	}
}
