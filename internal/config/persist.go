package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigFilename is the name of the config file
const ConfigFilename = "config"

// ConfigType is the type of config file (yaml, json, toml)
const ConfigType = "yaml"

// InitViper initializes Viper with proper search paths and defaults
// Priority (highest to lowest):
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (CHEMSMART_*)
// 3. User config file (~/.chemsmart/config.yaml)
// 4. System config file (/etc/chemsmart/config.yaml)
// 5. Defaults
func InitViper() error {
	viper.SetConfigName(ConfigFilename)
	viper.SetConfigType(ConfigType)

	// Set config search paths (order matters)
	// User config (highest priority)
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".chemsmart"))
	}

	// XDG config fallback
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(userConfigDir, "chemsmart"))
	}

	// System-wide config (lower priority)
	viper.AddConfigPath("/etc/chemsmart")

	// Current directory (for development)
	viper.AddConfigPath(".")

	// Environment variables
	viper.SetEnvPrefix("CHEMSMART")
	viper.AutomaticEnv()

	// Set defaults (lowest priority)
	setDefaults()

	// Read config file (non-fatal if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; will use defaults and auto-detect
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// setDefaults sets default values for all config keys
func setDefaults() {
	viper.SetDefault("xtb_bin", "xtb")
	viper.SetDefault("scheduler_bin", "")
	viper.SetDefault("scheduler_type", "")
	viper.SetDefault("submit_job", true)
	viper.SetDefault("scratch_dir", "")
	viper.SetDefault("account", "")
	viper.SetDefault("email", "")
}

// GetUserConfigPath returns the path to the user config file
func GetUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".chemsmart", ConfigFilename+"."+ConfigType), nil
}

// SaveConfig saves current Viper config to user config file
func SaveConfig() error {
	configPath, err := GetUserConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Create directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write config file
	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ValidateBinary checks if a binary exists and is executable
func ValidateBinary(binPath string) bool {
	if binPath == "" {
		return false
	}

	// If it's a full path, check directly
	if filepath.IsAbs(binPath) {
		info, err := os.Stat(binPath)
		if err != nil {
			return false
		}
		// Check if it's executable (unix-style check)
		return info.Mode()&0111 != 0
	}

	// Otherwise, try to find it in PATH
	_, err := exec.LookPath(binPath)
	return err == nil
}

// DetectXtbBin attempts to find the xtb binary
// Returns the full absolute path if found, empty string otherwise
func DetectXtbBin() string {
	if path, err := exec.LookPath("xtb"); err == nil {
		// exec.LookPath already returns the full path
		return path
	}
	return ""
}

// DetectSchedulerBin attempts to find a scheduler submission binary
// Returns (binary_path, scheduler_type) if found
func DetectSchedulerBin() (string, string) {
	// Try SLURM first (most common in HPC)
	if path, err := exec.LookPath("sbatch"); err == nil {
		return path, "SLURM"
	}

	// Try PBS
	if path, err := exec.LookPath("qsub"); err == nil {
		return path, "PBS"
	}

	// Try LSF
	if path, err := exec.LookPath("bsub"); err == nil {
		return path, "LSF"
	}

	return "", ""
}

// AutoDetectAndSave auto-detects binaries and saves to config if needed
// Returns true if config was updated
func AutoDetectAndSave() (bool, error) {
	updated := false

	// Check and detect xtb binary
	xtbBin := viper.GetString("xtb_bin")
	if !ValidateBinary(xtbBin) {
		detected := DetectXtbBin()
		if detected != "" {
			viper.Set("xtb_bin", detected)
			updated = true
		}
	}

	// Check and detect scheduler binary
	schedulerBin := viper.GetString("scheduler_bin")
	if !ValidateBinary(schedulerBin) {
		detectedBin, detectedType := DetectSchedulerBin()
		if detectedBin != "" {
			viper.Set("scheduler_bin", detectedBin)
			viper.Set("scheduler_type", detectedType)
			updated = true
		}
	}

	// Save if anything was updated
	if updated {
		if err := SaveConfig(); err != nil {
			return false, err
		}
	}

	return updated, nil
}

// ForceDetectAndSave always re-detects binaries from current environment and saves
// This is useful for config init to capture the exact paths from current PATH
// Returns true if config was updated
func ForceDetectAndSave() (bool, error) {
	updated := false

	// Always re-detect xtb binary
	detected := DetectXtbBin()
	if detected != "" {
		currentBin := viper.GetString("xtb_bin")
		if currentBin != detected {
			viper.Set("xtb_bin", detected)
			updated = true
		}
	}

	// Always re-detect scheduler binary
	detectedBin, detectedType := DetectSchedulerBin()
	if detectedBin != "" {
		currentBin := viper.GetString("scheduler_bin")
		currentType := viper.GetString("scheduler_type")
		if currentBin != detectedBin || currentType != detectedType {
			viper.Set("scheduler_bin", detectedBin)
			viper.Set("scheduler_type", detectedType)
			updated = true
		}
	}

	// Always save (even if nothing changed, to create the file)
	if err := SaveConfig(); err != nil {
		return false, err
	}

	return updated, nil
}

// LoadFromViper loads config from Viper into Global struct
func LoadFromViper() {
	// Update binary paths from Viper, with fallback to detection
	if bin := viper.GetString("xtb_bin"); bin != "" && ValidateBinary(bin) {
		Global.XtbBin = bin
	} else {
		// Fallback to detection if config value is empty or invalid
		if detected := DetectXtbBin(); detected != "" {
			Global.XtbBin = detected
		}
	}

	if bin := viper.GetString("scheduler_bin"); bin != "" {
		Global.SchedulerBin = bin
	}
	if schedType := viper.GetString("scheduler_type"); schedType != "" {
		Global.SchedulerType = schedType
	}

	if submitJob := viper.GetBool("submit_job"); !submitJob {
		Global.SubmitJob = submitJob
	}

	if scratchDir := viper.GetString("scratch_dir"); scratchDir != "" {
		Global.ScratchDir = scratchDir
	}

	if account := viper.GetString("account"); account != "" {
		Global.Account = account
	}
	if email := viper.GetString("email"); email != "" {
		Global.Email = email
	}
}
