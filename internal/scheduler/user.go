package scheduler

import "sync"

// UserSettings carries per-user submission defaults that apply to every
// batch in the process: the billing account and the notification email.
// SLURM and PBS consult these when writing directives; LSF clusters in
// the wild key billing off the submitting user instead, so the LSF
// backend reads the resource profile only.
type UserSettings struct {
	Account string
	Email   string
}

var (
	userMu       sync.RWMutex
	userSettings UserSettings
)

// SetUserSettings replaces the process-wide user settings.
func SetUserSettings(s UserSettings) {
	userMu.Lock()
	defer userMu.Unlock()
	userSettings = s
}

// CurrentUserSettings returns a copy of the process-wide user settings.
func CurrentUserSettings() UserSettings {
	userMu.RLock()
	defer userMu.RUnlock()
	return userSettings
}

// ClearUserSettings resets the process-wide user settings to empty.
func ClearUserSettings() {
	userMu.Lock()
	defer userMu.Unlock()
	userSettings = UserSettings{}
}
