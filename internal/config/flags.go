package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flag names to the viper keys they override.
// Flags sit above the config file and environment in priority, so binding
// them here lets LoadFromViper pick up whichever source won.
var flagKeys = map[string]string{
	"account":     "account",
	"email":       "email",
	"scratch-dir": "scratch_dir",
}

// BindFlags binds the known persistent flags into viper. Flags the
// command did not define are skipped.
func BindFlags(fs *pflag.FlagSet) error {
	for flagName, key := range flagKeys {
		flag := fs.Lookup(flagName)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}
