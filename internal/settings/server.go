// Package settings loads per-server submission profiles from
// ~/.chemsmart/server/*.yaml and writes the run and submit scripts that
// carry a job onto the cluster.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/Huiwen-Tan/chemsmart/internal/config"
	"github.com/Huiwen-Tan/chemsmart/internal/scheduler"
)

// XTBExecutable is the xtb section of a server file: where the binary
// lives and what environment the compute node needs before running it.
type XTBExecutable struct {
	ExecutableFolder string `yaml:"executable_folder"`
	LocalRun         bool   `yaml:"local_run"`
	CondaEnv         string `yaml:"conda_env"`
	Modules          string `yaml:"modules"`
	Scripts          string `yaml:"scripts"`
	Envars           string `yaml:"envars"`
}

// Binary returns the xtb executable path for this section, falling back
// to the bare name when no folder is configured.
func (x XTBExecutable) Binary() string {
	if x.ExecutableFolder == "" {
		return "xtb"
	}
	return filepath.Join(x.ExecutableFolder, "xtb")
}

// Server is one cluster's submission profile. Field names follow the
// server YAML files users already maintain.
type Server struct {
	Name      string        `yaml:"-"`
	Scheduler string        `yaml:"scheduler"`
	NumCores  int           `yaml:"num_cores"`
	NumGpus   int           `yaml:"num_gpus"`
	MemGB     int           `yaml:"mem_gb"`
	NumHours  float64       `yaml:"num_hours"`
	QueueName string        `yaml:"queue_name"`
	Account   string        `yaml:"account"`
	Email     string        `yaml:"email"`
	XTB       XTBExecutable `yaml:"xtb"`
}

// serverExtensions are the YAML suffixes accepted for server files.
var serverExtensions = []string{".yaml", ".yml"}

// FromServerName loads the named server profile from the server
// directory. Unknown names report every available server.
func FromServerName(name string) (*Server, error) {
	dir := config.Global.ServerDir
	for _, ext := range serverExtensions {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return fromFile(name, path)
		}
	}

	available := ListServerNames()
	if len(available) == 0 {
		return nil, fmt.Errorf("server %q not found: no server files in %s", name, dir)
	}
	return nil, fmt.Errorf("server %q not found (available: %s)",
		name, strings.Join(available, ", "))
}

func fromFile(name, path string) (*Server, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading server file %s: %w", path, err)
	}
	server := &Server{Name: name}
	if err := yaml.UnmarshalStrict(data, server); err != nil {
		return nil, fmt.Errorf("parsing server file %s: %w", path, err)
	}
	if server.Scheduler == "" {
		if family := scheduler.DetectFamily(); family != scheduler.FamilyUnknown {
			log.Debugf("Server %s does not name a scheduler; detected %s", name, family)
			server.Scheduler = string(family)
		}
	}
	log.Debugf("Loaded server %s from %s", name, path)
	return server, nil
}

// ListServerNames returns the names of every server file in the server
// directory, sorted.
func ListServerNames() []string {
	entries, err := os.ReadDir(config.Global.ServerDir)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		for _, known := range serverExtensions {
			if ext == known {
				names = append(names, strings.TrimSuffix(entry.Name(), ext))
				break
			}
		}
	}
	sort.Strings(names)
	return names
}

// ResourceProfile converts the server's resource fields into the profile
// the scheduler backends render directives from.
func (s *Server) ResourceProfile() scheduler.ResourceProfile {
	return scheduler.ResourceProfile{
		Cores:     s.NumCores,
		Gpus:      s.NumGpus,
		MemGB:     s.MemGB,
		WallHours: s.NumHours,
		Queue:     s.QueueName,
		Account:   s.Account,
		Email:     s.Email,
	}
}
