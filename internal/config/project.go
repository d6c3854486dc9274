package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectConfig is the optional .ccqual.yaml sitting at a project's
// base directory: it extends the allow-list and can override the
// output postfix without repeating flags on every invocation.
type ProjectConfig struct {
	OutputPostfix  string   `yaml:"outputPostfix,omitempty"`
	AllowListExtra []string `yaml:"allowExterns,omitempty"`
	BaseDir        string   `yaml:"baseDir,omitempty"`
}

// LoadProjectConfig reads path if it exists; a missing file is not an
// error, since the config is entirely optional.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ProjectConfig{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var pc ProjectConfig
	if err := yaml.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &pc, nil
}

// MergedAllowList combines the built-in AllowListedExterns with the
// project's extras.
func (pc *ProjectConfig) MergedAllowList() map[string]bool {
	out := make(map[string]bool, len(AllowListedExterns)+len(pc.AllowListExtra))
	for k, v := range AllowListedExterns {
		out[k] = v
	}
	for _, name := range pc.AllowListExtra {
		out[name] = true
	}
	return out
}
