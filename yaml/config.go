// Package yaml loads jobcore configuration files with gopkg.in/yaml.v3.
package yaml

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/fwojciec/jobcore"
	"gopkg.in/yaml.v3"
)

// Config is the file configuration of the extraction core. Every section
// is optional; missing values keep their defaults.
type Config struct {
	// Thresholds are merged over jobcore.DefaultThresholds.
	Thresholds jobcore.Thresholds `yaml:"thresholds"`

	// Budget bounds parser selection per document, e.g. "300ms".
	Budget time.Duration `yaml:"budget"`

	// Variations seed the company variation store.
	Variations []jobcore.CompanyVariation `yaml:"variations"`

	// Entities map career-site hosts to the company owning them.
	Entities map[string]string `yaml:"entities"`

	// Profiles add site parsers or replace shipped ones with the same name.
	Profiles []jobcore.SiteProfile `yaml:"profiles"`
}

// DefaultConfig returns the configuration used without a file.
func DefaultConfig() Config {
	return Config{
		Thresholds: jobcore.DefaultThresholds(),
		Budget:     300 * time.Millisecond,
	}
}

// LoadConfig reads the file at path over DefaultConfig. A missing file is
// not an error. Returns EINVALID for out-of-range values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(b)
}

// ParseConfig decodes b over DefaultConfig.
func ParseConfig(b []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, jobcore.Errorf(jobcore.EINVALID, "malformed config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate returns EINVALID when a value is out of range.
func (c Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if c.Budget <= 0 {
		return jobcore.Errorf(jobcore.EINVALID, "budget must be positive")
	}
	for i, v := range c.Variations {
		if jobcore.CompanyKey(v.Canonical) == "" {
			return jobcore.Errorf(jobcore.EINVALID, "variation %d: canonical name required", i)
		}
		if v.Confidence < 0 || v.Confidence > 1 {
			return jobcore.Errorf(jobcore.EINVALID, "variation %q: confidence must be in [0,1]", v.Canonical)
		}
	}
	for i, p := range c.Profiles {
		if p.Name == "" {
			return jobcore.Errorf(jobcore.EINVALID, "profile %d: name required", i)
		}
		if p.Ceiling <= 0 || p.Ceiling > 1 {
			return jobcore.Errorf(jobcore.EINVALID, "profile %q: ceiling must be in (0,1]", p.Name)
		}
		if !p.AcceptAll && len(p.HostSuffixes) == 0 && len(p.HostPrefixes) == 0 && len(p.PathContains) == 0 {
			return jobcore.Errorf(jobcore.EINVALID, "profile %q: no URL rule", p.Name)
		}
	}
	return nil
}
